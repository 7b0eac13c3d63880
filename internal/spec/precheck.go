package spec

import (
	"strconv"
	"strings"

	"github.com/mark3labs/openapi2rust/internal/spec/yamlnode"
	"gopkg.in/yaml.v3"
)

// componentSections are the only reference targets the generator follows.
var componentSections = []string{"schemas", "requestBodies", "responses", "parameters"}

// Precheck rejects documents the adapters cannot represent: references
// outside the supported component sections, references to missing
// components, and response keys that are not valid status specifications.
// It runs on the raw node tree before either adapter sees the document.
func Precheck(root *yaml.Node) error {
	root = yamlnode.Deref(root)
	if root == nil {
		return nil
	}
	if !yamlnode.IsMapping(root) {
		return &SpecError{Code: ParseError, Message: "document root is not a mapping"}
	}
	if err := checkRefs(root, root, nil); err != nil {
		return err
	}
	return checkStatuses(root)
}

func checkRefs(root, n *yaml.Node, path []string) error {
	n = yamlnode.Deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		for _, p := range yamlnode.Pairs(n) {
			child := append(path[:len(path):len(path)], p.Key)
			if p.Key == "$ref" {
				if ref, ok := yamlnode.String(p.Value); ok {
					if err := CheckRef(root, ref); err != nil {
						err.Pointer = yamlnode.Pointer(child...)
						return err
					}
					continue
				}
			}
			if err := checkRefs(root, p.Value, child); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			if err := checkRefs(root, item, append(path[:len(path):len(path)], strconv.Itoa(i))); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckRef validates a single reference against the document root.
func CheckRef(root *yaml.Node, ref string) *SpecError {
	section, name, ok := splitComponentRef(ref)
	if !ok {
		return &SpecError{Code: UnsupportedReference, Message: "unsupported reference " + ref + " (only #/components/{schemas,requestBodies,responses,parameters}/{name} are supported)"}
	}
	target := yamlnode.Lookup(yamlnode.Lookup(root, "components"), section)
	if !yamlnode.Has(target, name) {
		return &SpecError{Code: DanglingReference, Message: "reference " + ref + " points to a missing component"}
	}
	return nil
}

// splitComponentRef splits "#/components/{section}/{name}".
func splitComponentRef(ref string) (section, name string, ok bool) {
	tokens, ok := yamlnode.Split(ref)
	if !ok || len(tokens) != 3 || tokens[0] != "components" || tokens[2] == "" {
		return "", "", false
	}
	for _, s := range componentSections {
		if tokens[1] == s {
			return s, tokens[2], true
		}
	}
	return "", "", false
}

func checkStatuses(root *yaml.Node) error {
	for _, path := range yamlnode.Pairs(yamlnode.Lookup(root, "paths")) {
		for _, op := range yamlnode.Pairs(path.Value) {
			if _, ok := ParseMethod(op.Key); !ok {
				continue
			}
			for _, resp := range yamlnode.Pairs(yamlnode.Lookup(op.Value, "responses")) {
				if strings.HasPrefix(resp.Key, "x-") {
					continue
				}
				if _, err := ParseStatus(resp.Key); err != nil {
					return &SpecError{
						Code:    InvalidStatus,
						Message: err.Error(),
						Pointer: yamlnode.Pointer("paths", path.Key, op.Key, "responses", resp.Key),
						Cause:   err,
					}
				}
			}
		}
	}
	return nil
}
