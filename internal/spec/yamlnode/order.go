package yamlnode

import (
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// KeyOrder records the document order of the keys of every mapping reachable
// from a root, indexed by the mapping's local JSON pointer. Typed models that
// decode into Go maps lose that order; the index restores it.
type KeyOrder map[string][]string

// BuildKeyOrder indexes every mapping below root. Mappings inside sequences
// are indexed with the element position as a token.
func BuildKeyOrder(root *yaml.Node) KeyOrder {
	ko := KeyOrder{}
	ko.walk(Deref(root), nil)
	return ko
}

func (ko KeyOrder) walk(n *yaml.Node, path []string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		pairs := Pairs(n)
		keys := make([]string, len(pairs))
		for i, p := range pairs {
			keys[i] = p.Key
		}
		ko[Pointer(path...)] = keys
		for _, p := range pairs {
			ko.walk(p.Value, append(path[:len(path):len(path)], p.Key))
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			ko.walk(Deref(item), append(path[:len(path):len(path)], strconv.Itoa(i)))
		}
	}
}

// Keys returns keys sorted by their position in the mapping at ptr. Keys the
// index does not know keep their relative lexical order after known ones.
func (ko KeyOrder) Keys(ptr string, keys []string) []string {
	order := ko[ptr]
	pos := make(map[string]int, len(order))
	for i, k := range order {
		pos[k] = i
	}
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := pos[out[i]]
		pj, jok := pos[out[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}
