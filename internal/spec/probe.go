package spec

import (
	"bufio"
	"bytes"
	"regexp"
)

// probeLines bounds how far into the document the version probe looks.
const probeLines = 5

var versionRe = regexp.MustCompile(`["']?openapi["']?\s*:\s*["']?((\d+\.\d+)\.\d+)`)

// ProbeVersion finds the "openapi: X.Y.Z" declaration in the leading lines of
// a YAML or JSON document.
func ProbeVersion(data []byte) (Version, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for i := 0; i < probeLines && sc.Scan(); i++ {
		m := versionRe.FindSubmatch(sc.Bytes())
		if m == nil {
			continue
		}
		switch v := Version(m[2]); v {
		case Version30, Version31:
			return v, nil
		default:
			return "", &SpecError{Code: UnsupportedVersion, Message: "unsupported OpenAPI version " + string(m[1]) + " (supported: 3.0.x, 3.1.x)"}
		}
	}
	if err := sc.Err(); err != nil {
		return "", &SpecError{Code: ParseError, Message: "read document: " + err.Error(), Cause: err}
	}
	return "", &SpecError{Code: ParseError, Message: "no OpenAPI version declaration found in the first 5 lines"}
}
