package output

import (
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// SerializeJSON renders v as indented JSON with a trailing newline.
func SerializeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing JSON: %w", err)
	}

	return ensureNewline(data), nil
}

// SerializeYAML renders v as YAML. Field names follow the json struct tags,
// so the YAML view matches the wire format of the API.
func SerializeYAML(v any) ([]byte, error) {
	data, err := sigsyaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return ensureNewline(data), nil
}

// ensureNewline appends a trailing newline when missing.
func ensureNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b
}
