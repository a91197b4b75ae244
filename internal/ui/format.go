package ui

import "gopkg.in/yaml.v3"

// Format selects the gateway envelope's output rendering.
type Format string

const (
	FormatJSON  Format = "json"
	FormatHuman Format = "human"
	FormatYAML  Format = "yaml"
)

// RenderYAML marshals data as YAML, a cheap third rendering alongside
// JSON/human (spec.md §4.J's envelope is format-agnostic beyond those
// two; CLEO already depends on a yaml codec for other concerns).
func RenderYAML(data interface{}) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
