package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func renderYAML(data any) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML output: %w", err)
	}
	return string(out), nil
}
