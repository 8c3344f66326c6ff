package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadPromptOverride reads <PROMPT_DIR>/<name>.<lang>.txt. It lets operators tune the teacher
// persona without a rebuild; callers fall back to the built-in prompt on error.
func LoadPromptOverride(name, lang string) (string, error) {
	baseRoot := os.Getenv("PROMPT_DIR")
	if baseRoot == "" {
		return "", fmt.Errorf("PROMPT_DIR is not set")
	}
	p := filepath.Join(baseRoot, fmt.Sprintf("%s.%s.txt", name, lang))
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", p, err)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "", fmt.Errorf("prompt %q is empty", p)
	}
	return s, nil
}

// FixJSONSchemaStrict makes every object node require all of its properties.
func FixJSONSchemaStrict(node any) {
	switch n := node.(type) {
	case map[string]any:
		if props, ok := n["properties"].(map[string]any); ok {
			if _, hasType := n["type"]; !hasType {
				n["type"] = "object"
			}
			req := make([]any, 0, len(props))
			for k := range props {
				req = append(req, k)
			}
			n["required"] = req
			for _, v := range props {
				FixJSONSchemaStrict(v)
			}
		}
		if items, ok := n["items"]; ok {
			switch it := items.(type) {
			case map[string]any:
				FixJSONSchemaStrict(it)
			case []any:
				for _, el := range it {
					FixJSONSchemaStrict(el)
				}
			}
		}
	case []any:
		for _, v := range n {
			FixJSONSchemaStrict(v)
		}
	}
}
