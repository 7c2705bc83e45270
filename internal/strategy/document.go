package strategy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DocumentFromYAML decodes already-fetched YAML bytes into a flat
// document. The settings file may group keys into nested sections; nesting
// is flattened by joining path segments with underscores, which is the
// same convention the engine uses when it writes the file back out.
func DocumentFromYAML(data []byte) (Document, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml document: %w", err)
	}
	doc := Document{}
	flattenInto(doc, "", raw)
	return doc, nil
}

// ToYAML encodes a document as YAML for persistence or display.
func (d Document) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(map[string]interface{}(d))
	if err != nil {
		return nil, fmt.Errorf("encode yaml document: %w", err)
	}
	return out, nil
}

func flattenInto(doc Document, prefix string, m map[string]interface{}) {
	for key, value := range m {
		full := key
		if prefix != "" {
			full = prefix + "_" + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenInto(doc, full, nested)
			continue
		}
		doc[full] = value
	}
}
