package editor

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SheetPattern is the temp file pattern for hotkey sheets.
const SheetPattern = "soundpad-hotkeys-*.yaml"

const sheetComment = `Hotkeys, one sound per line. Use a single letter or digit.
An empty value removes the hotkey. Removing a line leaves that sound unchanged.`

// Row is one sound of the hotkey sheet.
type Row struct {
	Name   string
	Hotkey string
}

// ErrNotMapping is returned when the edited sheet is not a YAML mapping.
var ErrNotMapping = errors.New("hotkey sheet must be a mapping of sound name to key")

// EncodeSheet renders rows as a commented YAML mapping in row order.
func EncodeSheet(rows []Row) (string, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, HeadComment: sheetComment}
	for _, r := range rows {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Hotkey, Style: yaml.DoubleQuotedStyle},
		)
	}
	out, err := yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}})
	if err != nil {
		return "", fmt.Errorf("encoding hotkey sheet: %w", err)
	}
	return string(out), nil
}

// DecodeSheet parses an edited sheet. Null values decode as "". An empty
// document decodes as an empty sheet.
func DecodeSheet(text string) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parsing hotkey sheet: %w", err)
	}
	out := map[string]string{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %w", k.Line, ErrNotMapping)
		}
		if _, dup := out[k.Value]; dup {
			return nil, fmt.Errorf("line %d: %q listed twice", k.Line, k.Value)
		}
		if v.Tag == "!!null" {
			out[k.Value] = ""
			continue
		}
		out[k.Value] = v.Value
	}
	return out, nil
}
