package formatter

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/machq/internal/query"
)

// RecordNode encodes r as a YAML mapping with fqdn and system_id first and
// the fields in schema order. Absent fields are left out.
func RecordNode(r query.Record) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value any) {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &v)
	}
	m := r.Map()
	add("fqdn", r.FQDN())
	add("system_id", r.SystemID().String())
	for _, f := range query.Fields() {
		if v, ok := m[f.Key()]; ok {
			add(f.Key(), v)
		}
	}
	return node
}

// FormatYAML renders records as a YAML sequence.
func FormatYAML(records []query.Record, indent int) (string, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		seq.Content = append(seq.Content, RecordNode(r))
	}
	return encodeYAML(seq, indent)
}

// FormatValueYAML renders any value as YAML.
func FormatValueYAML(v any, indent int) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", err
	}
	return encodeYAML(&node, indent)
}

func encodeYAML(node *yaml.Node, indent int) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatJSON renders records as an indented JSON array.
func FormatJSON(records []query.Record) (string, error) {
	maps := make([]map[string]any, 0, len(records))
	for _, r := range records {
		maps = append(maps, r.Map())
	}
	data, err := json.MarshalIndent(maps, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
