package loader

import "fmt"

// collectionKeys are the top-level keys searched for a list of machines when
// a document is a map rather than a list.
var collectionKeys = []string{"machines", "records", "items", "nodes"}

// Records flattens parsed documents into one map per machine. A document may
// be a list of machines, a map holding such a list under one of the
// collection keys (TOML needs this, as it has no top-level arrays), or a
// single machine.
func Records(docs []any) ([]map[string]any, error) {
	var out []map[string]any
	for i, doc := range docs {
		recs, err := documentRecords(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		out = append(out, recs...)
	}
	return out, nil
}

func documentRecords(doc any) ([]map[string]any, error) {
	switch v := doc.(type) {
	case []any:
		return listRecords(v)
	case map[string]any:
		for _, key := range collectionKeys {
			if list, ok := v[key].([]any); ok {
				return listRecords(list)
			}
		}
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("unsupported document type %T", doc)
	}
}

func listRecords(list []any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: expected a map, got %T", i, item)
		}
		out = append(out, m)
	}
	return out, nil
}
