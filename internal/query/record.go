package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Value is the per-field value of a record. Its shape is fixed by the field
// kind when the record is built and is never re-inspected afterwards.
type Value struct {
	kind    Kind
	present bool
	valid   bool // numeric values only: false when the source value did not parse
	list    []string
	num     float64
	str     string
}

// Kind returns the kind the value was resolved for.
func (v Value) Kind() Kind { return v.kind }

// Present reports whether the record carries the field at all.
func (v Value) Present() bool { return v.present }

// List returns the elements of a list value.
func (v Value) List() []string { return v.list }

// Number returns the numeric value and whether it is usable for comparison.
func (v Value) Number() (float64, bool) { return v.num, v.present && v.valid }

// Text returns the string value of a string-kind field.
func (v Value) Text() string { return v.str }

// String renders the value for display.
func (v Value) String() string {
	if !v.present {
		return ""
	}
	switch v.kind {
	case KindList:
		return strings.Join(v.list, ", ")
	case KindNumeric:
		if !v.valid {
			return v.str
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.str
	}
}

// Record is one row of the record set. Records are immutable once built.
type Record struct {
	fqdn     string
	systemID uuid.UUID
	values   [FreeText]Value
}

// NewRecord builds a record, resolving each raw value by its field kind.
// Fields missing from values are absent on the record.
func NewRecord(fqdn string, values map[Field]any) Record {
	r := Record{
		fqdn:     fqdn,
		systemID: uuid.NewSHA1(uuid.NameSpaceDNS, []byte(fqdn)),
	}
	for _, f := range Fields() {
		raw, ok := values[f]
		if !ok || raw == nil {
			r.values[f] = Value{kind: f.Kind()}
			continue
		}
		r.values[f] = resolveValue(f.Kind(), raw)
	}
	return r
}

// WithSystemID returns a copy of r carrying the given system ID.
func (r Record) WithSystemID(id uuid.UUID) Record {
	r.systemID = id
	return r
}

// FQDN returns the free-text attribute of the record.
func (r Record) FQDN() string { return r.fqdn }

// SystemID returns the stable identifier of the record.
func (r Record) SystemID() uuid.UUID { return r.systemID }

// Value returns the value of f. FreeText yields the FQDN as a string value.
func (r Record) Value(f Field) Value {
	if f == FreeText {
		return Value{kind: KindFreeText, present: true, str: r.fqdn}
	}
	if f < 0 || f >= FreeText {
		return Value{}
	}
	return r.values[f]
}

// Map returns the record as a loosely typed map keyed by Field.Key().
// Absent fields and unparseable numbers are omitted.
func (r Record) Map() map[string]any {
	out := map[string]any{
		"fqdn":      r.fqdn,
		"system_id": r.systemID.String(),
	}
	for _, f := range Fields() {
		v := r.values[f]
		if !v.present {
			continue
		}
		switch v.kind {
		case KindList:
			out[f.Key()] = append([]string{}, v.list...)
		case KindNumeric:
			if n, ok := v.Number(); ok {
				out[f.Key()] = n
			}
		default:
			out[f.Key()] = v.str
		}
	}
	return out
}

// RecordFromMap builds a record from decoded JSON/YAML/TOML/SQL data.
// Keys are matched case-insensitively; "fqdn", "fdqn" and "hostname" name the
// free-text attribute and "system_id" an optional UUID.
func RecordFromMap(m map[string]any) (Record, error) {
	var fqdn string
	var systemID string
	values := make(map[Field]any, len(m))
	for k, v := range m {
		switch strings.ToLower(k) {
		case "fqdn", "fdqn", "hostname":
			fqdn = fmt.Sprint(v)
			continue
		case "system_id", "systemid", "id":
			systemID = fmt.Sprint(v)
			continue
		}
		if f, ok := LookupField(k); ok {
			values[f] = v
		}
	}
	if fqdn == "" {
		return Record{}, fmt.Errorf("record has no fqdn: %v", m)
	}
	rec := NewRecord(fqdn, values)
	if systemID != "" {
		id, err := uuid.Parse(systemID)
		if err != nil {
			return Record{}, fmt.Errorf("record %s: invalid system_id %q: %w", fqdn, systemID, err)
		}
		rec = rec.WithSystemID(id)
	}
	return rec, nil
}

func resolveValue(kind Kind, raw any) Value {
	v := Value{kind: kind, present: true}
	switch kind {
	case KindList:
		v.list = toStringList(raw)
	case KindNumeric:
		v.num, v.valid = toFloat(raw)
		if !v.valid {
			v.str = fmt.Sprint(raw)
		}
	default:
		v.str = fmt.Sprint(raw)
	}
	return v
}

func toStringList(raw any) []string {
	switch t := raw.(type) {
	case []string:
		return append([]string{}, t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}

func toFloat(raw any) (float64, bool) {
	switch t := raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
