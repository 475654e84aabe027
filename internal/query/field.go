// Package query implements the machq expression language: the field schema,
// immutable records, the span scanner that splits raw input into clauses and
// free text, cursor-context resolution, predicate evaluation and the flat
// clause compiler used by the compiled view.
package query

import "strings"

// Kind selects how a field is evaluated and suggested.
type Kind int

const (
	// KindString fields match when any value token is a substring of the record value.
	KindString Kind = iota
	// KindList fields match when any value token is a substring of any list element.
	KindList
	// KindNumeric fields match when any value token's comparator holds.
	KindNumeric
	// KindFreeText is the pseudo-field holding unclaimed input.
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindNumeric:
		return "numeric"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Field identifies one column of the record schema.
type Field int

//revive:disable:exported
const (
	Status Field = iota
	Tags
	Zone
	Fabric
	Cores
	RAM
	Disks
	Storage
	FreeText
)

//revive:enable:exported

var fieldNames = [...]string{
	Status:   "STATUS",
	Tags:     "TAGS",
	Zone:     "ZONE",
	Fabric:   "FABRIC",
	Cores:    "CORES",
	RAM:      "RAM",
	Disks:    "DISKS",
	Storage:  "STORAGE",
	FreeText: "FREE_TEXT",
}

var fieldKinds = [...]Kind{
	Status:   KindString,
	Tags:     KindList,
	Zone:     KindString,
	Fabric:   KindString,
	Cores:    KindNumeric,
	RAM:      KindNumeric,
	Disks:    KindNumeric,
	Storage:  KindNumeric,
	FreeText: KindFreeText,
}

// Fields returns the clause-capable fields in declaration order.
// FreeText is not included.
func Fields() []Field {
	return []Field{Status, Tags, Zone, Fabric, Cores, RAM, Disks, Storage}
}

// FieldNames returns the names of Fields() in declaration order.
func FieldNames() []string {
	fields := Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}

// String returns the upper-case field name as typed in clauses.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "UNKNOWN"
	}
	return fieldNames[f]
}

// Kind returns the evaluation kind of the field.
func (f Field) Kind() Kind {
	if f < 0 || int(f) >= len(fieldKinds) {
		return KindString
	}
	return fieldKinds[f]
}

// Key returns the lower-case attribute name used in maps, SQL and CEL output.
func (f Field) Key() string {
	if f == FreeText {
		return "fqdn"
	}
	return strings.ToLower(f.String())
}

// LookupField matches name case-insensitively against the clause-capable fields.
func LookupField(name string) (Field, bool) {
	for _, f := range Fields() {
		if strings.EqualFold(name, f.String()) {
			return f, true
		}
	}
	return 0, false
}
