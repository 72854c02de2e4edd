// Package schema describes nested record layouts and their flattening into
// ordered lists of primitive columnar fields.
//
// A schema is a tree of Field values built from four variants: Scalar (a
// primitive element, optionally a fixed-width vector), List (variable-length
// repetition of an inner field), Map (ordered key/value pairs), and Struct
// (a fixed set of named sub-fields). Flattening a schema yields a
// deterministic ordered list of FieldSpec entries, one per primitive column,
// whose paths encode the nesting:
//
//	dense                                -> the column itself
//	metadata:user_id                     -> struct child
//	floats:lengths, floats:values:keys   -> map = list of (key, value) pairs
//	int_lists:values:values:lengths      -> nested repetition
//
// Every Dataset, Record and Cursor in this module is keyed by that flattened
// layout.
package schema

import (
	"github.com/ajitpratap0/strata/pkg/errors"
)

// Kind identifies the primitive element type of a flattened column.
type Kind int

const (
	// KindInt32 is a 32-bit signed integer column
	KindInt32 Kind = iota
	// KindInt64 is a 64-bit signed integer column
	KindInt64
	// KindFloat32 is a 32-bit float column
	KindFloat32
	// KindFloat64 is a 64-bit float column
	KindFloat64
	// KindString is a variable-length string column
	KindString
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Separator joins path segments in flattened field names.
const Separator = ":"

const (
	// LengthsSuffix is appended to a List or Map field's path to address
	// its per-row count column.
	LengthsSuffix = "lengths"
	// ValuesSuffix prefixes the inner columns of a List.
	ValuesSuffix = "values"
	// KeysName is the default sub-name of a Map's key column.
	KeysName = "keys"
	// ValuesName is the default sub-name of a Map's value columns.
	ValuesName = "values"
)

// FieldSpec is one primitive column of a flattened schema.
type FieldSpec struct {
	// Path is the dotted flattened name, e.g. "floats:values:keys".
	Path string
	// Kind is the primitive element type of the column.
	Kind Kind
	// Width is the fixed vector width per row; 1 for plain scalars.
	Width int
}

// Field is the closed sum type over schema variants. The only
// implementations are ScalarField, ListField, MapField and StructField.
type Field interface {
	// flatten appends this field's primitive columns to out, prefixing
	// paths with prefix.
	flatten(prefix string, out *[]FieldSpec)

	isField()
}

// ScalarField is a primitive leaf: a numeric element with an optional fixed
// vector width, or a variable-length string.
type ScalarField struct {
	ElemKind Kind
	Width    int
}

// Scalar returns a plain scalar field of the given kind.
func Scalar(kind Kind) *ScalarField {
	return &ScalarField{ElemKind: kind, Width: 1}
}

// Vector returns a fixed-width vector field; each row holds width elements.
func Vector(kind Kind, width int) *ScalarField {
	if width < 1 {
		width = 1
	}
	return &ScalarField{ElemKind: kind, Width: width}
}

func (f *ScalarField) isField() {}

func (f *ScalarField) flatten(prefix string, out *[]FieldSpec) {
	*out = append(*out, FieldSpec{Path: prefix, Kind: f.ElemKind, Width: f.Width})
}

// ListField is a variable-length ordered repetition of an inner field.
// It flattens to "<name>:lengths" (int32 counts, one per outer row)
// followed by the inner field flattened under "<name>:values".
type ListField struct {
	Inner Field
}

// ListOf returns a list field over inner.
func ListOf(inner Field) *ListField {
	return &ListField{Inner: inner}
}

func (f *ListField) isField() {}

func (f *ListField) flatten(prefix string, out *[]FieldSpec) {
	*out = append(*out, FieldSpec{Path: join(prefix, LengthsSuffix), Kind: KindInt32, Width: 1})
	f.Inner.flatten(join(prefix, ValuesSuffix), out)
}

// MapField is a variable-length ordered sequence of (key, value) pairs.
// Under the hood it is a List of a two-field Struct, so it flattens to
// "<name>:lengths", then the key column and value columns under
// "<name>:values:<keysName>" and "<name>:values:<valuesName>".
type MapField struct {
	Key        *ScalarField
	Value      Field
	KeysName   string
	ValuesName string
}

// MapOf returns a map field with the default "keys"/"values" sub-names.
func MapOf(key *ScalarField, value Field) *MapField {
	return MapOfNamed(key, value, KeysName, ValuesName)
}

// MapOfNamed returns a map field with custom key and value sub-names.
func MapOfNamed(key *ScalarField, value Field, keysName, valuesName string) *MapField {
	return &MapField{Key: key, Value: value, KeysName: keysName, ValuesName: valuesName}
}

// Pairs returns the synthesized (key, value) pair struct that this map is a
// list of. The returned struct shares the map's flattened column layout and
// can be re-rooted into a new schema.
func (f *MapField) Pairs() *StructField {
	return StructOf(
		F(f.KeysName, f.Key),
		F(f.ValuesName, f.Value),
	)
}

// AsList returns the map's underlying list-of-pairs representation.
func (f *MapField) AsList() *ListField {
	return ListOf(f.Pairs())
}

func (f *MapField) isField() {}

func (f *MapField) flatten(prefix string, out *[]FieldSpec) {
	f.AsList().flatten(prefix, out)
}

// NamedField pairs a struct child with its name.
type NamedField struct {
	Name  string
	Field Field
}

// F is shorthand for building a NamedField.
func F(name string, field Field) NamedField {
	return NamedField{Name: name, Field: field}
}

// StructField is a fixed ordered set of uniquely-named sub-fields.
type StructField struct {
	fields []NamedField
	byName map[string]int
}

// StructOf returns a struct field over the given children, in declared
// order. Duplicate child names panic; schemas are built statically and a
// duplicate is a programming error.
func StructOf(fields ...NamedField) *StructField {
	s := &StructField{
		fields: fields,
		byName: make(map[string]int, len(fields)),
	}
	for i, nf := range fields {
		if _, dup := s.byName[nf.Name]; dup {
			panic("schema: duplicate struct field " + nf.Name)
		}
		s.byName[nf.Name] = i
	}
	return s
}

// Fields returns the struct's children in declared order.
func (f *StructField) Fields() []NamedField {
	return f.fields
}

// Child returns the named child field.
func (f *StructField) Child(name string) (Field, error) {
	i, ok := f.byName[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeIndex, "no such struct field %q", name)
	}
	return f.fields[i].Field, nil
}

func (f *StructField) isField() {}

func (f *StructField) flatten(prefix string, out *[]FieldSpec) {
	for _, nf := range f.fields {
		nf.Field.flatten(join(prefix, nf.Name), out)
	}
}

// FieldSpecs returns the deterministic pre-order flattening of the schema
// rooted at f: one FieldSpec per primitive column.
func FieldSpecs(f Field) []FieldSpec {
	var out []FieldSpec
	f.flatten("", &out)
	return out
}

// FieldPaths returns just the flattened paths, in column order.
func FieldPaths(f Field) []string {
	specs := FieldSpecs(f)
	paths := make([]string, len(specs))
	for i, s := range specs {
		paths[i] = s.Path
	}
	return paths
}

// SpecIndex returns the column index of path within the flattened schema, or
// an index error if the path does not name a flattened column.
func SpecIndex(f Field, path string) (int, error) {
	for i, s := range FieldSpecs(f) {
		if s.Path == path {
			return i, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeIndex, "no flattened field %q", path)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + Separator + name
}
