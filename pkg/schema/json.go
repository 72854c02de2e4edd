package schema

import (
	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/strata/pkg/errors"
)

// fieldDescriptor is the JSON form of a Field, a tagged union over the four
// schema variants. It is the descriptor embedded in dataset snapshots.
type fieldDescriptor struct {
	Variant    string            `json:"variant"`
	Elem       string            `json:"elem,omitempty"`
	Width      int               `json:"width,omitempty"`
	Inner      *fieldDescriptor  `json:"inner,omitempty"`
	Key        *fieldDescriptor  `json:"key,omitempty"`
	Value      *fieldDescriptor  `json:"value,omitempty"`
	KeysName   string            `json:"keys_name,omitempty"`
	ValuesName string            `json:"values_name,omitempty"`
	Fields     []namedDescriptor `json:"fields,omitempty"`
}

type namedDescriptor struct {
	Name  string          `json:"name"`
	Field fieldDescriptor `json:"field"`
}

// ParseKind parses the lowercase kind name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int32":
		return KindInt32, nil
	case "int64":
		return KindInt64, nil
	case "float32":
		return KindFloat32, nil
	case "float64":
		return KindFloat64, nil
	case "string":
		return KindString, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeData, "unknown element kind %q", s)
	}
}

// Encode serializes a schema to its JSON descriptor.
func Encode(f Field) ([]byte, error) {
	desc := toDescriptor(f)
	data, err := json.Marshal(desc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode schema")
	}
	return data, nil
}

// Decode parses a JSON schema descriptor back into a Field.
func Decode(data []byte) (Field, error) {
	var desc fieldDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode schema")
	}
	return fromDescriptor(&desc)
}

func toDescriptor(f Field) *fieldDescriptor {
	switch v := f.(type) {
	case *ScalarField:
		return &fieldDescriptor{Variant: "scalar", Elem: v.ElemKind.String(), Width: v.Width}
	case *ListField:
		return &fieldDescriptor{Variant: "list", Inner: toDescriptor(v.Inner)}
	case *MapField:
		return &fieldDescriptor{
			Variant:    "map",
			Key:        toDescriptor(v.Key),
			Value:      toDescriptor(v.Value),
			KeysName:   v.KeysName,
			ValuesName: v.ValuesName,
		}
	case *StructField:
		desc := &fieldDescriptor{Variant: "struct"}
		for _, nf := range v.Fields() {
			desc.Fields = append(desc.Fields, namedDescriptor{
				Name:  nf.Name,
				Field: *toDescriptor(nf.Field),
			})
		}
		return desc
	default:
		return nil
	}
}

func fromDescriptor(desc *fieldDescriptor) (Field, error) {
	switch desc.Variant {
	case "scalar":
		kind, err := ParseKind(desc.Elem)
		if err != nil {
			return nil, err
		}
		width := desc.Width
		if width < 1 {
			width = 1
		}
		return &ScalarField{ElemKind: kind, Width: width}, nil
	case "list":
		if desc.Inner == nil {
			return nil, errors.New(errors.ErrorTypeData, "list descriptor missing inner field")
		}
		inner, err := fromDescriptor(desc.Inner)
		if err != nil {
			return nil, err
		}
		return ListOf(inner), nil
	case "map":
		if desc.Key == nil || desc.Value == nil {
			return nil, errors.New(errors.ErrorTypeData, "map descriptor missing key or value")
		}
		key, err := fromDescriptor(desc.Key)
		if err != nil {
			return nil, err
		}
		scalarKey, ok := key.(*ScalarField)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "map key must be a scalar")
		}
		value, err := fromDescriptor(desc.Value)
		if err != nil {
			return nil, err
		}
		keysName, valuesName := desc.KeysName, desc.ValuesName
		if keysName == "" {
			keysName = KeysName
		}
		if valuesName == "" {
			valuesName = ValuesName
		}
		return MapOfNamed(scalarKey, value, keysName, valuesName), nil
	case "struct":
		fields := make([]NamedField, 0, len(desc.Fields))
		for i := range desc.Fields {
			child, err := fromDescriptor(&desc.Fields[i].Field)
			if err != nil {
				return nil, err
			}
			fields = append(fields, F(desc.Fields[i].Name, child))
		}
		return StructOf(fields...), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unknown schema variant %q", desc.Variant)
	}
}
