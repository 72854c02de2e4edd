package snapshot

import (
	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/dataset"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// jsonSnapshot is the debugging/interchange form of a dataset: the schema
// descriptor plus every flattened column as a flat value array.
type jsonSnapshot struct {
	Name    string                 `json:"name"`
	Rows    int                    `json:"rows"`
	Schema  json.RawMessage        `json:"schema"`
	Columns map[string]interface{} `json:"columns"`
}

// ExportJSON renders a dataset as JSON, one flat value array per flattened
// field keyed by its path. Intended for debugging and light interchange;
// use Save for a compact form.
func ExportJSON(ds *dataset.Dataset) ([]byte, error) {
	schemaJSON, err := schema.Encode(ds.Schema())
	if err != nil {
		return nil, err
	}

	content := ds.Content()
	columns := make(map[string]interface{}, len(ds.Specs()))
	for i, spec := range ds.Specs() {
		columns[spec.Path] = columnValues(content.BufferAt(i))
	}

	out, err := json.Marshal(jsonSnapshot{
		Name:    ds.Name(),
		Rows:    ds.RowCount(),
		Schema:  schemaJSON,
		Columns: columns,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to marshal dataset")
	}
	return out, nil
}

func columnValues(b *columnar.Buffer) interface{} {
	switch b.Kind() {
	case schema.KindInt32:
		return b.Int32s()
	case schema.KindInt64:
		return b.Int64s()
	case schema.KindFloat32:
		return b.Float32s()
	case schema.KindFloat64:
		return b.Float64s()
	case schema.KindString:
		return b.Strings()
	default:
		return nil
	}
}
