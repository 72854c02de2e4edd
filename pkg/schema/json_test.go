package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	root := queryLogSchema()

	data, err := Encode(root)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	// Decoding preserves the flattened layout exactly.
	assert.Equal(t, FieldSpecs(root), FieldSpecs(decoded))

	ds, ok := decoded.(*StructField)
	require.True(t, ok)
	names := make([]string, 0, len(ds.Fields()))
	for _, nf := range ds.Fields() {
		names = append(names, nf.Name)
	}
	assert.Equal(t, []string{"dense", "floats", "int_lists", "id_score_pairs", "metadata"}, names)
}

func TestDecodePreservesMapNames(t *testing.T) {
	m := MapOfNamed(Scalar(KindInt64), Scalar(KindFloat32), "ids", "scores")

	data, err := Encode(m)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	dm, ok := decoded.(*MapField)
	require.True(t, ok)
	assert.Equal(t, "ids", dm.KeysName)
	assert.Equal(t, "scores", dm.ValuesName)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`{"variant":"pyramid"}`))
	require.Error(t, err)

	_, err = Decode([]byte(`not json`))
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindInt32, KindInt64, KindFloat32, KindFloat64, KindString} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("complex128")
	require.Error(t, err)
}
