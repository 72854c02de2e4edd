// Package querylog holds the canonical example dataset shared by the test
// suite and the demo command: a 3-row search query log exercising every
// schema variant.
package querylog

import (
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Schema returns the canonical example schema: a search query log with a
// dense feature vector, a float feature map, a multi-valued categorical
// map, a weighted categorical map with custom pair names, and scalar
// metadata.
func Schema() *schema.StructField {
	return schema.StructOf(
		// fixed size vector, stored as a matrix when batched
		schema.F("dense", schema.Vector(schema.KindFloat32, 3)),
		// feature map from feature ID to float value
		schema.F("floats", schema.MapOf(
			schema.Scalar(schema.KindInt32),
			schema.Scalar(schema.KindFloat32))),
		// multi-valued categorical feature map
		schema.F("int_lists", schema.MapOf(
			schema.Scalar(schema.KindInt32),
			schema.ListOf(schema.Scalar(schema.KindInt64)))),
		// multi-valued, weighted categorical feature map
		schema.F("id_score_pairs", schema.MapOf(
			schema.Scalar(schema.KindInt32),
			schema.MapOfNamed(
				schema.Scalar(schema.KindInt64),
				schema.Scalar(schema.KindFloat32),
				"ids", "scores"))),
		// additional scalar information
		schema.F("metadata", schema.StructOf(
			schema.F("user_id", schema.Scalar(schema.KindInt64)),
			schema.F("user_embed", schema.Vector(schema.KindFloat32, 2)),
			schema.F("query", schema.Scalar(schema.KindString)),
		)),
	)
}

// Columns returns the raw flattened columns of the canonical 3-row
// contents, in flattening order.
func Columns() []interface{} {
	return []interface{}{
		// dense
		[]float32{1.1, 1.2, 1.3, 2.1, 2.2, 2.3, 3.1, 3.2, 3.3},
		// floats
		[]int32{1, 2, 3},                         // lengths
		[]int32{11, 21, 22, 31, 32, 33},          // keys
		[]float32{1.1, 2.1, 2.2, 3.1, 3.2, 3.3},  // values
		// int lists
		[]int32{2, 0, 1},       // lengths
		[]int32{11, 12, 31},    // keys
		[]int32{2, 4, 3},       // values:lengths
		[]int64{111, 112, 121, 122, 123, 124, 311, 312, 313}, // values:values
		// id score pairs
		[]int32{1, 2, 2},            // lengths
		[]int32{11, 21, 22, 31, 32}, // keys
		[]int32{1, 1, 2, 2, 3},      // values:lengths
		[]int64{111, 211, 221, 222, 311, 312, 321, 322, 323},          // values:ids
		[]float32{11.1, 21.1, 22.1, 22.2, 31.1, 31.2, 32.1, 32.2, 32.3}, // values:scores
		// metadata
		[]int64{123, 234, 456},                         // user_id
		[]float32{0.2, 0.8, 0.5, 0.5, 0.7, 0.3},        // user_embed
		[]string{"dog posts", "friends who like to", "posts about ca"}, // query
	}
}

// Record builds the canonical 3-row batch.
func Record() (*record.Record, error) {
	return record.FromColumns(Schema(), Columns())
}

// RowColumns returns the raw flattened columns of the i-th top-level row
// (0-based) of the canonical contents, as a single-row batch. Useful for
// comparing against cursor reads of batch size 1.
func RowColumns(i int) []interface{} {
	rows := [][]interface{}{
		{
			[]float32{1.1, 1.2, 1.3},
			[]int32{1}, []int32{11}, []float32{1.1},
			[]int32{2}, []int32{11, 12}, []int32{2, 4}, []int64{111, 112, 121, 122, 123, 124},
			[]int32{1}, []int32{11}, []int32{1}, []int64{111}, []float32{11.1},
			[]int64{123}, []float32{0.2, 0.8}, []string{"dog posts"},
		},
		{
			[]float32{2.1, 2.2, 2.3},
			[]int32{2}, []int32{21, 22}, []float32{2.1, 2.2},
			[]int32{0}, []int32{}, []int32{}, []int64{},
			[]int32{2}, []int32{21, 22}, []int32{1, 2}, []int64{211, 221, 222}, []float32{21.1, 22.1, 22.2},
			[]int64{234}, []float32{0.5, 0.5}, []string{"friends who like to"},
		},
		{
			[]float32{3.1, 3.2, 3.3},
			[]int32{3}, []int32{31, 32, 33}, []float32{3.1, 3.2, 3.3},
			[]int32{1}, []int32{31}, []int32{3}, []int64{311, 312, 313},
			[]int32{2}, []int32{31, 32}, []int32{2, 3}, []int64{311, 312, 321, 322, 323}, []float32{31.1, 31.2, 32.1, 32.2, 32.3},
			[]int64{456}, []float32{0.7, 0.3}, []string{"posts about ca"},
		},
	}
	return rows[i]
}
