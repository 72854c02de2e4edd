// Package strata is a schema-driven columnar dataset engine for nested
// records.
//
// A schema is a tree of four variants (scalar, list, map, struct) that
// flattens into a deterministic list of primitive columns; nested
// repetition is tracked through ":lengths" count columns. Datasets store
// those columns append-only and hand out cursors for sequential, permuted
// and sort-and-shuffle iteration, always at top-level row granularity.
//
// # Packages
//
//   - pkg/schema: schema variants, flattening, JSON descriptors
//   - pkg/columnar: typed fixed-width column buffers
//   - pkg/record: nested value packing and raw column assembly
//   - pkg/dataset: append-only storage, writers and cursors
//   - pkg/collect: sliding window and reservoir sample collectors
//   - pkg/snapshot: compressed dataset persistence and JSON export
//   - pkg/formats: Arrow conversion and IPC export
//   - internal/pipeline: dataset-to-dataset transform runs
//
// # Quick Start
//
//	root := schema.StructOf(
//	    schema.F("dense", schema.Vector(schema.KindFloat32, 3)),
//	    schema.F("floats", schema.MapOf(
//	        schema.Scalar(schema.KindInt32),
//	        schema.Scalar(schema.KindFloat32))),
//	)
//
//	ds := dataset.InitEmpty("training", root)
//	w := ds.NewWriter()
//	_ = w.Write(batch)
//	_ = w.Commit()
//
//	cursor := ds.NewCursor()
//	for {
//	    hasMore, batch, err := cursor.Read(1000)
//	    if err != nil || !hasMore {
//	        break
//	    }
//	    // process batch
//	}
package strata
