package snapshot_test

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/compression"
	"github.com/ajitpratap0/strata/pkg/dataset"
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/snapshot"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func queryLogDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.InitEmpty("query_log", testutil.QueryLogSchema())
	batch, err := testutil.QueryLogRecord()
	require.NoError(t, err)
	require.NoError(t, ds.Append(batch))
	return ds
}

func TestSaveLoadRoundTrip(t *testing.T) {
	algos := []compression.Algorithm{
		compression.None,
		compression.Gzip,
		compression.Snappy,
		compression.LZ4,
		compression.Zstd,
		compression.S2,
		compression.Deflate,
	}

	for _, algo := range algos {
		t.Run(string(algo), func(t *testing.T) {
			ds := queryLogDataset(t)

			var buf bytes.Buffer
			require.NoError(t, snapshot.Save(&buf, ds, snapshot.Options{Algorithm: algo}))

			loaded, err := snapshot.Load(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)

			assert.Equal(t, "query_log", loaded.Name())
			assert.Equal(t, 3, loaded.RowCount())
			assert.Equal(t, ds.Specs(), loaded.Specs())
			assert.True(t, record.Equal(ds.Content(), loaded.Content()))
		})
	}
}

func TestSaveDefaultsToSnappy(t *testing.T) {
	ds := queryLogDataset(t)

	var buf bytes.Buffer
	require.NoError(t, snapshot.Save(&buf, ds, snapshot.Options{}))

	loaded, err := snapshot.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.True(t, record.Equal(ds.Content(), loaded.Content()))
}

func TestLoadedDatasetIsReadable(t *testing.T) {
	ds := queryLogDataset(t)

	var buf bytes.Buffer
	require.NoError(t, snapshot.Save(&buf, ds, snapshot.Options{Algorithm: compression.Zstd}))
	loaded, err := snapshot.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	cursor := loaded.NewCursor()
	rows := 0
	for {
		hasMore, batch, err := cursor.Read(1)
		require.NoError(t, err)
		if !hasMore {
			break
		}
		require.NoError(t, batch.Validate())
		rows += batch.Rows()
	}
	assert.Equal(t, 3, rows)
}

func TestEmptyDatasetRoundTrip(t *testing.T) {
	ds := dataset.InitEmpty("empty", testutil.QueryLogSchema())

	var buf bytes.Buffer
	require.NoError(t, snapshot.Save(&buf, ds, snapshot.Options{Algorithm: compression.None}))

	loaded, err := snapshot.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.RowCount())
	assert.Equal(t, ds.Specs(), loaded.Specs())
}

func TestLoadRejectsCorruptInput(t *testing.T) {
	_, err := snapshot.Load(bytes.NewReader([]byte("not a snapshot")))
	require.Error(t, err)

	ds := queryLogDataset(t)
	var buf bytes.Buffer
	require.NoError(t, snapshot.Save(&buf, ds, snapshot.Options{Algorithm: compression.Gzip}))

	// truncate the compressed payload
	data := buf.Bytes()
	_, err = snapshot.Load(bytes.NewReader(data[:len(data)-10]))
	require.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	ds := queryLogDataset(t)

	out, err := snapshot.ExportJSON(ds)
	require.NoError(t, err)

	var dump struct {
		Name    string                     `json:"name"`
		Rows    int                        `json:"rows"`
		Schema  json.RawMessage            `json:"schema"`
		Columns map[string]json.RawMessage `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(out, &dump))

	assert.Equal(t, "query_log", dump.Name)
	assert.Equal(t, 3, dump.Rows)
	assert.NotEmpty(t, dump.Schema)
	assert.Len(t, dump.Columns, 16)
	assert.Contains(t, dump.Columns, "metadata:query")
}
