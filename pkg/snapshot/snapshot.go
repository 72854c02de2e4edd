// Package snapshot serializes datasets to a compact binary form for
// persistence or transfer. A snapshot carries the schema descriptor and
// every flattened column's buffer, little-endian and length-prefixed, with
// the payload compressed by a configurable algorithm. All I/O goes through
// the caller's reader/writer; the package never touches the filesystem.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/compression"
	"github.com/ajitpratap0/strata/pkg/dataset"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

var magic = [6]byte{'S', 'T', 'R', 'A', 'T', 'A'}

const formatVersion = 1

// Options controls snapshot encoding.
type Options struct {
	// Algorithm selects the payload compression; empty means Snappy.
	Algorithm compression.Algorithm
	// Level selects the compression level; zero means Default.
	Level compression.Level
}

func (o *Options) normalize() {
	if o.Algorithm == "" {
		o.Algorithm = compression.Snappy
	}
	if o.Level == 0 {
		o.Level = compression.Default
	}
}

// Save writes a snapshot of ds to w.
func Save(w io.Writer, ds *dataset.Dataset, opts Options) error {
	opts.normalize()

	if _, err := w.Write(magic[:]); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write snapshot header")
	}
	header := []byte{formatVersion}
	header = append(header, byte(len(opts.Algorithm)))
	header = append(header, opts.Algorithm...)
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write snapshot header")
	}

	payload, err := encodePayload(ds)
	if err != nil {
		return err
	}

	comp, err := compression.NewCompressor(&compression.Config{Algorithm: opts.Algorithm, Level: opts.Level})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid snapshot compression")
	}
	if err := comp.CompressStream(w, bytes.NewReader(payload)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to compress snapshot payload")
	}
	return nil
}

// Load reads a snapshot from r and reconstructs the dataset.
func Load(r io.Reader) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)

	var gotMagic [6]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read snapshot header")
	}
	if gotMagic != magic {
		return nil, errors.New(errors.ErrorTypeData, "not a strata snapshot")
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read snapshot version")
	}
	if version != formatVersion {
		return nil, errors.Newf(errors.ErrorTypeData, "unsupported snapshot version %d", version)
	}
	algoLen, err := br.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read snapshot header")
	}
	algoName := make([]byte, algoLen)
	if _, err := io.ReadFull(br, algoName); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read snapshot header")
	}

	comp, err := compression.NewCompressor(&compression.Config{
		Algorithm: compression.Algorithm(algoName),
		Level:     compression.Default,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "unknown snapshot compression")
	}

	var payload bytes.Buffer
	if err := comp.DecompressStream(&payload, br); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decompress snapshot payload")
	}
	return decodePayload(payload.Bytes())
}

func encodePayload(ds *dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer

	schemaJSON, err := schema.Encode(ds.Schema())
	if err != nil {
		return nil, err
	}
	writeBytes(&buf, schemaJSON)
	writeBytes(&buf, []byte(ds.Name()))

	content := ds.Content()
	bufs := content.Buffers()
	writeUint32(&buf, uint32(len(bufs)))
	for _, b := range bufs {
		if err := encodeBuffer(&buf, b); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodePayload(payload []byte) (*dataset.Dataset, error) {
	r := bytes.NewReader(payload)

	schemaJSON, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	root, err := schema.Decode(schemaJSON)
	if err != nil {
		return nil, err
	}
	name, err := readBytes(r)
	if err != nil {
		return nil, err
	}

	ds := dataset.InitEmpty(string(name), root)
	fieldCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	specs := ds.Specs()
	if int(fieldCount) != len(specs) {
		return nil, errors.Newf(errors.ErrorTypeData,
			"snapshot has %d columns, schema flattens to %d", fieldCount, len(specs))
	}

	batch := ds.Content() // zero-row record with the right layout
	for i := range specs {
		if err := decodeBuffer(r, batch.BufferAt(i)); err != nil {
			return nil, err
		}
	}
	if err := ds.Append(batch); err != nil {
		return nil, err
	}
	return ds, nil
}

func encodeBuffer(w *bytes.Buffer, b *columnar.Buffer) error {
	writeUint32(w, uint32(b.Len()))
	switch b.Kind() {
	case schema.KindInt32:
		return binary.Write(w, binary.LittleEndian, b.Int32s())
	case schema.KindInt64:
		return binary.Write(w, binary.LittleEndian, b.Int64s())
	case schema.KindFloat32:
		return binary.Write(w, binary.LittleEndian, b.Float32s())
	case schema.KindFloat64:
		return binary.Write(w, binary.LittleEndian, b.Float64s())
	case schema.KindString:
		for _, s := range b.Strings() {
			writeBytes(w, []byte(s))
		}
		return nil
	default:
		return errors.Newf(errors.ErrorTypeInternal, "unknown element kind %v", b.Kind())
	}
}

func decodeBuffer(r *bytes.Reader, b *columnar.Buffer) error {
	rows, err := readUint32(r)
	if err != nil {
		return err
	}
	elems := int(rows) * b.Width()
	switch b.Kind() {
	case schema.KindInt32:
		vs := make([]int32, elems)
		if err := binary.Read(r, binary.LittleEndian, vs); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "truncated int32 column")
		}
		return b.AppendInt32s(vs...)
	case schema.KindInt64:
		vs := make([]int64, elems)
		if err := binary.Read(r, binary.LittleEndian, vs); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "truncated int64 column")
		}
		return b.AppendInt64s(vs...)
	case schema.KindFloat32:
		vs := make([]float32, elems)
		if err := binary.Read(r, binary.LittleEndian, vs); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "truncated float32 column")
		}
		return b.AppendFloat32s(vs...)
	case schema.KindFloat64:
		vs := make([]float64, elems)
		if err := binary.Read(r, binary.LittleEndian, vs); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "truncated float64 column")
		}
		return b.AppendFloat64s(vs...)
	case schema.KindString:
		vs := make([]string, 0, elems)
		for i := 0; i < elems; i++ {
			raw, err := readBytes(r)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "truncated string column")
			}
			vs = append(vs, string(raw))
		}
		return b.AppendStrings(vs...)
	default:
		return errors.Newf(errors.ErrorTypeInternal, "unknown element kind %v", b.Kind())
	}
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.Write(tmp[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeData, "truncated snapshot payload")
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func writeBytes(w *bytes.Buffer, data []byte) {
	writeUint32(w, uint32(len(data)))
	w.Write(data)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "truncated snapshot payload")
	}
	return data, nil
}
