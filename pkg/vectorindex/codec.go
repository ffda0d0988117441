package vectorindex

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/x448/float16"

	"github.com/orneryd/brr/pkg/brrerrors"
)

const (
	sidecarVersion = 1

	dtypeF32 byte = 1
	dtypeF16 byte = 2

	vectorEntryName = "vectors.bin"
)

// sidecar mirrors the JSON metadata file persisted alongside the vector
// matrix. Field names match the externally observable contract: version,
// embedder_id, dimension, quantization, record_count, doc_ids.
type sidecar struct {
	Version      int      `json:"version"`
	EmbedderID   string   `json:"embedder_id"`
	Dimension    int      `json:"dimension"`
	Quantization string   `json:"quantization"`
	RecordCount  int      `json:"record_count"`
	DocIDs       []string `json:"doc_ids"`
}

// Save persists the index to basePath+".npz" (a zip container holding the
// raw vector matrix) and basePath+".json" (the metadata sidecar). useF16
// selects half-precision quantization at the save boundary only; vectors
// stay float32 in memory regardless.
func (idx *Index) Save(basePath string, useF16 bool) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	quant := "f32"
	if useF16 {
		quant = "f16"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(vectorEntryName)
	if err != nil {
		return err
	}
	if err := writeMatrix(w, idx.vectors, idx.dimension, useF16); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	if err := os.WriteFile(basePath+".npz", buf.Bytes(), 0o644); err != nil {
		return err
	}

	meta := sidecar{
		Version:      sidecarVersion,
		EmbedderID:   idx.embedderID,
		Dimension:    idx.dimension,
		Quantization: quant,
		RecordCount:  len(idx.docIDs),
		DocIDs:       append([]string(nil), idx.docIDs...),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(basePath+".json", metaBytes, 0o644)
}

// Load reads an index previously written by Save. Any structural problem
// (missing file, malformed JSON, dimension disagreement between sidecar
// and matrix) is reported as an IndexCorrupted error.
func Load(basePath string) (*Index, error) {
	metaBytes, err := os.ReadFile(basePath + ".json")
	if err != nil {
		return nil, brrerrors.NewIndexCorrupted(basePath, "missing metadata file: "+err.Error())
	}
	var meta sidecar
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, brrerrors.NewIndexCorrupted(basePath, "invalid metadata JSON: "+err.Error())
	}

	npzBytes, err := os.ReadFile(basePath + ".npz")
	if err != nil {
		return nil, brrerrors.NewIndexCorrupted(basePath, "missing vector matrix file: "+err.Error())
	}

	zr, err := zip.NewReader(bytes.NewReader(npzBytes), int64(len(npzBytes)))
	if err != nil {
		return nil, brrerrors.NewIndexCorrupted(basePath, "invalid zip container: "+err.Error())
	}
	f, err := zr.Open(vectorEntryName)
	if err != nil {
		return nil, brrerrors.NewIndexCorrupted(basePath, "missing vectors entry: "+err.Error())
	}
	defer f.Close()

	vectors, cols, err := readMatrix(f)
	if err != nil {
		return nil, brrerrors.NewIndexCorrupted(basePath, "malformed vector matrix: "+err.Error())
	}

	if cols != meta.Dimension {
		return nil, brrerrors.NewIndexCorrupted(basePath, "dimension mismatch: header="+strconv.Itoa(meta.Dimension)+", data="+strconv.Itoa(cols))
	}
	if len(vectors) != len(meta.DocIDs) {
		return nil, brrerrors.NewIndexCorrupted(basePath, "record count mismatch between matrix and metadata")
	}

	idx := &Index{
		dimension:  meta.Dimension,
		embedderID: meta.EmbedderID,
		docIDs:     meta.DocIDs,
		vectors:    vectors,
	}
	return idx, nil
}

// writeMatrix encodes rows x dim float32 vectors as: rows(uint32),
// cols(uint32), dtype(byte), then row-major data in that dtype.
func writeMatrix(w io.Writer, vectors [][]float32, dim int, useF16 bool) error {
	rows := len(vectors)
	if err := binary.Write(w, binary.LittleEndian, uint32(rows)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(dim)); err != nil {
		return err
	}
	dtype := dtypeF32
	if useF16 {
		dtype = dtypeF16
	}
	if _, err := w.Write([]byte{dtype}); err != nil {
		return err
	}

	for _, row := range vectors {
		for _, v := range row {
			if useF16 {
				if err := binary.Write(w, binary.LittleEndian, float16.Fromfloat32(v).Bits()); err != nil {
					return err
				}
			} else {
				if err := binary.Write(w, binary.LittleEndian, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func readMatrix(r io.Reader) ([][]float32, int, error) {
	var rows, cols uint32
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return nil, 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		return nil, 0, err
	}
	var dtype [1]byte
	if _, err := io.ReadFull(r, dtype[:]); err != nil {
		return nil, 0, err
	}

	vectors := make([][]float32, rows)
	for i := range vectors {
		row := make([]float32, cols)
		for j := range row {
			switch dtype[0] {
			case dtypeF16:
				var bits uint16
				if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
					return nil, 0, err
				}
				row[j] = float16.Frombits(bits).Float32()
			default:
				if err := binary.Read(r, binary.LittleEndian, &row[j]); err != nil {
					return nil, 0, err
				}
			}
		}
		vectors[i] = row
	}
	return vectors, int(cols), nil
}
