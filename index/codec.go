package index

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/viant/vecbench/vector"
)

// Encoding layout, little-endian:
//
//	magic "VECIDX" | version u8 | kind u8 | dim u32 | n u32 | float32[n*dim]
const (
	magic         = "VECIDX"
	codecVersion  = 1
	headerSize    = len(magic) + 2 + 8
	kindCodeFlat  = 1
	kindCodeCover = 2
)

func kindCode(k Kind) (byte, error) {
	switch k {
	case KindFlat:
		return kindCodeFlat, nil
	case KindCover:
		return kindCodeCover, nil
	}
	return 0, fmt.Errorf("index: cannot encode kind %q", k)
}

// Encode serializes the stored vectors of an index of the given kind.
func Encode(kind Kind, m *vector.Matrix) ([]byte, error) {
	code, err := kindCode(kind)
	if err != nil {
		return nil, err
	}
	n := m.Rows()
	out := make([]byte, headerSize, headerSize+len(m.Data)*4)
	copy(out, magic)
	out[len(magic)] = codecVersion
	out[len(magic)+1] = code
	binary.LittleEndian.PutUint32(out[len(magic)+2:], uint32(m.Dim))
	binary.LittleEndian.PutUint32(out[len(magic)+6:], uint32(n))
	return append(out, vector.EncodeEmbedding(m.Data[:n*m.Dim])...), nil
}

// PeekKind reads the kind from an encoded index without decoding the data.
func PeekKind(data []byte) (Kind, error) {
	if len(data) < headerSize || !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return "", fmt.Errorf("%w: bad header", ErrCorrupt)
	}
	if v := data[len(magic)]; v != codecVersion {
		return "", fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	switch data[len(magic)+1] {
	case kindCodeFlat:
		return KindFlat, nil
	case kindCodeCover:
		return KindCover, nil
	}
	return "", fmt.Errorf("%w: unknown kind code %d", ErrCorrupt, data[len(magic)+1])
}

// Decode parses data produced by Encode and checks it was written for want.
func Decode(want Kind, data []byte) (*vector.Matrix, error) {
	kind, err := PeekKind(data)
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, fmt.Errorf("%w: encoded kind %q, want %q", ErrCorrupt, kind, want)
	}
	dim := int(binary.LittleEndian.Uint32(data[len(magic)+2:]))
	n := int(binary.LittleEndian.Uint32(data[len(magic)+6:]))
	body := data[headerSize:]
	if dim == 0 && n == 0 && len(body) == 0 {
		return &vector.Matrix{}, nil
	}
	if dim <= 0 || len(body) != n*dim*4 {
		return nil, fmt.Errorf("%w: truncated (dim=%d n=%d body=%d bytes)", ErrCorrupt, dim, n, len(body))
	}
	vals, err := vector.DecodeEmbedding(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if vals == nil {
		vals = []float32{}
	}
	return &vector.Matrix{Dim: dim, Data: vals}, nil
}
