// Package lasfile reads LAS point cloud files (ASPRS LAS 1.0 - 1.4).
//
// Only the public header block and uncompressed point records are
// decoded; LAZ files share the same header layout but their point data
// is left to the external converter.
package lasfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	signature = "LASF"

	// Minimum public header size (LAS 1.0 - 1.2).
	headerSizeMin = 227

	// compressionBit is set in the point format ID of LAZ files.
	compressionBit = 0x80
)

var (
	// ErrNotLAS indicates the file does not start with a LAS signature.
	ErrNotLAS = errors.New("not a LAS file")

	// ErrCompressedPoints indicates point records are LAZ compressed
	// and cannot be sampled directly.
	ErrCompressedPoints = errors.New("point records are compressed")
)

// Header is the decoded LAS public header block.
type Header struct {
	VersionMajor      uint8
	VersionMinor      uint8
	HeaderSize        uint16
	OffsetToPointData uint32
	PointFormat       uint8
	PointRecordLength uint16
	LegacyPointCount  uint32
	ExtendedCount     uint64 // LAS 1.4 64-bit point count

	ScaleX, ScaleY, ScaleZ    float64
	OffsetX, OffsetY, OffsetZ float64
	MaxX, MinX                float64
	MaxY, MinY                float64
	MaxZ, MinZ                float64
}

// PointCount returns the number of point records, preferring the LAS 1.4
// 64-bit field when it is populated.
func (h *Header) PointCount() uint64 {
	if h.ExtendedCount > 0 {
		return h.ExtendedCount
	}
	return uint64(h.LegacyPointCount)
}

// IsCompressed reports whether point records are LAZ compressed.
func (h *Header) IsCompressed() bool {
	return h.PointFormat&compressionBit != 0
}

// Format returns the point data format with the compression bit cleared.
func (h *Header) Format() uint8 {
	return h.PointFormat &^ compressionBit
}

// Center returns the midpoint of the header bounding box in file coordinates.
func (h *Header) Center() (x, y, z float64) {
	return (h.MinX + h.MaxX) / 2, (h.MinY + h.MaxY) / 2, (h.MinZ + h.MaxZ) / 2
}

// ReadHeader decodes the public header block from r.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, headerSizeMin)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNotLAS
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(buf[0:4]) != signature {
		return nil, ErrNotLAS
	}

	le := binary.LittleEndian
	h := &Header{
		VersionMajor:      buf[24],
		VersionMinor:      buf[25],
		HeaderSize:        le.Uint16(buf[94:]),
		OffsetToPointData: le.Uint32(buf[96:]),
		PointFormat:       buf[104],
		PointRecordLength: le.Uint16(buf[105:]),
		LegacyPointCount:  le.Uint32(buf[107:]),

		ScaleX:  float64frombytes(buf[131:]),
		ScaleY:  float64frombytes(buf[139:]),
		ScaleZ:  float64frombytes(buf[147:]),
		OffsetX: float64frombytes(buf[155:]),
		OffsetY: float64frombytes(buf[163:]),
		OffsetZ: float64frombytes(buf[171:]),
		MaxX:    float64frombytes(buf[179:]),
		MinX:    float64frombytes(buf[187:]),
		MaxY:    float64frombytes(buf[195:]),
		MinY:    float64frombytes(buf[203:]),
		MaxZ:    float64frombytes(buf[211:]),
		MinZ:    float64frombytes(buf[219:]),
	}

	if h.VersionMajor != 1 {
		return nil, fmt.Errorf("unsupported LAS version %d.%d", h.VersionMajor, h.VersionMinor)
	}
	if int(h.HeaderSize) < headerSizeMin {
		return nil, fmt.Errorf("header size %d too small", h.HeaderSize)
	}

	// LAS 1.4 appends a 64-bit point count after the waveform pointer.
	if h.VersionMinor >= 4 && int(h.HeaderSize) >= headerSizeMin+20+8 {
		rest := make([]byte, int(h.HeaderSize)-headerSizeMin)
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, fmt.Errorf("read extended header: %w", err)
		}
		// waveform offset (8) + evlr offset (8) + evlr count (4) = 20
		h.ExtendedCount = le.Uint64(rest[20:])
	}

	return h, nil
}

// Open reads the header of the named file.
func Open(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHeader(f)
}

func float64frombytes(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:8]))
}
