package lasfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Point is a decoded point record in file coordinates.
type Point struct {
	X, Y, Z float64
}

// SamplePoints decodes up to max evenly spaced point records from the
// named LAS file. LAZ files return ErrCompressedPoints; callers that
// only need a preview should treat that as a soft failure.
func SamplePoints(path string, max int) ([]Point, error) {
	if max <= 0 {
		return nil, fmt.Errorf("sample size must be positive")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return nil, err
	}
	if h.IsCompressed() {
		return nil, ErrCompressedPoints
	}

	total := h.PointCount()
	if total == 0 {
		return nil, nil
	}
	if h.PointRecordLength < 12 {
		return nil, fmt.Errorf("point record length %d too small", h.PointRecordLength)
	}

	stride := uint64(1)
	if total > uint64(max) {
		stride = total / uint64(max)
	}

	points := make([]Point, 0, max)
	record := make([]byte, h.PointRecordLength)
	le := binary.LittleEndian

	for i := uint64(0); i < total && len(points) < max; i += stride {
		offset := int64(h.OffsetToPointData) + int64(i)*int64(h.PointRecordLength)
		if _, err := f.ReadAt(record, offset); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read point %d: %w", i, err)
		}
		points = append(points, Point{
			X: float64(int32(le.Uint32(record[0:])))*h.ScaleX + h.OffsetX,
			Y: float64(int32(le.Uint32(record[4:])))*h.ScaleY + h.OffsetY,
			Z: float64(int32(le.Uint32(record[8:])))*h.ScaleZ + h.OffsetZ,
		})
	}

	return points, nil
}
