package lasfile_test

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lidarhub/potree-api/internal/infrastructure/lasfile"
)

// writeTestLAS writes a synthetic LAS 1.2 file whose point i sits at
// (i, 2i, 3i) in scaled coordinates.
func writeTestLAS(t *testing.T, count uint32, compressed bool) string {
	t.Helper()

	spec := las12Spec()
	spec.legacyCount = count
	spec.scale = 1
	spec.offset = [3]float64{0, 0, 0}
	if compressed {
		spec.pointFormat |= 0x80
	}
	buf := buildHeader(spec)

	le := binary.LittleEndian
	record := make([]byte, spec.recordLength)
	for i := uint32(0); i < count; i++ {
		le.PutUint32(record[0:], i)
		le.PutUint32(record[4:], 2*i)
		le.PutUint32(record[8:], 3*i)
		buf = append(buf, record...)
	}

	path := filepath.Join(t.TempDir(), "test.las")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestSamplePoints(t *testing.T) {
	path := writeTestLAS(t, 100, false)

	points, err := lasfile.SamplePoints(path, 10)
	if err != nil {
		t.Fatalf("SamplePoints() error = %v", err)
	}
	if len(points) != 10 {
		t.Fatalf("SamplePoints() returned %d points, want 10", len(points))
	}

	// Stride is 10, so point k in the sample is record 10k.
	for k, p := range points {
		want := float64(10 * k)
		if p.X != want || p.Y != 2*want || p.Z != 3*want {
			t.Errorf("point %d = (%v, %v, %v), want (%v, %v, %v)",
				k, p.X, p.Y, p.Z, want, 2*want, 3*want)
		}
	}
}

func TestSamplePoints_FewerThanMax(t *testing.T) {
	path := writeTestLAS(t, 5, false)

	points, err := lasfile.SamplePoints(path, 100)
	if err != nil {
		t.Fatalf("SamplePoints() error = %v", err)
	}
	if len(points) != 5 {
		t.Errorf("SamplePoints() returned %d points, want all 5", len(points))
	}
}

func TestSamplePoints_AppliesScaleAndOffset(t *testing.T) {
	spec := las12Spec()
	spec.legacyCount = 1
	buf := buildHeader(spec)

	le := binary.LittleEndian
	record := make([]byte, spec.recordLength)
	le.PutUint32(record[0:], 100)
	le.PutUint32(record[4:], 200)
	le.PutUint32(record[8:], 300)
	buf = append(buf, record...)

	path := filepath.Join(t.TempDir(), "scaled.las")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	points, err := lasfile.SamplePoints(path, 1)
	if err != nil {
		t.Fatalf("SamplePoints() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("SamplePoints() returned %d points, want 1", len(points))
	}

	p := points[0]
	if math.Abs(p.X-600001) > 1e-9 || math.Abs(p.Y-4600002) > 1e-9 || math.Abs(p.Z-203) > 1e-9 {
		t.Errorf("point = (%v, %v, %v), want (600001, 4600002, 203)", p.X, p.Y, p.Z)
	}
}

func TestSamplePoints_Compressed(t *testing.T) {
	path := writeTestLAS(t, 10, true)

	_, err := lasfile.SamplePoints(path, 10)
	if !errors.Is(err, lasfile.ErrCompressedPoints) {
		t.Errorf("SamplePoints() error = %v, want ErrCompressedPoints", err)
	}
}

func TestSamplePoints_EmptyCloud(t *testing.T) {
	path := writeTestLAS(t, 0, false)

	points, err := lasfile.SamplePoints(path, 10)
	if err != nil {
		t.Fatalf("SamplePoints() error = %v", err)
	}
	if len(points) != 0 {
		t.Errorf("SamplePoints() returned %d points for empty cloud", len(points))
	}
}
