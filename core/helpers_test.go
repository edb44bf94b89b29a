package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dosesum/dose"
)

// testGeometry is the shared (1,10,10) signature used across engine tests.
func testGeometry() Geometry {
	return Geometry{
		Rows:         10,
		Cols:         10,
		Frames:       1,
		PixelSpacing: [2]float64{2.5, 2.5},
		Orientation:  [6]float64{1, 0, 0, 0, 1, 0},
		Position:     [3]float64{-12.5, -12.5, 0},
		FrameOffsets: []float64{0},
	}
}

// testDoseObject builds an RTDOSE object whose every voxel holds the same
// fixed-point code.
func testDoseObject(patientID, sopUID string, geometry Geometry, code uint16, scaling float64) *dose.Object {
	codes := make([]uint16, geometry.Shape().NumVoxels())
	for i := range codes {
		codes[i] = code
	}
	return &dose.Object{
		Header: dose.Header{
			Modality:            dose.ModalityRTDose,
			PatientID:           patientID,
			StudyUID:            "study-" + patientID,
			SeriesUID:           "series-" + sopUID,
			SOPInstanceUID:      sopUID,
			FrameOfReferenceUID: "for-" + patientID,
			SeriesDescription:   "Fraction",
			ContentTime:         time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
			Rows:                geometry.Rows,
			Cols:                geometry.Cols,
			Frames:              geometry.Frames,
			PixelSpacing:        geometry.PixelSpacing,
			Orientation:         geometry.Orientation,
			Position:            geometry.Position,
			FrameOffsets:        append([]float64(nil), geometry.FrameOffsets...),
			Scaling:             scaling,
			BitsAllocated:       16,
		},
		PixelData: dose.CodesToBytes(codes),
	}
}

func writeDoseFile(t *testing.T, dir, name string, obj *dose.Object) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := dose.Encode(f, obj); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func fieldFilled(shape Shape, value float64) *Field {
	field := NewField(shape)
	data := field.Data()
	for i := range data {
		data[i] = value
	}
	return field
}
