package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"dosesum/dose"
)

// SummedFilePrefix marks artifact files produced by the summation engine.
// The skip-check matches on this exact prefix, so the convention is load
// bearing: renaming an artifact defeats idempotence detection.
const SummedFilePrefix = "RD_Summed_"

const summedSeriesDescription = "Summed Dose"

// Artifact is the finished output of one patient's summation: the derived
// persisted object plus the suggested output filename. Immutable once
// built; persistence is the orchestrator's job.
type Artifact struct {
	Object   *dose.Object
	Filename string
}

// BuildArtifact clones the template object's metadata and substitutes the
// identity fields, timestamps and quantized buffer. The fresh instance and
// series identifiers are guaranteed distinct from every identifier in
// usedUIDs; shape fields are set from the buffer's actual dimensions. No
// I/O happens here.
func BuildArtifact(
	template *dose.Object,
	codes []uint16,
	shape Shape,
	scale float64,
	patientID string,
	usedUIDs []string) (*Artifact, error) {

	if len(codes) != shape.NumVoxels() {
		return nil, fmt.Errorf("buffer holds %d codes, shape wants %d", len(codes), shape.NumVoxels())
	}

	now := time.Now()
	obj := template.Clone()
	obj.SOPInstanceUID = freshUID(usedUIDs)
	obj.SeriesUID = freshUID(append(usedUIDs, obj.SOPInstanceUID))
	obj.SeriesDescription = summedSeriesDescription
	obj.ContentTime = now
	obj.Frames = shape.Frames
	obj.Rows = shape.Rows
	obj.Cols = shape.Cols
	obj.Scaling = scale
	obj.BitsAllocated = 16
	obj.PixelData = dose.CodesToBytes(codes)

	filename := fmt.Sprintf("%s%s_%s.dob",
		SummedFilePrefix, patientID, now.Format("20060102_150405"))

	return &Artifact{Object: obj, Filename: filename}, nil
}

// freshUID generates an identifier not present in used. A v4 UUID collision
// is not a practical concern, but the distinctness guarantee is part of the
// builder contract, so it is enforced anyway.
func freshUID(used []string) string {
	for {
		id := uuid.New().String()
		if !contains(used, id) {
			return id
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
