package dose

import "time"

const (
	ModalityRTDose   = "RTDOSE"
	ModalityRTPlan   = "RTPLAN"
	ModalityRTStruct = "RTSTRUCT"
)

// Header carries everything about a persisted dose object except the pixel
// payload. It is stored as a separate msgpack blob so callers that only need
// metadata (classification, report extraction) never touch the pixel bytes.
type Header struct {
	Modality            string     `msgpack:"modality"`
	PatientID           string     `msgpack:"patient_id"`
	StudyUID            string     `msgpack:"study_uid"`
	SeriesUID           string     `msgpack:"series_uid"`
	SOPInstanceUID      string     `msgpack:"sop_instance_uid"`
	FrameOfReferenceUID string     `msgpack:"frame_of_reference_uid"`
	SeriesDescription   string     `msgpack:"series_description"`
	ManufacturerModel   string     `msgpack:"manufacturer_model"`
	TreatmentSite       string     `msgpack:"treatment_site"`
	ReferencedPlanUID   string     `msgpack:"referenced_plan_uid"`
	ContentTime         time.Time  `msgpack:"content_time"`
	Rows                int        `msgpack:"rows"`
	Cols                int        `msgpack:"cols"`
	Frames              int        `msgpack:"frames"`
	PixelSpacing        [2]float64 `msgpack:"pixel_spacing"`
	Orientation         [6]float64 `msgpack:"orientation"`
	Position            [3]float64 `msgpack:"position"`
	FrameOffsets        []float64  `msgpack:"frame_offsets"`
	Scaling             float64    `msgpack:"scaling"`
	BitsAllocated       int        `msgpack:"bits_allocated"`
}

// Object is one persisted dose object: metadata header plus the raw
// fixed-point sample buffer (little-endian codes, width per BitsAllocated).
type Object struct {
	Header
	PixelData []byte
}

// Clone returns a deep copy. The copy shares nothing with the receiver, so
// overriding fields on it cannot alias back into a source object.
func (obj *Object) Clone() *Object {
	clone := *obj
	clone.FrameOffsets = append([]float64(nil), obj.FrameOffsets...)
	clone.PixelData = append([]byte(nil), obj.PixelData...)
	return &clone
}

// NumVoxels returns the voxel count declared by the header shape fields.
func (h *Header) NumVoxels() int {
	return h.Frames * h.Rows * h.Cols
}
