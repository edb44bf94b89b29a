package dose

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func testObject() *Object {
	return &Object{
		Header: Header{
			Modality:            ModalityRTDose,
			PatientID:           "PAT001",
			StudyUID:            "study-1",
			SeriesUID:           "series-1",
			SOPInstanceUID:      "sop-1",
			FrameOfReferenceUID: "for-1",
			SeriesDescription:   "Fraction 1",
			ContentTime:         time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
			Rows:                2,
			Cols:                3,
			Frames:              1,
			PixelSpacing:        [2]float64{2.5, 2.5},
			Orientation:         [6]float64{1, 0, 0, 0, 1, 0},
			Position:            [3]float64{-10, -10, 0},
			FrameOffsets:        []float64{0},
			Scaling:             0.01,
			BitsAllocated:       16,
		},
		PixelData: CodesToBytes([]uint16{10, 20, 30, 40, 50, 60}),
	}
}

func TestCodecRoundTrip(t *testing.T) {
	obj := testObject()

	var buf bytes.Buffer
	err := Encode(&buf, obj)
	assert.NoError(t, err)

	decoded, err := Decode(&buf)
	assert.NoError(t, err)
	assert.Empty(t, cmp.Diff(obj, decoded))
}

func TestDecodeHeaderStopsBeforePixels(t *testing.T) {
	obj := testObject()

	var buf bytes.Buffer
	err := Encode(&buf, obj)
	assert.NoError(t, err)

	header, err := DecodeHeader(&buf)
	assert.NoError(t, err)
	assert.Empty(t, cmp.Diff(obj.Header, *header))
	// The pixel block is still unread.
	assert.Equal(t, 4+len(obj.PixelData), buf.Len())
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a dose object at all")))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeBadVersion(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, testObject())
	assert.NoError(t, err)

	raw := buf.Bytes()
	raw[4] = 99
	_, err = Decode(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, testObject())
	assert.NoError(t, err)

	raw := buf.Bytes()
	_, err = Decode(bytes.NewReader(raw[:len(raw)-3]))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestClone(t *testing.T) {
	obj := testObject()
	clone := obj.Clone()

	clone.SOPInstanceUID = "sop-2"
	clone.PixelData[0] = 0xFF
	clone.FrameOffsets[0] = 3.0

	assert.Equal(t, "sop-1", obj.SOPInstanceUID)
	assert.Equal(t, byte(10), obj.PixelData[0])
	assert.Equal(t, 0.0, obj.FrameOffsets[0])
}

func TestCodesBytesRoundTrip(t *testing.T) {
	codes := []uint16{0, 1, 255, 256, 65535}
	back, err := BytesToCodes(CodesToBytes(codes))
	assert.NoError(t, err)
	assert.Equal(t, codes, back)

	_, err = BytesToCodes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrBadPayload)
}
