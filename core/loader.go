package core

import (
	"encoding/binary"
	"errors"
	"fmt"

	"dosesum/dose"
	"dosesum/storage"
)

// DoseGrid is one fraction's measured dose: the scale-multiplied float64
// samples, the spatial signature, and the decoded source object kept around
// as the template for artifact construction. Read-only after load.
type DoseGrid struct {
	Samples  *Field
	Geometry Geometry
	Source   *dose.Object
}

// LoadGrid reads a persisted dose object and decodes its fixed-point sample
// buffer and scale factor into a floating-point field. The object must
// declare modality RTDOSE and expose both a sample buffer and a positive
// scale; geometry fields are read verbatim.
func LoadGrid(store storage.ObjectStore, path string) (*DoseGrid, error) {
	obj, err := store.Read(path)
	if err != nil {
		if errors.Is(err, dose.ErrBadMagic) ||
			errors.Is(err, dose.ErrBadVersion) ||
			errors.Is(err, dose.ErrBadPayload) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	if obj.Modality != dose.ModalityRTDose {
		return nil, fmt.Errorf("%w: %s has modality %q", ErrUnsupportedModality, path, obj.Modality)
	}
	if len(obj.PixelData) == 0 {
		return nil, fmt.Errorf("%w: %s has no pixel data", ErrMissingField, path)
	}
	if obj.Scaling <= 0 {
		return nil, fmt.Errorf("%w: %s has no dose grid scaling", ErrMissingField, path)
	}

	geometry := GeometryOf(&obj.Header)
	samples, err := decodeSamples(obj, geometry.Shape())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, path, err)
	}

	return &DoseGrid{
		Samples:  samples,
		Geometry: geometry,
		Source:   obj,
	}, nil
}

func decodeSamples(obj *dose.Object, shape Shape) (*Field, error) {
	numVoxels := shape.NumVoxels()
	field := NewField(shape)
	data := field.Data()

	switch obj.BitsAllocated {
	case 16:
		if len(obj.PixelData) != 2*numVoxels {
			return nil, fmt.Errorf("pixel buffer holds %d bytes, want %d", len(obj.PixelData), 2*numVoxels)
		}
		for i := range data {
			code := binary.LittleEndian.Uint16(obj.PixelData[2*i:])
			data[i] = float64(code) * obj.Scaling
		}
	case 32:
		if len(obj.PixelData) != 4*numVoxels {
			return nil, fmt.Errorf("pixel buffer holds %d bytes, want %d", len(obj.PixelData), 4*numVoxels)
		}
		for i := range data {
			code := binary.LittleEndian.Uint32(obj.PixelData[4*i:])
			data[i] = float64(code) * obj.Scaling
		}
	default:
		return nil, fmt.Errorf("unsupported bits-allocated %d", obj.BitsAllocated)
	}
	return field, nil
}
