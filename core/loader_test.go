package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"dosesum/dose"
	"dosesum/storage"
)

func TestLoadGrid(t *testing.T) {
	dir := t.TempDir()
	geometry := testGeometry()
	obj := testDoseObject("PAT001", "sop-1", geometry, 100, 0.01)
	path := writeDoseFile(t, dir, "dose1.dob", obj)

	grid, err := LoadGrid(storage.NewFileStore(), path)
	assert.NoError(t, err)
	assert.Equal(t, geometry.Shape(), grid.Samples.Shape())
	assert.Equal(t, 1.0, grid.Samples.At(0, 0, 0))
	assert.Equal(t, geometry, grid.Geometry)
	assert.Equal(t, "sop-1", grid.Source.SOPInstanceUID)
}

func TestLoadGridWrongModality(t *testing.T) {
	dir := t.TempDir()
	obj := testDoseObject("PAT001", "sop-1", testGeometry(), 100, 0.01)
	obj.Modality = dose.ModalityRTPlan
	path := writeDoseFile(t, dir, "plan.dob", obj)

	_, err := LoadGrid(storage.NewFileStore(), path)
	assert.ErrorIs(t, err, ErrUnsupportedModality)
}

func TestLoadGridMissingPixelData(t *testing.T) {
	dir := t.TempDir()
	obj := testDoseObject("PAT001", "sop-1", testGeometry(), 100, 0.01)
	obj.PixelData = nil
	path := writeDoseFile(t, dir, "dose.dob", obj)

	_, err := LoadGrid(storage.NewFileStore(), path)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestLoadGridMissingScaling(t *testing.T) {
	dir := t.TempDir()
	obj := testDoseObject("PAT001", "sop-1", testGeometry(), 100, 0.01)
	obj.Scaling = 0
	path := writeDoseFile(t, dir, "dose.dob", obj)

	_, err := LoadGrid(storage.NewFileStore(), path)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestLoadGridNotADoseObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.txt")
	assert.NoError(t, os.WriteFile(path, []byte("definitely not a dose object"), 0o644))

	_, err := LoadGrid(storage.NewFileStore(), path)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadGridShortPixelBuffer(t *testing.T) {
	dir := t.TempDir()
	obj := testDoseObject("PAT001", "sop-1", testGeometry(), 100, 0.01)
	obj.PixelData = obj.PixelData[:10]
	path := writeDoseFile(t, dir, "dose.dob", obj)

	_, err := LoadGrid(storage.NewFileStore(), path)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
