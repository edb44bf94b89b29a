package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dosesum/storage"
)

func TestRunnerContinuesPastAbortedPatient(t *testing.T) {
	store := storage.NewFileStore()
	geometry := testGeometry()
	twoFrames := testGeometry()
	twoFrames.Frames = 2
	twoFrames.FrameOffsets = []float64{0, 3}

	badDir := t.TempDir()
	badPaths := []string{
		writeDoseFile(t, badDir, "dose1.dob", testDoseObject("PAT001", "sop-1", geometry, 100, 0.01)),
		writeDoseFile(t, badDir, "dose2.dob", testDoseObject("PAT001", "sop-2", twoFrames, 200, 0.01)),
	}

	goodDir := t.TempDir()
	goodPaths := []string{
		writeDoseFile(t, goodDir, "dose1.dob", testDoseObject("PAT002", "sop-3", geometry, 100, 0.01)),
		writeDoseFile(t, goodDir, "dose2.dob", testDoseObject("PAT002", "sop-4", geometry, 200, 0.01)),
	}

	runner := NewRunner(store, nil)
	results := runner.Run([]Patient{
		{ID: "PAT001", DosePaths: badPaths},
		{ID: "PAT002", DosePaths: goodPaths},
	})

	assert.Len(t, results, 2)
	assert.Equal(t, StatusAborted, results[0].Status)
	assert.Equal(t, StatusSummed, results[1].Status)
	assert.Len(t, summedArtifacts(t, goodDir), 1)
	assert.Empty(t, summedArtifacts(t, badDir))
}

func TestRunnerRecordsOutcomesToLedger(t *testing.T) {
	store := storage.NewFileStore()
	geometry := testGeometry()

	dir := t.TempDir()
	paths := []string{
		writeDoseFile(t, dir, "dose1.dob", testDoseObject("PAT001", "sop-1", geometry, 100, 0.01)),
		writeDoseFile(t, dir, "dose2.dob", testDoseObject("PAT001", "sop-2", geometry, 200, 0.01)),
	}

	ledger, err := storage.OpenMemoryLedger()
	assert.NoError(t, err)
	defer ledger.Close()

	runner := NewRunner(store, nil).SetLedger(ledger)
	results := runner.Run([]Patient{
		{ID: "PAT001", DosePaths: paths},
		{ID: "PAT002", DosePaths: nil},
	})
	assert.Len(t, results, 2)

	record, err := ledger.Get("PAT001")
	assert.NoError(t, err)
	assert.Equal(t, "summed", record.Status)
	assert.Equal(t, results[0].OutputPath, record.OutputPath)

	record, err = ledger.Get("PAT002")
	assert.NoError(t, err)
	assert.Equal(t, "nothing-to-do", record.Status)
	assert.Contains(t, record.Diagnostic, "fewer than two")
}
