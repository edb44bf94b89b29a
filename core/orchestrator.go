package core

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"dosesum/stats"
	"dosesum/storage"
)

// Orchestrator states. A run walks Idle through Done in order; Aborted is
// terminal and reachable from any state.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateLoading
	StateValidating
	StateSumming
	StateQuantizing
	StateBuilding
	StateDone
	StateAborted
)

var stateNames = [...]string{
	"idle", "checking", "loading", "validating",
	"summing", "quantizing", "building", "done", "aborted",
}

func (s State) String() string {
	return stateNames[s]
}

type Status int

const (
	StatusSummed Status = iota
	StatusSkipped
	StatusNothingToDo
	StatusAborted
)

var statusNames = [...]string{"summed", "skipped", "nothing-to-do", "aborted"}

func (s Status) String() string {
	return statusNames[s]
}

// Result is one patient's summation outcome, modelled as a value so a
// failure never unwinds past the batch loop.
type Result struct {
	PatientID  string
	Status     Status
	FinalState State
	OutputPath string
	Reason     string
	Err        error
	FieldStats *stats.Summary
}

// Diagnostic renders the human-readable outcome line, tagged with the
// patient identifier.
func (r Result) Diagnostic() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("patient %s: %s: %v", r.PatientID, r.Status, r.Err)
	case r.Reason != "":
		return fmt.Sprintf("patient %s: %s: %s", r.PatientID, r.Status, r.Reason)
	default:
		return fmt.Sprintf("patient %s: %s: %s", r.PatientID, r.Status, r.OutputPath)
	}
}

// Orchestrator sequences one patient's summation: load every grid, validate
// geometry, accumulate, quantize, build the artifact, persist it. Each
// patient gets a fresh Orchestrator, so there is no shared mutable state
// across patients.
type Orchestrator struct {
	store  storage.ObjectStore
	logger *slog.Logger
	state  State
}

func NewOrchestrator(store storage.ObjectStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  store,
		logger: logger,
		state:  StateIdle,
	}
}

func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) enter(state State) {
	o.logger.Debug("state transition", "from", o.state, "to", state)
	o.state = state
}

func (o *Orchestrator) abort(patientID string, err error) Result {
	o.enter(StateAborted)
	return Result{
		PatientID:  patientID,
		Status:     StatusAborted,
		FinalState: StateAborted,
		Err:        err,
	}
}

// Run executes the full pipeline for one patient. The artifact is written
// into the directory of the first input path, only after every preceding
// stage has succeeded; nothing partial is ever persisted.
func (o *Orchestrator) Run(patientID string, paths []string) Result {
	o.enter(StateChecking)

	if len(paths) < 2 {
		o.enter(StateDone)
		return Result{
			PatientID:  patientID,
			Status:     StatusNothingToDo,
			FinalState: StateDone,
			Reason:     "nothing to do: fewer than two dose grids",
		}
	}

	destDir := filepath.Dir(paths[0])
	names, err := o.store.List(destDir)
	if err != nil {
		return o.abort(patientID, err)
	}
	for _, name := range names {
		if strings.HasPrefix(name, SummedFilePrefix) {
			o.enter(StateDone)
			return Result{
				PatientID:  patientID,
				Status:     StatusSkipped,
				FinalState: StateDone,
				Reason:     "skipped: already summed (" + name + ")",
			}
		}
	}

	o.enter(StateLoading)
	grids := make([]*DoseGrid, 0, len(paths))
	usedUIDs := make([]string, 0, 2*len(paths))
	for _, path := range paths {
		grid, err := LoadGrid(o.store, path)
		if err != nil {
			return o.abort(patientID, err)
		}
		grids = append(grids, grid)
		usedUIDs = append(usedUIDs, grid.Source.SOPInstanceUID, grid.Source.SeriesUID)
	}

	o.enter(StateValidating)
	geometries := make([]Geometry, len(grids))
	for i, grid := range grids {
		geometries[i] = grid.Geometry
	}
	if err := ValidateGeometries(geometries); err != nil {
		return o.abort(patientID, err)
	}

	o.enter(StateSumming)
	fields := make([]*Field, len(grids))
	for i, grid := range grids {
		fields[i] = grid.Samples
	}
	summed, err := Accumulate(fields)
	if err != nil {
		return o.abort(patientID, err)
	}
	fieldStats := stats.Summarize(summed.Data())
	o.logger.Info("summed dose grids",
		"patient", patientID,
		"grids", len(grids),
		"peak", fieldStats.Max,
		"mean", fieldStats.Mean)

	o.enter(StateQuantizing)
	codes, scale, err := Quantize(summed)
	if err != nil {
		return o.abort(patientID, err)
	}

	o.enter(StateBuilding)
	artifact, err := BuildArtifact(
		grids[0].Source, codes, summed.Shape(), scale, patientID, usedUIDs)
	if err != nil {
		return o.abort(patientID, err)
	}

	o.enter(StateDone)
	outPath, err := o.store.Write(destDir, artifact.Filename, artifact.Object)
	if err != nil {
		return o.abort(patientID, fmt.Errorf("%w: %v", ErrWriteFailure, err))
	}

	return Result{
		PatientID:  patientID,
		Status:     StatusSummed,
		FinalState: StateDone,
		OutputPath: outPath,
		FieldStats: fieldStats,
	}
}
