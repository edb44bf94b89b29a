package core

import (
	"log/slog"
	"time"

	"dosesum/storage"
)

// Patient is one batch entry: an identifier and the ordered dose grid paths
// discovered for it.
type Patient struct {
	ID        string
	DosePaths []string
}

// Runner processes patients sequentially and collects a Result per patient.
// An aborted patient never prevents processing of the next one, and every
// outcome is logged; nothing is silently swallowed.
type Runner struct {
	store  storage.ObjectStore
	ledger *storage.Ledger
	logger *slog.Logger
}

func NewRunner(store storage.ObjectStore, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:  store,
		ledger: nil,
		logger: logger,
	}
}

// SetLedger enables recording each outcome to a run ledger.
func (r *Runner) SetLedger(ledger *storage.Ledger) *Runner {
	r.ledger = ledger
	return r
}

func (r *Runner) Run(patients []Patient) []Result {
	results := make([]Result, 0, len(patients))
	for _, patient := range patients {
		orchestrator := NewOrchestrator(r.store, r.logger)
		result := orchestrator.Run(patient.ID, patient.DosePaths)

		if result.Status == StatusAborted {
			r.logger.Error(result.Diagnostic())
		} else {
			r.logger.Info(result.Diagnostic())
		}
		r.record(result)
		results = append(results, result)
	}
	return results
}

func (r *Runner) record(result Result) {
	if r.ledger == nil {
		return
	}
	diagnostic := result.Reason
	if result.Err != nil {
		diagnostic = result.Err.Error()
	}
	record := &storage.RunRecord{
		PatientID:  result.PatientID,
		Status:     result.Status.String(),
		OutputPath: result.OutputPath,
		Diagnostic: diagnostic,
		FinishedAt: time.Now(),
	}
	if err := r.ledger.Put(record); err != nil {
		r.logger.Error("ledger write failed", "patient", result.PatientID, "err", err)
	}
}
