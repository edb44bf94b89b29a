// Command dosesum walks a root of per-patient directories, sums each
// patient's dose grids into a cumulative artifact, exports a metadata
// summary CSV, and optionally uploads finished files to a store-protocol
// destination.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dosesum/core"
	"dosesum/report"
	"dosesum/scan"
	"dosesum/send"
	"dosesum/storage"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Args[1:]); err != nil {
		slog.Error("dosesum failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("dosesum", flag.ContinueOnError)
	reportPath := fs.String("o", "", "path for the output CSV report")
	configPath := fs.String("config", "", "path to a YAML config file")
	doSend := fs.Bool("send", false, "upload dose files and artifacts to the configured destination")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root := fs.Arg(0)
	if root == "" {
		return errors.New("usage: dosesum [flags] <root-dir>")
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *reportPath != "" {
		cfg.Report = *reportPath
	}

	store := storage.NewFileStore()
	cache, err := scan.NewMetadataCache()
	if err != nil {
		return err
	}
	scanner := scan.NewScanner(store, cache, logger)

	dirs, err := scanner.PatientDirs(root)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		logger.Info("no patient directories found", "root", root)
		return nil
	}
	logger.Info("processing patients", "count", len(dirs))

	records := make([]*scan.PatientRecord, 0, len(dirs))
	patients := make([]core.Patient, 0, len(dirs))
	doseFiles := make([]string, 0)
	for _, dir := range dirs {
		record, files, err := scanner.Record(dir)
		if err != nil {
			logger.Error("patient scan failed", "dir", dir, "err", err)
			continue
		}
		records = append(records, record)
		patients = append(patients, core.Patient{ID: record.PatientID, DosePaths: files.Doses})
		doseFiles = append(doseFiles, files.Doses...)
	}

	runner := core.NewRunner(store, logger)
	if cfg.Ledger != "" {
		ledger, err := storage.OpenLedger(cfg.Ledger)
		if err != nil {
			return err
		}
		defer ledger.Close()
		runner.SetLedger(ledger)
	}
	results := runner.Run(patients)

	summed := 0
	aborted := 0
	sendList := append([]string(nil), doseFiles...)
	for _, result := range results {
		switch result.Status {
		case core.StatusSummed:
			summed++
			sendList = append(sendList, result.OutputPath)
		case core.StatusAborted:
			aborted++
		}
	}
	logger.Info("batch complete",
		"patients", len(results), "summed", summed, "aborted", aborted)

	if err := report.WriteFile(cfg.Report, records); err != nil {
		return err
	}
	logger.Info("report written", "path", cfg.Report)

	if *doSend {
		if cfg.Destination.Host == "" {
			return errors.New("send requested but no destination configured")
		}
		addr := fmt.Sprintf("%s:%d", cfg.Destination.Host, cfg.Destination.Port)
		client := send.NewClient(addr, cfg.Destination.CallingAET, cfg.Destination.CalledAET, logger)
		if err := client.SendFiles(context.Background(), sendList); err != nil {
			return err
		}
	}
	return nil
}
