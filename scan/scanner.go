package scan

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"dosesum/dose"
	"dosesum/storage"
)

// Files groups one patient's persisted objects by modality.
type Files struct {
	Plans   []string
	Structs []string
	Doses   []string
}

// Scanner discovers per-patient dose objects under a root of patient
// directories. It owns classification; the summation engine never touches
// the filesystem layout itself.
type Scanner struct {
	store  storage.ObjectStore
	cache  *MetadataCache
	logger *slog.Logger
}

func NewScanner(store storage.ObjectStore, cache *MetadataCache, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// PatientDirs lists the immediate subdirectories of root in sorted order,
// one per patient.
func (s *Scanner) PatientDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Classify walks a patient directory recursively and groups every decodable
// object path by modality. Files that do not carry the dose object envelope
// are skipped, not errors: patient directories routinely hold unrelated
// exports.
func (s *Scanner) Classify(patientDir string) (*Files, error) {
	files := &Files{}
	err := filepath.WalkDir(patientDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		header, err := s.header(path)
		if err != nil {
			s.logger.Debug("skipping non-dose file", "path", path, "err", err)
			return nil
		}
		switch header.Modality {
		case dose.ModalityRTPlan:
			files.Plans = append(files.Plans, path)
		case dose.ModalityRTStruct:
			files.Structs = append(files.Structs, path)
		case dose.ModalityRTDose:
			files.Doses = append(files.Doses, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files.Plans)
	sort.Strings(files.Structs)
	sort.Strings(files.Doses)
	return files, nil
}

func (s *Scanner) header(path string) (*dose.Header, error) {
	if s.cache != nil {
		if header, ok := s.cache.Get(path); ok {
			return header, nil
		}
	}
	header, err := s.store.ReadHeader(path)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(path, header)
	}
	return header, nil
}
