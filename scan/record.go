package scan

import (
	"path/filepath"
	"strings"
)

const notAvailable = "N/A"

// PatientRecord is one spreadsheet row of per-patient metadata, extracted
// from the first plan, the first structure set, and every dose object.
type PatientRecord struct {
	PatientID         string
	StudyUID          string
	SeriesUID         string
	ManufacturerModel string
	TreatmentSite     string
	RTStructSOPUID    string
	RTPlanSOPUID      string
	RTDoseSOPUIDs     string
}

// Record extracts the metadata row for one patient directory and returns it
// together with the classified file groups, so callers classify only once.
func (s *Scanner) Record(patientDir string) (*PatientRecord, *Files, error) {
	files, err := s.Classify(patientDir)
	if err != nil {
		return nil, nil, err
	}

	record := &PatientRecord{
		PatientID:         filepath.Base(filepath.Clean(patientDir)),
		StudyUID:          notAvailable,
		SeriesUID:         notAvailable,
		ManufacturerModel: notAvailable,
		TreatmentSite:     notAvailable,
		RTStructSOPUID:    notAvailable,
		RTPlanSOPUID:      notAvailable,
		RTDoseSOPUIDs:     notAvailable,
	}

	if len(files.Plans) > 0 {
		if header, err := s.header(files.Plans[0]); err == nil {
			record.StudyUID = orNA(header.StudyUID)
			record.SeriesUID = orNA(header.SeriesUID)
			record.ManufacturerModel = orNA(header.ManufacturerModel)
			record.TreatmentSite = orNA(header.TreatmentSite)
			record.RTPlanSOPUID = orNA(header.SOPInstanceUID)
		} else {
			s.logger.Warn("plan metadata unreadable", "patient", record.PatientID, "err", err)
		}
	}

	if len(files.Structs) > 0 {
		if header, err := s.header(files.Structs[0]); err == nil {
			record.RTStructSOPUID = orNA(header.SOPInstanceUID)
		} else {
			s.logger.Warn("struct metadata unreadable", "patient", record.PatientID, "err", err)
		}
	}

	doseUIDs := make([]string, 0, len(files.Doses))
	for _, path := range files.Doses {
		header, err := s.header(path)
		if err != nil {
			s.logger.Warn("dose metadata unreadable", "path", path, "err", err)
			continue
		}
		doseUIDs = append(doseUIDs, orNA(header.SOPInstanceUID))
	}
	if len(doseUIDs) > 0 {
		record.RTDoseSOPUIDs = strings.Join(doseUIDs, ", ")
	}

	return record, files, nil
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
