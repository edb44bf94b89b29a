// Package report renders the per-patient metadata rows collected during
// discovery into a CSV summary for downstream review.
package report

import (
	"encoding/csv"
	"io"
	"os"

	"dosesum/scan"
)

var columns = []string{
	"PatientID",
	"StudyInstanceUID",
	"SeriesInstanceUID",
	"ManufacturerModel",
	"TreatmentSite",
	"RTStruct_SOPInstanceUID",
	"RTPlan_SOPInstanceUID",
	"RTDose_SOPInstanceUIDs",
}

func Write(w io.Writer, records []*scan.PatientRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.PatientID,
			r.StudyUID,
			r.SeriesUID,
			r.ManufacturerModel,
			r.TreatmentSite,
			r.RTStructSOPUID,
			r.RTPlanSOPUID,
			r.RTDoseSOPUIDs,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteFile(path string, records []*scan.PatientRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
