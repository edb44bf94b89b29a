package storage

import (
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// RunRecord is one patient's most recent summation outcome, kept for
// reporting and diagnostics. The filename marker, not the ledger, remains
// the idempotence source of truth.
type RunRecord struct {
	PatientID  string    `msgpack:"patient_id"`
	Status     string    `msgpack:"status"`
	OutputPath string    `msgpack:"output_path"`
	Diagnostic string    `msgpack:"diagnostic"`
	FinishedAt time.Time `msgpack:"finished_at"`
}

// Ledger records per-patient run outcomes in a badger database keyed by
// patient ID.
type Ledger struct {
	db *badger.DB
}

func OpenLedger(path string) (*Ledger, error) {
	options := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// OpenMemoryLedger backs the ledger with an in-memory badger instance.
func OpenMemoryLedger() (*Ledger, error) {
	options := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (ledger *Ledger) Close() error {
	return ledger.db.Close()
}

func (ledger *Ledger) Put(record *RunRecord) error {
	buf, err := msgpack.Marshal(record)
	if err != nil {
		return err
	}
	return ledger.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(record.PatientID), buf)
	})
}

func (ledger *Ledger) Get(patientID string) (*RunRecord, error) {
	var buf []byte
	err := ledger.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(patientID))
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	record := &RunRecord{}
	if err := msgpack.Unmarshal(buf, record); err != nil {
		return nil, err
	}
	return record, nil
}

// All returns every recorded outcome in key order.
func (ledger *Ledger) All() ([]*RunRecord, error) {
	records := make([]*RunRecord, 0)
	err := ledger.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			buf, err := iter.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			record := &RunRecord{}
			if err := msgpack.Unmarshal(buf, record); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
