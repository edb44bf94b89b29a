package send

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"dosesum/dose"
)

// Receiver is the accepting end of the store protocol. Received objects are
// validated against the dose envelope and written into a directory.
type Receiver struct {
	dir    string
	aet    string
	logger *slog.Logger
}

func NewReceiver(dir, aet string, logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{
		dir:    dir,
		aet:    aet,
		logger: logger,
	}
}

// Serve accepts associations until the listener is closed.
func (r *Receiver) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go r.handle(conn)
	}
}

func (r *Receiver) handle(conn net.Conn) {
	defer conn.Close()

	var req associateRequest
	if err := expectFrame(conn, frameAssociate, &req); err != nil {
		r.logger.Error("bad association request", "err", err)
		return
	}
	if req.CalledAET != r.aet {
		writeFrame(conn, frameAssociateAck, &associateAck{
			Accepted: false,
			Reason:   "unknown called AE title " + req.CalledAET,
		})
		return
	}
	if err := writeFrame(conn, frameAssociateAck, &associateAck{Accepted: true}); err != nil {
		return
	}

	for {
		frameType, body, err := readFrame(conn)
		if err != nil {
			r.logger.Error("association dropped", "calling", req.CallingAET, "err", err)
			return
		}
		switch frameType {
		case frameStore:
			r.handleStore(conn, body)
		case frameRelease:
			writeFrame(conn, frameReleaseAck, &releaseAck{})
			return
		default:
			r.logger.Error("unexpected frame", "type", frameType)
			return
		}
	}
}

func (r *Receiver) handleStore(conn net.Conn, body []byte) {
	var store storeRequest
	if err := msgpack.Unmarshal(body, &store); err != nil {
		writeFrame(conn, frameStoreAck, &storeAck{Status: StatusRefused, Reason: err.Error()})
		return
	}
	if _, err := dose.DecodeHeader(bytes.NewReader(store.Data)); err != nil {
		writeFrame(conn, frameStoreAck, &storeAck{Status: StatusRefused, Reason: err.Error()})
		return
	}
	// Base strips any path components a hostile sender might smuggle in.
	outPath := filepath.Join(r.dir, filepath.Base(store.Name))
	if err := os.WriteFile(outPath, store.Data, 0o644); err != nil {
		writeFrame(conn, frameStoreAck, &storeAck{Status: StatusRefused, Reason: err.Error()})
		return
	}
	r.logger.Info("object stored", "name", store.Name, "bytes", len(store.Data))
	writeFrame(conn, frameStoreAck, &storeAck{Status: StatusSuccess})
}
