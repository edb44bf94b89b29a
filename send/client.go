package send

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
)

// Client uploads files to a store-protocol destination. Per-file store
// failures are logged and the remaining files still go out; only transport
// and association failures abort the send.
type Client struct {
	addr       string
	callingAET string
	calledAET  string
	logger     *slog.Logger
}

func NewClient(addr, callingAET, calledAET string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		addr:       addr,
		callingAET: callingAET,
		calledAET:  calledAET,
		logger:     logger,
	}
}

func (c *Client) SendFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	req := &associateRequest{CallingAET: c.callingAET, CalledAET: c.calledAET}
	if err := writeFrame(conn, frameAssociate, req); err != nil {
		return err
	}
	var ack associateAck
	if err := expectFrame(conn, frameAssociateAck, &ack); err != nil {
		return err
	}
	if !ack.Accepted {
		return fmt.Errorf("%w: %s", errAssociationRefused, ack.Reason)
	}
	c.logger.Info("association established", "addr", c.addr, "called", c.calledAET)

	for _, path := range paths {
		if err := c.storeFile(conn, path); err != nil {
			return err
		}
	}

	if err := writeFrame(conn, frameRelease, &releaseRequest{}); err != nil {
		return err
	}
	if err := expectFrame(conn, frameReleaseAck, &releaseAck{}); err != nil {
		return err
	}
	c.logger.Info("association released", "files", len(paths))
	return nil
}

func (c *Client) storeFile(conn net.Conn, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("could not read file for send", "path", path, "err", err)
		return nil
	}
	req := &storeRequest{Name: filepath.Base(path), Data: data}
	if err := writeFrame(conn, frameStore, req); err != nil {
		return err
	}
	var ack storeAck
	if err := expectFrame(conn, frameStoreAck, &ack); err != nil {
		return err
	}
	if ack.Status != StatusSuccess {
		c.logger.Error("store refused",
			"path", path, "status", ack.Status, "reason", ack.Reason)
	}
	return nil
}
