package unix

import (
	"errors"
	"fmt"
	"io"
	"net"

	"xrdpsink/clock"
	"xrdpsink/frame"
	"xrdpsink/logger"
	"xrdpsink/metrics"
)

// Minimum interval between connect attempts after a failure, in microseconds
const Backoff uint64 = 1000000

var (
	// Returned by Send when no connection could be opened, the frame is
	// dropped and callers carry on
	ErrNotConnected = errors.New("sink socket not connected")
	ErrZeroWrite    = errors.New("socket write made no progress")
)

// Dial function used to open the socket
type DialFunc func(network, address string) (net.Conn, error)

// A unix socket client delivering frames to the consumer. The connection is
// opened lazily, dropped on any write failure and reopened on a later send,
// at most once per Backoff interval after a failed attempt. A Client is not
// safe for concurrent use; it belongs to the engine goroutine.
type Client struct {
	// Exported Fields
	Dial    DialFunc
	Metrics *metrics.Metrics
	// Unexported Fields
	path     string
	clock    clock.Clock
	conn     net.Conn // nil or fully connected
	failed   bool
	failedAt uint64
}

// Returns the socket path
func (c *Client) Path() string {
	return c.path
}

// Reports whether a connection is open
func (c *Client) Connected() bool {
	return c.conn != nil
}

// Opens the connection unless it is already open or the last failed attempt
// is under Backoff old
func (c *Client) ConnectIfNeeded() {
	if c.conn != nil {
		return
	}
	if c.failed && c.clock.Now()-c.failedAt < Backoff {
		return
	}
	log := logger.WithField("path", c.path)
	log.Debug("trying to connect")
	conn, err := c.Dial("unix", c.path)
	c.Metrics.RecordConnect(err == nil)
	if err != nil {
		c.failed = true
		c.failedAt = c.clock.Now()
		log.WithError(err).Debug("connect failed")
		return
	}
	c.failed = false
	c.failedAt = 0
	c.conn = conn
	log.Info("connected ok")
}

// Writes all of b, retrying partial writes. It stops at the first error or
// at a write that makes no progress.
func writeFull(w io.Writer, b []byte) (int, error) {
	sent := 0
	for sent < len(b) {
		n, err := w.Write(b[sent:])
		if n > 0 {
			sent += n
		}
		if err != nil {
			return sent, err
		}
		if n <= 0 {
			return sent, ErrZeroWrite
		}
	}
	return sent, nil
}

// Sends one frame. DATA frames carry payload, CLOSE frames ignore it. The
// connection is closed on any failure and no retry is attempted.
func (c *Client) Send(code frame.Code, payload []byte) error {
	c.ConnectIfNeeded()
	if c.conn == nil {
		return ErrNotConnected
	}
	h := frame.CloseHeader()
	if code == frame.Data {
		h = frame.DataHeader(len(payload))
	}
	if n, err := writeFull(c.conn, h.Encode()); err != nil {
		c.invalidate()
		return fmt.Errorf("send %s header: sent %d of %d: %w", code, n, frame.HeaderSize, err)
	}
	if code == frame.Data && len(payload) > 0 {
		if n, err := writeFull(c.conn, payload); err != nil {
			c.invalidate()
			return fmt.Errorf("send %s payload: sent %d of %d: %w", code, n, len(payload), err)
		}
	}
	c.Metrics.RecordFrame(code.String(), h.PayloadLen())
	logger.WithFields(logger.F{"code": code.String(), "bytes": h.Bytes}).Trace("frame sent")
	return nil
}

// Tells the consumer the stream stopped, then drops the connection. Failures
// are logged and swallowed.
func (c *Client) CloseAndNotify() {
	if c.conn == nil {
		return
	}
	logger.WithField("path", c.path).Debug("close send")
	if err := c.Send(frame.Close, nil); err != nil {
		logger.WithError(err).Info("close send failed")
		return
	}
	c.drop()
}

// Closes the connection after a failed write
func (c *Client) invalidate() {
	c.Metrics.RecordSendFailure()
	c.drop()
}

func (c *Client) drop() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		logger.WithError(err).Warn("failed to close sink socket")
	}
	c.conn = nil
}

// Close the Client, closing the connection without notifying the consumer
func (c *Client) Close() error {
	logger.Debug("close socket client")
	c.drop()
	return nil
}

// Constructs a new Client for the socket at path
func NewClient(path string, clk clock.Clock) *Client {
	return &Client{
		Dial:  net.Dial,
		path:  path,
		clock: clk,
	}
}
