package unix

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"

	"xrdpsink/frame"
	"xrdpsink/logger"

	"github.com/rs/xid"
)

// Returned by Listen on a server that was already closed
var ErrServerClosed = errors.New("socket server closed")

// A frame received from a producer connection
type Frame struct {
	ClientID string
	Header   frame.Header
	Payload  []byte
}

// Connected producer connections
type Conns map[string]net.Conn

// Socket server type, the consumer end of the sink socket
type Server struct {
	// Exported Fields
	Config Configurer
	// Unexported Fields
	frames    chan Frame      // Frames received from producers
	listener  net.Listener    // Unix socket listener
	readyC    chan bool       // closed once listening
	mu        sync.Mutex      // guards conns, listener and closing
	conns     Conns           // Connected producers
	wg        *sync.WaitGroup // Wait group for clean exit
	closeC    chan bool       // close channel for close orchestration
	closeOnce sync.Once
}

// Name of the frame producer
func (s *Server) Name() string {
	return "unix socket server"
}

// Received frames, the channel is closed once the server is closed
func (s *Server) Frames() <-chan Frame {
	return (<-chan Frame)(s.frames)
}

// Closed once the server is accepting connections
func (s *Server) Ready() <-chan bool {
	return (<-chan bool)(s.readyC)
}

// Reads frames from one producer until it disconnects or sends garbage
func (s *Server) read(id string, conn net.Conn) {
	defer s.wg.Done()
	log := logger.WithField("client", id)
	defer log.Debug("exit socket server client read routine")
	defer s.del(id)
	for {
		h, payload, err := frame.Read(conn)
		if err != nil {
			select {
			case <-s.closeC:
			default:
				if err != io.EOF {
					log.WithError(err).Warn("dropping producer connection")
				}
			}
			return
		}
		select {
		case s.frames <- Frame{ClientID: id, Header: h, Payload: payload}:
		case <-s.closeC:
			return
		}
	}
}

func (s *Server) del(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn, ok := s.conns[id]; ok {
		conn.Close()
		delete(s.conns, id)
	}
}

// Listens for producer connections until the server is closed. A stale
// socket file left at the address is removed first. Returns ErrServerClosed
// when the server was closed before it could bind.
func (s *Server) Listen() error {
	logger.Debug("start socket server listen")
	defer logger.Debug("exit socket server listen")
	address := s.Config.Address()
	s.mu.Lock()
	if s.closing() {
		s.mu.Unlock()
		return ErrServerClosed
	}
	if err := os.Remove(address); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.mu.Unlock()
		return err
	}
	l, err := net.Listen("unix", address)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = l
	s.mu.Unlock()
	close(s.readyC)
	for {
		conn, err := l.Accept()
		if err != nil {
			if s.closing() {
				return nil
			}
			logger.WithError(err).Error("failed to accept unix connection")
			continue
		}
		id := xid.New().String()
		if !s.track(id, conn) {
			conn.Close()
			return nil
		}
		go s.read(id, conn)
		logger.WithField("client", id).Info("producer connected")
	}
}

// Registers an accepted connection, false once the server is closing
func (s *Server) track(id string, conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing() {
		return false
	}
	s.conns[id] = conn
	s.wg.Add(1)
	return true
}

func (s *Server) closing() bool {
	select {
	case <-s.closeC:
		return true
	default:
		return false
	}
}

// Gracefully closes the listener and every producer connection, then waits
// for the read routines to exit. The socket file is only removed when this
// server bound it.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		logger.Debug("close socket server")
		defer logger.Info("closed socket server")
		s.mu.Lock()
		close(s.closeC)
		bound := s.listener != nil
		if bound {
			s.listener.Close()
		}
		for _, conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
		close(s.frames)
		if bound {
			os.Remove(s.Config.Address())
		}
	})
	return nil
}

// Constructs a new Socket Server
func NewServer(c Configurer) *Server {
	return &Server{
		Config: c,
		frames: make(chan Frame, 64),
		readyC: make(chan bool),
		closeC: make(chan bool),
		conns:  make(Conns),
		wg:     &sync.WaitGroup{},
	}
}
