package livestatus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ringwatch/gostatus/internal/logging"
	"github.com/ringwatch/gostatus/internal/trigger"
)

// Server listens on a Unix domain socket and/or a TCP address and answers
// LQL queries against a Registry of tables.
type Server struct {
	socketPath string
	tcpAddr    string
	registry   Registry
	triggers   *trigger.Registry
	logger     *logging.Logger
	listeners  []net.Listener
	wg         sync.WaitGroup
	quit       chan struct{}
}

// New creates a Server answering against registry. Either socketPath or
// tcpAddr (or both) may be empty to skip that listener.
func New(socketPath, tcpAddr string, registry Registry, triggers *trigger.Registry, logger *logging.Logger) *Server {
	return &Server{
		socketPath: socketPath,
		tcpAddr:    tcpAddr,
		registry:   registry,
		triggers:   triggers,
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	if s.socketPath != "" {
		os.Remove(s.socketPath)
		ln, err := net.Listen("unix", s.socketPath)
		if err != nil {
			return fmt.Errorf("unix listen %s: %w", s.socketPath, err)
		}
		os.Chmod(s.socketPath, 0660)
		s.listeners = append(s.listeners, ln)
		s.wg.Add(1)
		go s.acceptLoop(ln)
	}

	if s.tcpAddr != "" {
		ln, err := net.Listen("tcp", s.tcpAddr)
		if err != nil {
			return fmt.Errorf("tcp listen %s: %w", s.tcpAddr, err)
		}
		s.listeners = append(s.listeners, ln)
		s.wg.Add(1)
		go s.acceptLoop(ln)
	}

	return nil
}

// Stop shuts down the server and waits for in-flight connections to drain.
func (s *Server) Stop() {
	close(s.quit)
	for _, ln := range s.listeners {
		ln.Close()
	}
	s.wg.Wait()
	if s.socketPath != "" {
		os.Remove(s.socketPath)
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if backoff == 0 {
					backoff = 5 * time.Millisecond
				} else if backoff *= 2; backoff > time.Second {
					backoff = time.Second
				}
				if s.logger != nil {
					s.logger.Log("accept error: %v, retrying in %v", err, backoff)
				}
				time.Sleep(backoff)
				continue
			}
			return
		}
		backoff = 0
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		request, err := readRequest(reader)
		if err != nil {
			if err != io.EOF && s.logger != nil {
				s.logger.Log("livestatus read error: %v", err)
			}
			return
		}
		if strings.TrimSpace(request) == "" {
			return
		}

		q, err := ParseQuery(request)
		if err != nil {
			writeError(conn, nil, fmt.Sprintf("invalid query: %v", err))
			return
		}

		if s.logger != nil {
			s.logger.LogVerbose(logging.VerboseLivestatus, "LIVESTATUS: GET %s (columns=%d) from %s",
				q.Table, len(q.RawColumns), conn.RemoteAddr())
		}

		table, ok := s.registry[q.Table]
		if !ok {
			writeError(conn, q, "unknown table: "+q.Table)
			if !q.KeepAlive {
				return
			}
			continue
		}

		response := Execute(context.Background(), q, table, s.triggers, s.logger)
		conn.Write([]byte(response))

		if !q.KeepAlive {
			return
		}
	}
}

// readRequest reads one request: every line up to (and consuming) the
// first blank line, which terminates an LQL request on the wire.
func readRequest(reader *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if len(lines) > 0 && err == io.EOF {
				lines = append(lines, line)
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func writeError(conn net.Conn, q *Query, msg string) {
	if q != nil && q.ResponseHeader == "fixed16" {
		header := fmt.Sprintf("%3d %11d\n", 400, len(msg)+1)
		conn.Write([]byte(header))
	}
	conn.Write([]byte(msg + "\n"))
}
