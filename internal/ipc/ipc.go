// Package ipc is the local control channel between shopvox-ctl and the
// daemon: one JSON request and one JSON response per unix-socket connection.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"sync"
	"time"
)

const (
	CmdListen = "listen"
	CmdRun    = "run"
)

type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

type Response struct {
	Level string `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

type HandlerFunc func(ctx context.Context, msg ControlMessage) Response

type Server struct {
	ln   net.Listener
	path string
	wg   sync.WaitGroup
}

// Listen binds path, replacing a stale socket left by a previous run.
func Listen(path string) (*Server, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return &Server{ln: ln, path: path}, nil
}

func (s *Server) Path() string { return s.path }

// Serve accepts connections until ctx is done, then waits for in-flight
// requests and removes the socket.
func (s *Server) Serve(ctx context.Context, handler HandlerFunc) error {
	stop := context.AfterFunc(ctx, func() { s.ln.Close() })
	defer stop()
	defer os.Remove(s.path)
	defer s.wg.Wait()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			log.Warn("Accept failed", "err", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			handleConn(ctx, conn, handler)
		}()
	}
}

func (s *Server) Close() error {
	return s.ln.Close()
}

func handleConn(ctx context.Context, conn net.Conn, handler HandlerFunc) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Warn("Bad control message", "err", err)
		json.NewEncoder(conn).Encode(Response{Error: "bad control message"})
		return
	}

	log.Debug("Control message", "cmd", msg.Cmd, "text", msg.Text)
	if err := json.NewEncoder(conn).Encode(handler(ctx, msg)); err != nil {
		log.Warn("Failed to write control response", "err", err)
	}
}

// Send delivers msg to the daemon at path and waits up to timeout for its
// response. A response carrying Error is returned as an error.
func Send(path string, msg ControlMessage, timeout time.Duration) (Response, error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return Response{}, fmt.Errorf("send: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != "" {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}
