package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/san-kum/sway/internal/bridge"
)

const writeTimeout = 5 * time.Second

type actionFunc func(s *session, req Request) (any, error)

// Server exposes a bridge.Host on a Unix socket. Each connection gets
// its own event subscriptions, released when it closes.
type Server struct {
	socketPath string
	host       bridge.Host
	handlers   map[string]actionFunc
	logger     *slog.Logger

	active sync.WaitGroup
}

func NewServer(socketPath string, host bridge.Host, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		socketPath: socketPath,
		host:       host,
		handlers:   make(map[string]actionFunc),
		logger:     logger.With("component", "wire"),
	}
	s.handle(ActionSliderLookup, s.sliderLookup)
	s.handle(ActionSliderGet, s.sliderGet)
	s.handle(ActionSliderSetScaled, s.sliderSetScaled)
	s.handle(ActionSliderSetNorm, s.sliderSetNormalised)
	s.handle(ActionSliderDrag, s.sliderDrag)
	s.handle(ActionSliderProps, s.sliderProps)
	s.handle(ActionToggleLookup, s.toggleLookup)
	s.handle(ActionToggleGet, s.toggleGet)
	s.handle(ActionToggleSet, s.toggleSet)
	s.handle(ActionToggleProps, s.toggleProps)
	s.handle(ActionEmit, s.emit)
	s.handle(ActionSubscribe, s.subscribe)
	s.handle(ActionUnsubscribe, s.unsubscribe)
	return s
}

func (s *Server) handle(action string, fn actionFunc) {
	if _, exists := s.handlers[action]; exists {
		panic(fmt.Sprintf("wire.Server: duplicate handler for action %q", action))
	}
	s.handlers[action] = fn
}

// Serve accepts connections until ctx is cancelled, then waits for open
// connections to finish. A stale socket file is removed first and the
// socket is removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale socket %s: %w", s.socketPath, err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	defer func() {
		listener.Close()
		os.Remove(s.socketPath)
	}()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("host server listening", "path", s.socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.active.Add(1)
		go func() {
			defer s.active.Done()
			s.ServeConn(ctx, conn)
		}()
	}

	s.active.Wait()
	return nil
}

// ServeConn runs the protocol on one connection until the peer hangs up
// or ctx is cancelled.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	sess := &session{
		server: s,
		conn:   conn,
		enc:    newEncoder(conn),
		subs:   make(map[string]bridge.ListenerID),
	}
	defer sess.close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	s.logger.Debug("client connected")
	dec := newDecoder(conn)
	for {
		var raw cbor.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				s.logger.Debug("read failed", "error", err)
			}
			return
		}
		var req Request
		if err := unmarshal(raw, &req); err != nil {
			sess.write(Message{Error: fmt.Sprintf("invalid request: %v", err)})
			continue
		}
		sess.write(s.dispatch(sess, req))
	}
}

func (s *Server) dispatch(sess *session, req Request) (msg Message) {
	msg.ID = req.ID

	fn, ok := s.handlers[req.Action]
	if !ok {
		msg.Error = fmt.Sprintf("unknown action %q", req.Action)
		return msg
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("host panicked", "action", req.Action, "param", req.Param, "panic", r)
			msg.OK = false
			msg.Data = nil
			msg.Error = fmt.Sprintf("host panic: %v", r)
		}
	}()

	result, err := fn(sess, req)
	if err != nil {
		s.logger.Debug("action failed", "action", req.Action, "param", req.Param, "error", err)
		msg.Error = err.Error()
		return msg
	}
	if result != nil {
		data, err := marshal(result)
		if err != nil {
			msg.Error = fmt.Sprintf("internal: marshaling response: %v", err)
			return msg
		}
		msg.Data = data
	}
	msg.OK = true
	return msg
}

type session struct {
	server *Server
	conn   net.Conn

	writeMu sync.Mutex
	enc     *cbor.Encoder

	mu   sync.Mutex
	subs map[string]bridge.ListenerID
}

func (s *session) write(m Message) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.enc.Encode(m); err != nil {
		s.server.logger.Debug("write failed", "error", err)
	}
}

func (s *session) close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	if b := s.server.host.Backend(); b != nil {
		for event, id := range subs {
			b.RemoveEventListener(event, id)
		}
	}
	s.conn.Close()
	s.server.logger.Debug("client disconnected")
}

func (s *Server) slider(id string) (bridge.SliderState, error) {
	st, err := s.host.SliderState(id)
	if err == nil && st == nil {
		err = fmt.Errorf("no slider state for %s", id)
	}
	return st, err
}

func (s *Server) toggle(id string) (bridge.ToggleState, error) {
	st, err := s.host.ToggleState(id)
	if err == nil && st == nil {
		err = fmt.Errorf("no toggle state for %s", id)
	}
	return st, err
}

func (s *Server) sliderLookup(_ *session, req Request) (any, error) {
	_, err := s.slider(req.Param)
	return nil, err
}

func (s *Server) sliderGet(_ *session, req Request) (any, error) {
	st, err := s.slider(req.Param)
	if err != nil {
		return nil, err
	}
	if req.Flag {
		return st.NormalisedValue()
	}
	return st.ScaledValue()
}

func (s *Server) sliderSetScaled(_ *session, req Request) (any, error) {
	st, err := s.slider(req.Param)
	if err != nil {
		return nil, err
	}
	return nil, st.SetScaledValue(req.Value)
}

func (s *Server) sliderSetNormalised(_ *session, req Request) (any, error) {
	st, err := s.slider(req.Param)
	if err != nil {
		return nil, err
	}
	return nil, st.SetNormalisedValue(req.Value)
}

func (s *Server) sliderDrag(_ *session, req Request) (any, error) {
	st, err := s.slider(req.Param)
	if err != nil {
		return nil, err
	}
	if req.Flag {
		return nil, st.DragStarted()
	}
	return nil, st.DragEnded()
}

func (s *Server) sliderProps(_ *session, req Request) (any, error) {
	st, err := s.slider(req.Param)
	if err != nil {
		return nil, err
	}
	return st.Properties()
}

func (s *Server) toggleLookup(_ *session, req Request) (any, error) {
	_, err := s.toggle(req.Param)
	return nil, err
}

func (s *Server) toggleGet(_ *session, req Request) (any, error) {
	st, err := s.toggle(req.Param)
	if err != nil {
		return nil, err
	}
	return st.Value()
}

func (s *Server) toggleSet(_ *session, req Request) (any, error) {
	st, err := s.toggle(req.Param)
	if err != nil {
		return nil, err
	}
	return nil, st.SetValue(req.Flag)
}

func (s *Server) toggleProps(_ *session, req Request) (any, error) {
	st, err := s.toggle(req.Param)
	if err != nil {
		return nil, err
	}
	return st.Properties()
}

func (s *Server) backend() (bridge.Backend, error) {
	b := s.host.Backend()
	if b == nil {
		return nil, errors.New("host has no event backend")
	}
	return b, nil
}

func (s *Server) emit(_ *session, req Request) (any, error) {
	b, err := s.backend()
	if err != nil {
		return nil, err
	}
	return nil, b.EmitEvent(req.Event, req.Payload)
}

// subscribe forwards a host event to this connection. Repeated
// subscriptions to one event share a single host listener.
func (s *Server) subscribe(sess *session, req Request) (any, error) {
	b, err := s.backend()
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	_, exists := sess.subs[req.Event]
	sess.mu.Unlock()
	if exists {
		return nil, nil
	}

	event := req.Event
	id, err := b.AddEventListener(event, func(payload any) {
		sess.write(Message{Event: event, Payload: payload})
	})
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.subs == nil {
		// connection closed while registering
		b.RemoveEventListener(event, id)
		return nil, ErrClosed
	}
	sess.subs[event] = id
	return nil, nil
}

func (s *Server) unsubscribe(sess *session, req Request) (any, error) {
	sess.mu.Lock()
	id, exists := sess.subs[req.Event]
	delete(sess.subs, req.Event)
	sess.mu.Unlock()
	if !exists {
		return nil, nil
	}

	b, err := s.backend()
	if err != nil {
		return nil, err
	}
	return nil, b.RemoveEventListener(req.Event, id)
}
