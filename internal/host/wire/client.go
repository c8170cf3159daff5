package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/san-kum/sway/internal/bridge"
)

const DefaultCallTimeout = 250 * time.Millisecond

// eventBuffer is how many pushed events may wait for delivery before
// new ones are dropped.
const eventBuffer = 64

type ClientOptions struct {
	// CallTimeout bounds every round trip.
	CallTimeout time.Duration
	Logger      *slog.Logger
}

// Client is a bridge.Host backed by a Server on the other end of conn.
// Event listeners run on a dedicated goroutine, one event at a time.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	log     *slog.Logger

	writeMu sync.Mutex
	enc     *cbor.Encoder

	mu        sync.Mutex
	nextID    uint64
	pending   map[uint64]chan Message
	listeners map[string]map[bridge.ListenerID]func(any)
	nextLID   bridge.ListenerID
	closed    bool

	events chan Message
	done   chan struct{}
	once   sync.Once
}

// Dial connects to a host server listening on socketPath.
func Dial(ctx context.Context, socketPath string, opts ClientOptions) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dialing host at %s: %w", socketPath, err)
	}
	return NewClient(conn, opts), nil
}

// NewClient runs the client side of the protocol on an established
// connection.
func NewClient(conn net.Conn, opts ClientOptions) *Client {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := &Client{
		conn:      conn,
		timeout:   opts.CallTimeout,
		log:       opts.Logger.With("component", "wire"),
		enc:       newEncoder(conn),
		pending:   make(map[uint64]chan Message),
		listeners: make(map[string]map[bridge.ListenerID]func(any)),
		events:    make(chan Message, eventBuffer),
		done:      make(chan struct{}),
	}
	go c.read()
	go c.deliver()
	return c
}

// Close hangs up. Outstanding and later calls fail with ErrClosed.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.shutdown()
	return err
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} { return c.done }

// Locator yields the client while the connection is up and nil after,
// so an adapter sees the host disappear when the server goes away.
func (c *Client) Locator() bridge.Locator {
	return func() bridge.Host {
		select {
		case <-c.done:
			return nil
		default:
			return c
		}
	}
}

func (c *Client) shutdown() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Client) read() {
	defer c.shutdown()
	dec := newDecoder(c.conn)
	for {
		var m Message
		if err := dec.Decode(&m); err != nil {
			if !errors.Is(err, net.ErrClosed) {
				c.log.Debug("connection lost", "error", err)
			}
			return
		}

		if m.ID == 0 {
			if m.Event == "" {
				c.log.Debug("server error", "error", m.Error)
				continue
			}
			select {
			case c.events <- m:
			default:
				c.log.Debug("event dropped", "event", m.Event)
			}
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[m.ID]
		delete(c.pending, m.ID)
		c.mu.Unlock()
		if ok {
			ch <- m
		}
	}
}

func (c *Client) deliver() {
	for {
		select {
		case <-c.done:
			return
		case m := <-c.events:
			c.mu.Lock()
			fns := make([]func(any), 0, len(c.listeners[m.Event]))
			for _, fn := range c.listeners[m.Event] {
				fns = append(fns, fn)
			}
			c.mu.Unlock()
			for _, fn := range fns {
				fn(m.Payload)
			}
		}
	}
}

// call performs one round trip and decodes the reply data into out when
// out is non-nil.
func (c *Client) call(req Request, out any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.nextID++
	req.ID = c.nextID
	ch := make(chan Message, 1)
	c.pending[req.ID] = ch
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	err := c.enc.Encode(req)
	c.writeMu.Unlock()
	if err != nil {
		forget()
		return fmt.Errorf("%s: %w", req.Action, errors.Join(ErrClosed, err))
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case m, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if !m.OK {
			return &RemoteError{Action: req.Action, Message: m.Error}
		}
		if out != nil && len(m.Data) > 0 {
			if err := unmarshal(m.Data, out); err != nil {
				return fmt.Errorf("%s: decoding reply: %w", req.Action, err)
			}
		}
		return nil
	case <-timer.C:
		forget()
		return fmt.Errorf("%s %s: %w", req.Action, req.Param, ErrTimeout)
	}
}

func (c *Client) SliderState(id string) (bridge.SliderState, error) {
	if err := c.call(Request{Action: ActionSliderLookup, Param: id}, nil); err != nil {
		return nil, err
	}
	return &remoteSlider{c: c, id: id}, nil
}

func (c *Client) ToggleState(id string) (bridge.ToggleState, error) {
	if err := c.call(Request{Action: ActionToggleLookup, Param: id}, nil); err != nil {
		return nil, err
	}
	return &remoteToggle{c: c, id: id}, nil
}

func (c *Client) Backend() bridge.Backend { return remoteBackend{c} }

type remoteSlider struct {
	c  *Client
	id string
}

func (s *remoteSlider) get(normalised bool) (float64, error) {
	var v float64
	err := s.c.call(Request{Action: ActionSliderGet, Param: s.id, Flag: normalised}, &v)
	return v, err
}

func (s *remoteSlider) ScaledValue() (float64, error) { return s.get(false) }

func (s *remoteSlider) NormalisedValue() (float64, error) { return s.get(true) }

func (s *remoteSlider) SetScaledValue(v float64) error {
	return s.c.call(Request{Action: ActionSliderSetScaled, Param: s.id, Value: v}, nil)
}

func (s *remoteSlider) SetNormalisedValue(v float64) error {
	return s.c.call(Request{Action: ActionSliderSetNorm, Param: s.id, Value: v}, nil)
}

func (s *remoteSlider) DragStarted() error {
	return s.c.call(Request{Action: ActionSliderDrag, Param: s.id, Flag: true}, nil)
}

func (s *remoteSlider) DragEnded() error {
	return s.c.call(Request{Action: ActionSliderDrag, Param: s.id}, nil)
}

func (s *remoteSlider) Properties() (map[string]any, error) {
	var props map[string]any
	err := s.c.call(Request{Action: ActionSliderProps, Param: s.id}, &props)
	return props, err
}

type remoteToggle struct {
	c  *Client
	id string
}

func (t *remoteToggle) Value() (bool, error) {
	var v bool
	err := t.c.call(Request{Action: ActionToggleGet, Param: t.id}, &v)
	return v, err
}

func (t *remoteToggle) SetValue(v bool) error {
	return t.c.call(Request{Action: ActionToggleSet, Param: t.id, Flag: v}, nil)
}

func (t *remoteToggle) Properties() (map[string]any, error) {
	var props map[string]any
	err := t.c.call(Request{Action: ActionToggleProps, Param: t.id}, &props)
	return props, err
}

// remoteBackend keeps listeners locally and holds one server-side
// subscription per event name.
type remoteBackend struct {
	c *Client
}

func (b remoteBackend) AddEventListener(event string, fn func(any)) (bridge.ListenerID, error) {
	c := b.c
	c.mu.Lock()
	first := len(c.listeners[event]) == 0
	c.mu.Unlock()

	if first {
		if err := c.call(Request{Action: ActionSubscribe, Event: event}, nil); err != nil {
			return 0, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners[event] == nil {
		c.listeners[event] = make(map[bridge.ListenerID]func(any))
	}
	c.nextLID++
	c.listeners[event][c.nextLID] = fn
	return c.nextLID, nil
}

func (b remoteBackend) RemoveEventListener(event string, id bridge.ListenerID) error {
	c := b.c
	c.mu.Lock()
	fns := c.listeners[event]
	if _, ok := fns[id]; !ok {
		c.mu.Unlock()
		return nil
	}
	delete(fns, id)
	last := len(fns) == 0
	if last {
		delete(c.listeners, event)
	}
	c.mu.Unlock()

	if last {
		return c.call(Request{Action: ActionUnsubscribe, Event: event}, nil)
	}
	return nil
}

func (b remoteBackend) EmitEvent(event string, payload any) error {
	return b.c.call(Request{Action: ActionEmit, Event: event, Payload: payload}, nil)
}
