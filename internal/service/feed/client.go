package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"BotPull/internal/domain/models"
	drepo "BotPull/internal/domain/repository"
	applogger "BotPull/pkg/logger"

	"github.com/gorilla/websocket"
)

// ConnState is the stream client's lifecycle state.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Client implements a StateStream backed by the bot's dashboard WebSocket.
// A single run goroutine owns the whole connect/read/retry cycle, so at most
// one reconnect wait is ever pending. The last decoded snapshot is retained
// across drops so consumers don't flicker to empty on a transient failure.
type Client struct {
	url          string
	retryDelay   time.Duration
	pingInterval time.Duration
	dialer       *websocket.Dialer

	logger  *applogger.Logger
	metrics drepo.Metrics
	notify  func()

	mu    sync.RWMutex
	state ConnState
	last  *models.Snapshot

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

type Option func(*Client)

// WithRetryDelay sets the fixed wait between reconnect attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

// WithPingInterval sets the keepalive ping cadence; 0 disables pings.
func WithPingInterval(d time.Duration) Option {
	return func(c *Client) { c.pingInterval = d }
}

// WithHandshakeTimeout bounds the WebSocket dial.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.dialer.HandshakeTimeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithNotify registers a callback invoked after each accepted snapshot.
func WithNotify(fn func()) Option {
	return func(c *Client) { c.notify = fn }
}

// SetNotify registers the notification callback after construction.
// It must be called before Start.
func (c *Client) SetNotify(fn func()) { c.notify = fn }

// New creates a stream client for the given endpoint. Bare host:port
// addresses are expanded to ws://host:port/ws.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		url:        normalizeEndpoint(endpoint),
		retryDelay: 3 * time.Second,
		dialer:     &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		metrics:    drepo.NopMetrics{},
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func normalizeEndpoint(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "ws://"), strings.HasPrefix(endpoint, "wss://"):
		return endpoint
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	default:
		return "ws://" + endpoint + "/ws"
	}
}

// Start launches the connection lifecycle. It returns immediately; the first
// dial happens in the background so a dead endpoint never blocks startup.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("feed: already started")
	}
	c.started = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(runCtx)
	return nil
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(StateDisconnected)

	for {
		c.setState(StateConnecting)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.setState(StateDisconnected)
			if ctx.Err() != nil {
				return
			}
			if c.logger != nil {
				c.logger.Debug("feed: dial failed", applogger.String("url", c.url), applogger.Error(err))
			}
			c.metrics.RecordReconnect()
			if !c.waitRetry(ctx) {
				return
			}
			continue
		}

		c.setState(StateConnected)
		c.metrics.RecordConnected(true)
		if c.logger != nil {
			c.logger.Info("feed: connected", applogger.String("url", c.url))
		}

		c.readLoop(ctx, conn)
		_ = conn.Close()

		c.setState(StateDisconnected)
		c.metrics.RecordConnected(false)
		if ctx.Err() != nil {
			return
		}
		if c.logger != nil {
			c.logger.Warn("feed: connection lost, retrying", applogger.Duration("delay", c.retryDelay))
		}
		c.metrics.RecordReconnect()
		if !c.waitRetry(ctx) {
			return
		}
	}
}

// waitRetry blocks for the retry delay; false means teardown won.
func (c *Client) waitRetry(ctx context.Context) bool {
	t := time.NewTimer(c.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// readLoop consumes frames until the connection errors or ctx is cancelled.
// Each decoded state record fully replaces the held snapshot; undecodable
// frames are dropped without touching state.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock the blocking read on teardown.
	go func() {
		<-connCtx.Done()
		_ = conn.Close()
	}()

	if c.pingInterval > 0 {
		go func() {
			ticker := time.NewTicker(c.pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-connCtx.Done():
					return
				case <-ticker.C:
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}()
	}

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return
		}
		start := time.Now()
		snap, err := models.DecodeSnapshot(b)
		if err != nil {
			if !errors.Is(err, models.ErrNotState) {
				c.metrics.RecordDecodeFailure()
				if c.logger != nil {
					c.logger.Debug("feed: dropped undecodable frame", applogger.Error(err))
				}
			}
			continue
		}
		c.setSnapshot(snap)
		c.metrics.RecordLatency("decode", time.Since(start).Seconds())
		c.metrics.RecordSnapshot("live")
		c.metrics.RecordBankroll(snap.Config.Bankroll)
		c.metrics.RecordOraclePrice(snap.Oracle.Price)
		if c.notify != nil {
			c.notify()
		}
	}
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) setSnapshot(s *models.Snapshot) {
	c.mu.Lock()
	c.last = s
	c.mu.Unlock()
}

// Snapshot returns the most recently decoded snapshot, nil before the first
// message. The value survives disconnects.
func (c *Client) Snapshot() *models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// IsConnected reports whether a live connection is currently up.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateConnected
}

// State returns the current lifecycle state.
func (c *Client) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Close tears the client down on any path: pending retry waits are cancelled,
// an in-flight dial is aborted, and an open connection is closed via the
// read-loop watchdog. Blocks until the run goroutine exits.
func (c *Client) Close() error {
	c.mu.Lock()
	started := c.started
	cancel := c.cancel
	c.mu.Unlock()
	if !started {
		return nil
	}
	cancel()
	<-c.done
	return nil
}
