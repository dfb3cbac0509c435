package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func snapshotFrame(cycle int64, bankroll float64) string {
	return fmt.Sprintf(`{"type":"state","cycle":%d,"config":{"bankroll":%g}}`, cycle, bankroll)
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"localhost:8765":         "ws://localhost:8765/ws",
		"ws://localhost:8765/ws": "ws://localhost:8765/ws",
		"http://host:1/ws":       "ws://host:1/ws",
		"https://host:1/ws":      "wss://host:1/ws",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientDecodesAndRetainsSnapshots(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(snapshotFrame(1, 1000)))
		// garbage and non-state frames must be dropped silently
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{{{not json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pong"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(snapshotFrame(2, 1040)))
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(wsURL(srv), WithRetryDelay(20*time.Millisecond))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	eventually(t, 2*time.Second, func() bool {
		s := c.Snapshot()
		return s != nil && s.Cycle == 2
	})
	if !c.IsConnected() {
		t.Fatalf("expected connected")
	}
	if got := c.Snapshot().Config.Bankroll; got != 1040 {
		t.Fatalf("bankroll = %v", got)
	}
}

type recordingMetrics struct {
	mu             sync.Mutex
	snapshots      map[string]int
	decodeFailures int
	latencyOps     []string
	latencySecs    []float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{snapshots: make(map[string]int)}
}

func (m *recordingMetrics) RecordSnapshot(source string) {
	m.mu.Lock()
	m.snapshots[source]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordDecodeFailure() {
	m.mu.Lock()
	m.decodeFailures++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordReconnect()          {}
func (m *recordingMetrics) RecordConnected(bool)      {}
func (m *recordingMetrics) RecordBankroll(float64)    {}
func (m *recordingMetrics) RecordOraclePrice(float64) {}

func (m *recordingMetrics) RecordLatency(op string, seconds float64) {
	m.mu.Lock()
	m.latencyOps = append(m.latencyOps, op)
	m.latencySecs = append(m.latencySecs, seconds)
	m.mu.Unlock()
}

func (m *recordingMetrics) latencyCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.latencyOps {
		if o == op {
			n++
		}
	}
	return n
}

func TestClientRecordsDecodeMetrics(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not even json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(snapshotFrame(1, 1000)))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(snapshotFrame(2, 1010)))
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	rec := newRecordingMetrics()
	c := New(wsURL(srv), WithRetryDelay(20*time.Millisecond), WithMetrics(rec))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	eventually(t, 2*time.Second, func() bool {
		s := c.Snapshot()
		return s != nil && s.Cycle == 2
	})

	rec.mu.Lock()
	snapshots, failures := rec.snapshots["live"], rec.decodeFailures
	secs := append([]float64(nil), rec.latencySecs...)
	rec.mu.Unlock()

	if snapshots != 2 {
		t.Fatalf("live snapshots = %d, want 2", snapshots)
	}
	if failures != 1 {
		t.Fatalf("decode failures = %d, want 1", failures)
	}
	// One latency sample per accepted frame, none for dropped ones.
	if got := rec.latencyCount("decode"); got != 2 {
		t.Fatalf("decode latency samples = %d, want 2", got)
	}
	for _, s := range secs {
		if s < 0 {
			t.Fatalf("negative latency sample %v", s)
		}
	}
}

func TestClientRetainsSnapshotAcrossDrop(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := conns.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if n == 1 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(snapshotFrame(7, 900)))
			time.Sleep(50 * time.Millisecond)
			conn.Close() // drop the first connection
			return
		}
		// later connections stay up but send nothing
		time.Sleep(2 * time.Second)
		conn.Close()
	}))
	defer srv.Close()

	c := New(wsURL(srv), WithRetryDelay(30*time.Millisecond))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	eventually(t, 2*time.Second, func() bool {
		s := c.Snapshot()
		return s != nil && s.Cycle == 7
	})
	// wait for the drop, then for the single scheduled reconnect
	eventually(t, 2*time.Second, func() bool { return conns.Load() >= 2 })
	eventually(t, 2*time.Second, func() bool { return c.IsConnected() })

	if s := c.Snapshot(); s == nil || s.Cycle != 7 {
		t.Fatalf("snapshot not retained across drop: %+v", s)
	}
}

func TestClientConnectivityFlagOnDeadEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := New(wsURL(srv), WithRetryDelay(20*time.Millisecond))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if c.IsConnected() {
		t.Fatalf("expected disconnected")
	}
	if c.Snapshot() != nil {
		t.Fatalf("expected nil snapshot")
	}
	// teardown while the retry timer is pending must not hang or leak
	done := make(chan struct{})
	go func() {
		_ = c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("close did not return while retrying")
	}
	if c.State() != StateDisconnected {
		t.Fatalf("state after close = %v", c.State())
	}
}

func TestClientNotifyCallback(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(snapshotFrame(1, 1000)))
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	var notified atomic.Int32
	c := New(wsURL(srv), WithNotify(func() { notified.Add(1) }))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()

	eventually(t, 2*time.Second, func() bool { return notified.Load() >= 1 })
}

func TestClientDoubleStart(t *testing.T) {
	c := New("localhost:1")
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Close()
	if err := c.Start(context.Background()); err == nil {
		t.Fatalf("expected error on second start")
	}
}
