// Package daemon provides the long-running gauge service: it watches the
// account store and serves gauge layouts over HTTP and SSE.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/model"
)

// Source is the account store as seen by the daemon.
type Source interface {
	ListAccounts() ([]model.Account, error)
	Revision() (int64, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Padding      float64 // default gauge padding
	Width        int     // default track width for account layouts
	Currency     string
}

// AccountLayout is a stored account with its computed gauge.
type AccountLayout struct {
	Account model.Account `json:"account"`
	Layout  gauge.Output  `json:"layout"`
}

// Snapshot summarises the accounts at one revision.
type Snapshot struct {
	At          time.Time `json:"at"`
	Revision    int64     `json:"revision"`
	Accounts    int       `json:"accounts"`
	TotalOwed   float64   `json:"total_owed"`
	TotalCredit float64   `json:"total_credit"`
	OverLimit   int       `json:"over_limit"`
	InCredit    int       `json:"in_credit"`
}

// Event is emitted whenever the account store changes.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Snapshot  Snapshot        `json:"snapshot"`
	Accounts  []AccountLayout `json:"accounts,omitempty"`
}

// Event types.
const (
	EventSnapshot        = "snapshot"
	EventAccountsChanged = "accounts_changed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Width           int       `json:"width"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	src    Source
	logger *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	layouts     []AccountLayout
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading accounts from src.
func New(cfg Config, src Source, logger *slog.Logger) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Width <= 0 {
		cfg.Width = 500
	}
	if cfg.Padding < 0 {
		cfg.Padding = gauge.DefaultPadding
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		logger:    logger.With("component", "daemon"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/layout", s.handleLayout)
	mux.HandleFunc("/v1/gauge.svg", s.handleSVG)
	mux.HandleFunc("/v1/accounts", s.handleAccounts)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("daemon listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the service on an existing listener until ctx is canceled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("listening", "addr", ln.Addr().String(), "interval", s.cfg.Interval)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.logger.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce publishes an event when the store revision moved since the last
// poll.
func (s *Service) pollOnce() {
	now := time.Now()

	rev, err := s.src.Revision()
	if err == nil {
		s.mu.RLock()
		unchanged := s.hasSnapshot && s.snapshot.Revision == rev
		s.mu.RUnlock()
		if unchanged {
			s.recordPoll(now, "")
			return
		}
	}

	var accounts []model.Account
	if err == nil {
		accounts, err = s.src.ListAccounts()
	}
	if err != nil {
		s.recordPoll(now, err.Error())
		s.logger.Warn("poll failed", "err", err)
		return
	}

	layouts := s.layoutAll(accounts, float64(s.cfg.Width))
	snap := summarize(layouts, rev, now)

	s.mu.Lock()
	evType := EventAccountsChanged
	if !s.hasSnapshot {
		evType = EventSnapshot
	}
	s.hasSnapshot = true
	s.snapshot = snap
	s.layouts = layouts
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      evType,
		Timestamp: now,
		Snapshot:  snap,
		Accounts:  layouts,
	}
	s.mu.Unlock()

	s.logger.Debug("accounts changed", "revision", rev, "accounts", len(accounts))
	s.publishEvent(ev)
}

func (s *Service) recordPoll(at time.Time, errMsg string) {
	s.mu.Lock()
	s.lastPollAt = at
	s.pollCount++
	s.lastError = errMsg
	s.mu.Unlock()
}

func (s *Service) layoutAll(accounts []model.Account, width float64) []AccountLayout {
	out := make([]AccountLayout, len(accounts))
	for i, a := range accounts {
		in := a.Attributes(s.cfg.Padding).Input(width)
		out[i] = AccountLayout{Account: a, Layout: gauge.ComputeLayout(in)}
	}
	return out
}

func summarize(layouts []AccountLayout, rev int64, at time.Time) Snapshot {
	snap := Snapshot{At: at, Revision: rev, Accounts: len(layouts)}
	for _, l := range layouts {
		if l.Account.Balance > 0 {
			snap.TotalOwed += l.Account.Balance
		}
		snap.TotalCredit += l.Account.Credit
		switch l.Layout.Case {
		case gauge.CaseOverLimit:
			snap.OverLimit++
		case gauge.CaseInCredit:
			snap.InCredit++
		}
	}
	return snap
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Width:           s.cfg.Width,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleLayout(w http.ResponseWriter, r *http.Request) {
	in, err := s.parseInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out := gauge.ComputeLayout(in)
	if !finiteLayout(out) {
		http.Error(w, errUnrepresentable.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, struct {
		Input  gauge.Input  `json:"input"`
		Layout gauge.Output `json:"layout"`
	}{in, out})
}

func (s *Service) handleSVG(w http.ResponseWriter, r *http.Request) {
	in, err := s.parseInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out := gauge.ComputeLayout(in)
	if !finiteLayout(out) {
		http.Error(w, errUnrepresentable.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(renderSVG(in, out, s.cfg.Currency))
}

var errUnrepresentable = errors.New("layout not representable: non-finite geometry (is the credit limit negative?)")

// finiteLayout reports whether every position in out is a real number.
// Degenerate inputs such as a negative credit limit can divide by zero.
func finiteLayout(out gauge.Output) bool {
	for _, v := range []float64{out.Fifth, out.Span, out.ZeroLeft, out.MaxLeft, out.ActualLeft, out.ActualWidth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *Service) handleAccounts(w http.ResponseWriter, r *http.Request) {
	width := float64(s.cfg.Width)
	if raw := r.URL.Query().Get("width"); raw != "" {
		v, err := parseWidth(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		width = v
	}

	s.mu.RLock()
	accounts := make([]model.Account, len(s.layouts))
	for i, l := range s.layouts {
		accounts[i] = l.Account
	}
	s.mu.RUnlock()

	writeJSON(w, s.layoutAll(accounts, width))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	s.mu.RLock()
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshot,
		Accounts:  s.layouts,
	}
	s.mu.RUnlock()
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

// parseInput reads balance, credit, padding and width from the query string.
// Missing values fall back to the gauge defaults; non-finite values are
// rejected since they cannot be encoded.
func (s *Service) parseInput(r *http.Request) (gauge.Input, error) {
	q := r.URL.Query()

	attrs := gauge.Attributes{Padding: s.cfg.Padding}
	for _, name := range gauge.ObservedAttributes {
		if !q.Has(name) {
			continue
		}
		if err := attrs.Set(name, q.Get(name)); err != nil {
			return gauge.Input{}, err
		}
	}
	for name, v := range map[string]float64{"balance": attrs.Balance, "credit": attrs.Credit, "padding": attrs.Padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return gauge.Input{}, fmt.Errorf("%s must be a finite number", name)
		}
	}

	width := float64(s.cfg.Width)
	if raw := q.Get("width"); raw != "" {
		v, err := parseWidth(raw)
		if err != nil {
			return gauge.Input{}, err
		}
		width = v
	}
	return attrs.Input(width), nil
}

func parseWidth(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > 100000 {
		return 0, fmt.Errorf("width must be a positive number, got %q", raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Degenerate inputs (e.g. a negative credit limit) can yield NaN.
		http.Error(w, "layout not representable: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(data, '\n'))
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
