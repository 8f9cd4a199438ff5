package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/debtgauge/internal/gauge"
	"github.com/theirongolddev/debtgauge/internal/model"
)

type fakeSource struct {
	mu       sync.Mutex
	rev      int64
	accounts []model.Account
	err      error
}

func (f *fakeSource) ListAccounts() ([]model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Account(nil), f.accounts...), f.err
}

func (f *fakeSource) Revision() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rev, f.err
}

func (f *fakeSource) set(rev int64, accounts ...model.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rev = rev
	f.accounts = accounts
}

func newTestService(src Source) *Service {
	return New(Config{Width: 500, Padding: 20, Currency: "GBP", EventsBuffer: 10}, src, nil)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, &fakeSource{}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollPublishesOnlyOnRevisionChange(t *testing.T) {
	src := &fakeSource{}
	src.set(1, model.Account{Name: "visa", Balance: 50, Credit: 100})
	s := newTestService(src)

	s.pollOnce()
	s.pollOnce()
	src.set(2,
		model.Account{Name: "visa", Balance: 150, Credit: 100},
		model.Account{Name: "amex", Balance: -30, Credit: 100},
	)
	s.pollOnce()

	st := s.snapshotStatus()
	if st.PollCount != 3 {
		t.Errorf("PollCount = %d, want 3", st.PollCount)
	}
	if st.EventCount != 2 {
		t.Fatalf("EventCount = %d, want 2", st.EventCount)
	}

	s.mu.RLock()
	first, second := s.events[0], s.events[1]
	s.mu.RUnlock()

	if first.Type != EventSnapshot || second.Type != EventAccountsChanged {
		t.Errorf("event types = %q, %q", first.Type, second.Type)
	}
	if second.Snapshot.OverLimit != 1 || second.Snapshot.InCredit != 1 {
		t.Errorf("snapshot = %+v", second.Snapshot)
	}
	if second.Snapshot.TotalOwed != 150 {
		t.Errorf("TotalOwed = %v, want 150", second.Snapshot.TotalOwed)
	}
}

func TestPollRecordsErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("database is locked")}
	s := newTestService(src)
	s.pollOnce()

	st := s.snapshotStatus()
	if st.LastError != "database is locked" {
		t.Errorf("LastError = %q", st.LastError)
	}
	if st.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestHandleLayout(t *testing.T) {
	srv := httptest.NewServer(newTestService(&fakeSource{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/layout?balance=50&credit=100&width=500&padding=20")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Layout struct {
			Fifth       float64 `json:"fifth"`
			ActualLeft  float64 `json:"actual_left"`
			ActualWidth float64 `json:"actual_width"`
			Fill        string  `json:"fill"`
			Case        string  `json:"case"`
		} `json:"layout"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	l := body.Layout
	if l.Fifth != 92 || l.ActualLeft != 230 || l.ActualWidth != 138 {
		t.Errorf("layout = %+v", l)
	}
	if l.Fill != "amber" || l.Case != "in_range" {
		t.Errorf("fill/case = %s/%s", l.Fill, l.Case)
	}
}

func TestHandleLayoutRejectsBadInput(t *testing.T) {
	srv := httptest.NewServer(newTestService(&fakeSource{}).Handler())
	defer srv.Close()

	for _, q := range []string{
		"balance=abc",
		"credit=NaN",
		"balance=Inf",
		"width=0",
		"width=-5",
	} {
		resp, err := http.Get(srv.URL + "/v1/layout?" + q)
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestHandleSVG(t *testing.T) {
	srv := httptest.NewServer(newTestService(&fakeSource{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/gauge.svg?balance=90&credit=100")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	svg := string(data)
	for _, want := range []string{"<svg", gauge.FillRed.Hex(), "£90.00", "£100.00", "£0.00"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestNonFiniteLayoutIsUnprocessableOnBothEndpoints(t *testing.T) {
	srv := httptest.NewServer(newTestService(&fakeSource{}).Handler())
	defer srv.Close()

	for _, q := range []string{"balance=-10&credit=10", "balance=0&credit=-50"} {
		for _, path := range []string{"/v1/layout", "/v1/gauge.svg"} {
			resp, err := http.Get(srv.URL + path + "?" + q)
			if err != nil {
				t.Fatal(err)
			}
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("%s?%s: status = %d, want 422", path, q, resp.StatusCode)
			}
			if strings.Contains(string(body), "NaN") || strings.Contains(string(body), "<svg") {
				t.Errorf("%s?%s: body carries geometry: %q", path, q, body)
			}
		}
	}
}

func TestHandleAccountsWidth(t *testing.T) {
	src := &fakeSource{}
	src.set(1, model.Account{Name: "visa", Balance: 50, Credit: 100})
	s := newTestService(src)
	s.pollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/accounts?width=300")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var got []AccountLayout
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Account.Name != "visa" {
		t.Fatalf("accounts = %+v", got)
	}
	// (300 - 40) / 5 = 52
	if math.Abs(got[0].Layout.Fifth-52) > 1e-9 {
		t.Errorf("Fifth = %v, want 52", got[0].Layout.Fifth)
	}
}

func TestStreamSendsSnapshotThenChanges(t *testing.T) {
	src := &fakeSource{}
	src.set(1, model.Account{Name: "visa", Balance: 10, Credit: 100})
	s := newTestService(src)
	s.pollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	r := bufio.NewReader(resp.Body)
	nextEvent := func() string {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				t.Fatalf("read stream: %v", err)
			}
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
		}
	}

	if ev := nextEvent(); ev != EventSnapshot {
		t.Fatalf("first event = %q, want snapshot", ev)
	}

	// Wait for the subscription to register before changing the store.
	deadline := time.Now().Add(2 * time.Second)
	for s.snapshotStatus().SubscriberCount == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	src.set(2, model.Account{Name: "visa", Balance: 95, Credit: 100})
	s.pollOnce()

	if ev := nextEvent(); ev != EventAccountsChanged {
		t.Fatalf("second event = %q, want accounts_changed", ev)
	}
}
