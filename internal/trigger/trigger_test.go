package trigger

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestManual_SubscribeFireUnsubscribe(t *testing.T) {
	var m Manual
	var a, b atomic.Int32

	unsubA := m.Subscribe(func() { a.Add(1) })
	unsubB := m.Subscribe(func() { b.Add(1) })
	m.Fire()

	unsubA()
	unsubA() // idempotent
	m.Fire()

	if a.Load() != 1 || b.Load() != 2 {
		t.Errorf("a=%d b=%d, want 1 2", a.Load(), b.Load())
	}
	if m.Subscribers() != 1 {
		t.Errorf("Subscribers = %d, want 1", m.Subscribers())
	}
	unsubB()
	if m.Subscribers() != 0 {
		t.Errorf("Subscribers = %d, want 0", m.Subscribers())
	}
}

func TestFile_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.db")
	if err := os.WriteFile(path, []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := NewFile(path, nil)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer func() { _ = f.Close() }()

	hit := make(chan struct{}, 8)
	unsub := f.Subscribe(func() {
		select {
		case hit <- struct{}{}:
		default:
		}
	})
	defer unsub()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path+"-wal", []byte("wal"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-hit:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification for sidecar write")
	}
}

func TestFile_MatchesPath(t *testing.T) {
	f := &File{path: "/data/accounts.db"}
	tests := map[string]bool{
		"/data/accounts.db":         true,
		"/data/accounts.db-wal":     true,
		"/data/accounts.db-journal": true,
		"/data/accounts.db-shm":     false,
		"/data/accounts.dbx":        false,
		"/data/other.db":            false,
	}
	for name, want := range tests {
		if got := f.matchName(name); got != want {
			t.Errorf("matchName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTerminalWidth_Fallback(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if got := TerminalWidth(int(r.Fd()), 77); got != 77 {
		t.Errorf("TerminalWidth(pipe) = %d, want fallback 77", got)
	}
}
