package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/debtgauge/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "accounts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertAndGet(t *testing.T) {
	s := openTemp(t)

	pad := 12.0
	if err := s.UpsertAccount(model.Account{Name: "visa", Balance: 50, Credit: 100, Padding: &pad}); err != nil {
		t.Fatalf("UpsertAccount: %v", err)
	}

	got, err := s.GetAccount("visa")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance != 50 || got.Credit != 100 {
		t.Errorf("account = %+v", got)
	}
	if got.Padding == nil || *got.Padding != 12 {
		t.Errorf("Padding = %v, want 12", got.Padding)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	s := openTemp(t)
	if _, err := s.GetAccount("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteAccount("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete err = %v, want ErrNotFound", err)
	}
}

func TestHistoryRecordsOnlyChanges(t *testing.T) {
	s := openTemp(t)

	steps := []model.Account{
		{Name: "card", Balance: 10, Credit: 100},
		{Name: "card", Balance: 10, Credit: 100}, // unchanged
		{Name: "card", Balance: 40, Credit: 100},
		{Name: "card", Balance: 40, Credit: 200},
	}
	for _, a := range steps {
		if err := s.UpsertAccount(a); err != nil {
			t.Fatalf("UpsertAccount: %v", err)
		}
	}

	hist, err := s.History("card", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("history len = %d, want 3", len(hist))
	}
	if hist[0].Credit != 200 || hist[1].Delta() != 30 {
		t.Errorf("history = %+v", hist)
	}

	limited, err := s.History("card", 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited len = %d, want 1", len(limited))
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTemp(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.UpsertAccount(model.Account{Name: name, Credit: 1}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListAccounts()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Name != "alpha" || list[2].Name != "zeta" {
		t.Fatalf("list = %+v", list)
	}

	if err := s.DeleteAccount("mid"); err != nil {
		t.Fatal(err)
	}
	list, _ = s.ListAccounts()
	if len(list) != 2 {
		t.Errorf("list len = %d after delete, want 2", len(list))
	}
}

func TestRevisionIncreases(t *testing.T) {
	s := openTemp(t)
	r0, err := s.Revision()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertAccount(model.Account{Name: "a", Balance: 1, Credit: 2}); err != nil {
		t.Fatal(err)
	}
	r1, _ := s.Revision()
	if r1 <= r0 {
		t.Errorf("revision %d -> %d, want increase", r0, r1)
	}
}

func TestUpsertRequiresName(t *testing.T) {
	s := openTemp(t)
	if err := s.UpsertAccount(model.Account{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}
