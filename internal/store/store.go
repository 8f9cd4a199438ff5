// Package store provides a SQLite-backed store for gauge accounts.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/debtgauge/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

// Store provides SQLite-backed account persistence.
type Store struct {
	db   *sql.DB
	path string
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "debtgauge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "debtgauge")
}

// DefaultPath returns the full path to the accounts database.
func DefaultPath() string {
	return filepath.Join(DataDir(), "accounts.db")
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening accounts db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// UpsertAccount creates or updates an account. A history row is written
// whenever the balance or credit limit of an existing account changes.
func (s *Store) UpsertAccount(a model.Account) error {
	if a.Name == "" {
		return errors.New("account name is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now()
	}
	now := a.UpdatedAt.UTC().Format(time.RFC3339Nano)

	var oldBalance, oldCredit float64
	err = tx.QueryRow("SELECT balance, credit FROM accounts WHERE name = ?", a.Name).Scan(&oldBalance, &oldCredit)
	existed := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var padding sql.NullFloat64
	if a.Padding != nil {
		padding = sql.NullFloat64{Float64: *a.Padding, Valid: true}
	}

	_, err = tx.Exec(`INSERT INTO accounts (name, balance, credit, padding, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			balance = excluded.balance,
			credit = excluded.credit,
			padding = excluded.padding,
			updated_at = excluded.updated_at`,
		a.Name, a.Balance, a.Credit, padding, now,
	)
	if err != nil {
		return err
	}

	if !existed || oldBalance != a.Balance || oldCredit != a.Credit {
		_, err = tx.Exec(`INSERT INTO balance_history (account, old_balance, new_balance, credit, changed_at)
			VALUES (?, ?, ?, ?, ?)`, a.Name, oldBalance, a.Balance, a.Credit, now)
		if err != nil {
			return err
		}
	}

	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// GetAccount returns a single account.
func (s *Store) GetAccount(name string) (model.Account, error) {
	row := s.db.QueryRow("SELECT name, balance, credit, padding, updated_at FROM accounts WHERE name = ?", name)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return a, err
}

// ListAccounts returns all accounts ordered by name.
func (s *Store) ListAccounts() ([]model.Account, error) {
	rows, err := s.db.Query("SELECT name, balance, credit, padding, updated_at FROM accounts ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes an account and its history.
func (s *Store) DeleteAccount(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM accounts WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// History returns the most recent balance changes for an account, newest
// first. limit <= 0 returns everything.
func (s *Store) History(name string, limit int) ([]model.BalanceChange, error) {
	query := `SELECT account, old_balance, new_balance, credit, changed_at
		FROM balance_history WHERE account = ? ORDER BY id DESC`
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var changes []model.BalanceChange
	for rows.Next() {
		var c model.BalanceChange
		var at string
		if err := rows.Scan(&c.Account, &c.OldBalance, &c.NewBalance, &c.Credit, &at); err != nil {
			return nil, err
		}
		c.At, _ = time.Parse(time.RFC3339Nano, at)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// Revision returns a counter that increases on every write.
func (s *Store) Revision() (int64, error) {
	var rev int64
	err := s.db.QueryRow("SELECT value FROM revision WHERE id = 1").Scan(&rev)
	return rev, err
}

func bumpRevision(tx *sql.Tx) error {
	_, err := tx.Exec("UPDATE revision SET value = value + 1 WHERE id = 1")
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (model.Account, error) {
	var a model.Account
	var padding sql.NullFloat64
	var updated string
	if err := r.Scan(&a.Name, &a.Balance, &a.Credit, &padding, &updated); err != nil {
		return model.Account{}, err
	}
	if padding.Valid {
		p := padding.Float64
		a.Padding = &p
	}
	a.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return a, nil
}
