package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    name                 TEXT PRIMARY KEY,
    balance              REAL NOT NULL DEFAULT 0,
    credit               REAL NOT NULL DEFAULT 0,
    padding              REAL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS balance_history (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    account              TEXT NOT NULL REFERENCES accounts(name) ON DELETE CASCADE,
    old_balance          REAL NOT NULL,
    new_balance          REAL NOT NULL,
    credit               REAL NOT NULL,
    changed_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revision (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    value                INTEGER NOT NULL
);

INSERT OR IGNORE INTO revision (id, value) VALUES (1, 0);

CREATE INDEX IF NOT EXISTS idx_history_account ON balance_history(account, changed_at);
`
