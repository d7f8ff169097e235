package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id                   TEXT PRIMARY KEY,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name                 TEXT NOT NULL,
    type                 TEXT NOT NULL,
    balance              TEXT NOT NULL,
    is_default           INTEGER NOT NULL DEFAULT 0,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    account_id           TEXT,
    date                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    type                 TEXT NOT NULL,
    category             TEXT,
    description          TEXT
);

CREATE TABLE IF NOT EXISTS budgets (
    user_id              TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    amount               TEXT NOT NULL,
    is_locked            INTEGER NOT NULL DEFAULT 0,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id              TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    risk_tolerance       TEXT NOT NULL,
    spending_style       TEXT NOT NULL,
    regret_threshold     TEXT NOT NULL,
    emotional_triggers   TEXT NOT NULL DEFAULT '[]',
    happy_purchase       TEXT,
    regret_purchase      TEXT,
    financial_fear       TEXT,
    saving_goal          TEXT,
    money_feeling        TEXT,
    approved_decisions   INTEGER NOT NULL DEFAULT 0,
    rejected_decisions   INTEGER NOT NULL DEFAULT 0,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS insights (
    id                   TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    type                 TEXT NOT NULL,
    category             TEXT NOT NULL,
    title                TEXT NOT NULL,
    message              TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS locks (
    lock_key             TEXT PRIMARY KEY,
    token                TEXT NOT NULL,
    expires_ns           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date);
CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);
CREATE INDEX IF NOT EXISTS idx_insights_user ON insights(user_id, created_at);
`
