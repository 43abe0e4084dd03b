package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS skips (
    user_id              TEXT NOT NULL,
    date                 TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS payments (
    seq                  INTEGER PRIMARY KEY AUTOINCREMENT,
    id                   TEXT NOT NULL UNIQUE,
    user_id              TEXT NOT NULL,
    amount               TEXT,
    paid_at              TEXT NOT NULL,
    note                 TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id, seq);
`

const pgSchemaSQL = `
CREATE TABLE IF NOT EXISTS skips (
    user_id              TEXT NOT NULL,
    date                 TEXT NOT NULL,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS payments (
    seq                  BIGSERIAL PRIMARY KEY,
    id                   TEXT NOT NULL UNIQUE,
    user_id              TEXT NOT NULL,
    amount               NUMERIC,
    paid_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
    note                 TEXT NOT NULL DEFAULT ''
);

-- Older databases used NUMERIC(14, 2), which rounded sub-cent amounts.
ALTER TABLE payments ALTER COLUMN amount TYPE NUMERIC;

CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id, seq);
`
