package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS budget_slices (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    position    INTEGER NOT NULL,
    title       TEXT NOT NULL UNIQUE,
    budget      REAL NOT NULL CHECK (budget >= 0),
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_budget_slices_position ON budget_slices(position);
`
