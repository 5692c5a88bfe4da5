package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    item_limit INTEGER NOT NULL,
    row_count INTEGER NOT NULL,
    items TEXT NOT NULL,
    support_count INTEGER NOT NULL,
    rule_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS supports (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    itemset TEXT NOT NULL,
    size INTEGER NOT NULL,
    support REAL NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS confidences (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    antecedent TEXT NOT NULL,
    consequent TEXT NOT NULL,
    antecedent_support REAL NOT NULL,
    consequent_support REAL NOT NULL,
    union_support REAL NOT NULL,
    confidence REAL NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_conf_value ON confidences(run_id, confidence);
`
