package journal

const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	ticket TEXT NOT NULL,
	item TEXT NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	open_time DATETIME NOT NULL,
	open_price REAL NOT NULL,
	close_time DATETIME NOT NULL,
	close_price REAL NOT NULL,
	sl REAL NOT NULL DEFAULT 0,
	tp REAL NOT NULL DEFAULT 0,
	commission REAL NOT NULL DEFAULT 0,
	swap REAL NOT NULL DEFAULT 0,
	profit REAL NOT NULL,
	pips REAL NOT NULL DEFAULT 0,
	comment TEXT NOT NULL DEFAULT '',
	created DATETIME NOT NULL,
	UNIQUE (user_id, dataset, ticket)
);

CREATE INDEX IF NOT EXISTS idx_trades_close ON trades(user_id, dataset, close_time);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	ticket TEXT NOT NULL,
	time DATETIME NOT NULL,
	amount REAL NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	created DATETIME NOT NULL,
	UNIQUE (user_id, dataset, ticket)
);
`

const PostgresSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	ticket TEXT NOT NULL,
	item TEXT NOT NULL,
	side TEXT NOT NULL,
	size DOUBLE PRECISION NOT NULL,
	open_time TIMESTAMPTZ NOT NULL,
	open_price DOUBLE PRECISION NOT NULL,
	close_time TIMESTAMPTZ NOT NULL,
	close_price DOUBLE PRECISION NOT NULL,
	sl DOUBLE PRECISION NOT NULL DEFAULT 0,
	tp DOUBLE PRECISION NOT NULL DEFAULT 0,
	commission DOUBLE PRECISION NOT NULL DEFAULT 0,
	swap DOUBLE PRECISION NOT NULL DEFAULT 0,
	profit DOUBLE PRECISION NOT NULL,
	pips DOUBLE PRECISION NOT NULL DEFAULT 0,
	comment TEXT NOT NULL DEFAULT '',
	created TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, dataset, ticket)
);

CREATE INDEX IF NOT EXISTS idx_trades_close ON trades(user_id, dataset, close_time);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	dataset TEXT NOT NULL,
	ticket TEXT NOT NULL,
	time TIMESTAMPTZ NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	created TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, dataset, ticket)
);
`
