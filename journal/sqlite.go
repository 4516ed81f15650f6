package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLite opens (creating if needed) the database file at path.
func NewSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// One writer at a time; concurrent connections only buy SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLStore{db: db, dialect: dialectSQLite}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
