package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open constructs the sqlite handle for the given file path and verifies
// connectivity. The handle is passed into repositories explicitly; nothing
// in this package holds global state.
func Open(path string) (*sql.DB, error) {
	// busy_timeout keeps concurrent writers from failing immediately,
	// foreign_keys enforces the recipes.user_id reference.
	dsn := "file:" + path + "?_busy_timeout=5000&_foreign_keys=on"

	sqldb, err := sql.Open("sqlite3", dsn)

	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; keep the pool small.
	sqldb.SetMaxOpenConns(4)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	err = sqldb.PingContext(ctx)

	if err != nil {
		sqldb.Close()
		return nil, err
	}

	return sqldb, nil
}
