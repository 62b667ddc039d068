package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for database to be ready (with retries)"
}

func (c *WaitForDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database...")

	if err := pingDB(30, 2*time.Second); err != nil {
		return err
	}
	PrintSuccess("Database is ready")
	return nil
}

// pingDB opens and pings the configured database, retrying up to maxRetries
// times. Shared by wait-for-db, doctor and the container entrypoint.
func pingDB(maxRetries int, retryInterval time.Duration) error {
	url := dbURL()
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open("pgx", url)
		if err == nil {
			err = db.Ping()
			db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err

		if i < maxRetries-1 {
			fmt.Printf("Database not ready (%d/%d): %v\n", i+1, maxRetries, err)
			time.Sleep(retryInterval)
		}
	}
	return fmt.Errorf("database failed to become ready after %d attempts: %w", maxRetries, lastErr)
}
