package main

import (
	"fmt"
	"strings"
	"time"
)

type CheckDBCommand struct{}

func (c *CheckDBCommand) Name() string {
	return "check-db"
}

func (c *CheckDBCommand) Description() string {
	return "Check if database is running, starting it via docker compose if not"
}

func (c *CheckDBCommand) Run(args []string) error {
	PrintHeader("Checking Docker database status...")

	if err := runCommand("docker", "compose", "version"); err != nil {
		return fmt.Errorf("docker compose not found. Please install Docker Compose")
	}

	if c.dbServiceRunning() {
		PrintSuccess("Database is already running")
		PrintSuccess("Database check complete")
		return nil
	}

	PrintInfo("Starting database...")
	if err := runCommandVerbose("docker", "compose", "up", "-d", "db"); err != nil {
		return fmt.Errorf("error starting database: %v", err)
	}

	if err := c.waitReady(); err != nil {
		return err
	}

	PrintSuccess("Database check complete")
	return nil
}

func (c *CheckDBCommand) dbServiceRunning() bool {
	out, err := getCommandOutput("docker", "compose", "ps", "db")
	if err != nil {
		return false
	}
	status := strings.ToLower(out)
	return strings.Contains(status, "up") || strings.Contains(status, "running")
}

// waitReady polls pg_isready inside the container until the server accepts
// connections. Container "up" alone is not enough; postgres takes a few
// seconds to finish initdb on a fresh volume.
func (c *CheckDBCommand) waitReady() error {
	PrintInfo("Waiting for database to be ready...")
	time.Sleep(3 * time.Second)

	dbUser := getEnv("DB_USER", "postgres")
	dbName := getEnv("DB_NAME", "gamedevclicker")

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := runCommand("docker", "compose", "exec", "-T", "db", "pg_isready", "-U", dbUser, "-d", dbName); err == nil {
			PrintSuccess("Database is ready")
			return nil
		}

		if attempt == maxAttempts {
			break
		}
		fmt.Printf("Waiting for database... (%d/%d)\n", attempt, maxAttempts)
		time.Sleep(1 * time.Second)
	}

	PrintError("Database failed to start after %d seconds", maxAttempts)
	_ = runCommandVerbose("docker", "compose", "logs", "db")
	return fmt.Errorf("database failed to start")
}
