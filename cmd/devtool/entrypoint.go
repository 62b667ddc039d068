package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/osse101/GameDevClicker_Go/internal/config"
)

type EntrypointCommand struct{}

func (c *EntrypointCommand) Name() string {
	return "entrypoint"
}

func (c *EntrypointCommand) Description() string {
	return "Container entrypoint (wait-for-db, backup, migrate, exec)"
}

func (c *EntrypointCommand) Run(args []string) error {
	// Containers boot through here, so a drifted .env is caught up front
	// instead of surfacing as a confusing failure mid-boot.
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("environment validation failed: %w", err)
	}
	for _, w := range warnings {
		PrintWarning("%s", w)
	}

	// The file backend needs no database, so the container can boot
	// straight into the app.
	if getEnv("SAVE_BACKEND", "file") != "postgres" {
		PrintInfo("SAVE_BACKEND is not postgres, skipping database setup")
		return c.execApp(args)
	}

	c.setupEnv()

	if err := c.waitForDB(); err != nil {
		return err
	}

	c.backupIfNeeded()

	if err := c.migrateWithRetries(); err != nil {
		return err
	}

	return c.execApp(args)
}

func (c *EntrypointCommand) setupEnv() {
	// Inside compose the database host is the service name, not localhost
	if os.Getenv("DB_HOST") == "" {
		_ = os.Setenv("DB_HOST", "db")
	}
}

func (c *EntrypointCommand) waitForDB() error {
	waitCmd := &WaitForDBCommand{}
	if err := waitCmd.Run(nil); err != nil {
		return fmt.Errorf("wait-for-db failed: %w", err)
	}
	return nil
}

// backupIfNeeded dumps the database before migrations run. Production always
// backs up; elsewhere CREATE_BACKUP=true opts in.
func (c *EntrypointCommand) backupIfNeeded() {
	if os.Getenv("ENVIRONMENT") != "production" && os.Getenv("CREATE_BACKUP") != "true" {
		return
	}

	PrintHeader("Creating pre-migration backup...")

	if _, err := exec.LookPath("pg_dump"); err != nil {
		PrintWarning("pg_dump not found, skipping backup")
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	backupFile := fmt.Sprintf("/tmp/backup_%s.sql", timestamp)

	dbUser := getEnv("DB_USER", "postgres")
	dbName := getEnv("DB_NAME", "gamedevclicker")
	dbHost := getEnv("DB_HOST", "db")

	f, err := os.Create(backupFile)
	if err != nil {
		PrintWarning("Could not create backup file: %v", err)
		return
	}
	defer f.Close()

	cmd := exec.Command("pg_dump", "-h", dbHost, "-U", dbUser, "-d", dbName)
	cmd.Stdout = f
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		PrintWarning("Backup failed: %v", err)
		// A failed backup should not block the boot, migrations are
		// still transactional
	} else {
		PrintSuccess("Backup created: %s", backupFile)
	}
}

func (c *EntrypointCommand) migrateWithRetries() error {
	PrintHeader("Running migrations...")
	migrateCmd := &MigrateCommand{}

	const maxAttempts = 3
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = migrateCmd.Run([]string{"up"}); err == nil {
			PrintSuccess("Migrations completed successfully")
			return nil
		}
		PrintWarning("Migration attempt %d failed: %v", attempt, err)
		if attempt < maxAttempts {
			PrintInfo("Retrying in 5 seconds...")
			time.Sleep(5 * time.Second)
		}
	}
	return fmt.Errorf("migrations failed after %d attempts: %w", maxAttempts, err)
}

// execApp replaces this process with the real application so it becomes PID 1
// and receives container signals directly.
func (c *EntrypointCommand) execApp(args []string) error {
	execArgs := args
	if len(execArgs) > 0 && execArgs[0] == "--" {
		execArgs = execArgs[1:]
	}

	if len(execArgs) == 0 {
		return fmt.Errorf("no command to execute")
	}

	PrintHeader("Starting application...")
	cmdPath, err := exec.LookPath(execArgs[0])
	if err != nil {
		return fmt.Errorf("executable not found: %w", err)
	}

	if err := syscall.Exec(cmdPath, execArgs, os.Environ()); err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}

	// Exec only returns on error.
	return nil
}
