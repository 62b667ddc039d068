package main

import (
	"fmt"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Manage database migrations (up, down, status, create)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, down, status, create")
	}
	if args[0] == "create" {
		return c.create(args[1:])
	}
	return c.goose(args)
}

// create scaffolds a new migration file. No database connection is needed.
func (c *MigrateCommand) create(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("migration name required for create")
	}
	migrationType := "sql"
	if len(args) > 1 {
		migrationType = args[1]
	}
	return c.runGoose("create", args[0], migrationType)
}

// goose forwards a subcommand like "up" or "status" to goose with the
// connection string prepended. Extra args pass through, so "up-to 3" works.
func (c *MigrateCommand) goose(args []string) error {
	gooseArgs := append([]string{"postgres", dbURL()}, args...)
	return c.runGoose(gooseArgs...)
}

// runGoose runs goose through the module so nobody needs a separate install.
func (c *MigrateCommand) runGoose(args ...string) error {
	base := []string{"run", "github.com/pressly/goose/v3/cmd/goose", "-dir", "migrations"}
	return runCommandVerbose("go", append(base, args...)...)
}
