package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Check a running server's health and readiness"
}

func (c *HealthCheckCommand) Run(args []string) error {
	base := getEnv("API_URL", "http://localhost:8080")
	if len(args) > 0 {
		base = args[0]
	}
	base = strings.TrimRight(base, "/")

	PrintHeader(fmt.Sprintf("Health Check (%s)", base))

	if err := probe(base + "/healthz"); err != nil {
		PrintError("Liveness check failed: %v", err)
		return err
	}
	PrintSuccess("Liveness OK")

	// Readiness tells us whether balance tables and the save backend are
	// actually usable, not just that the process is up.
	start := time.Now()
	if err := probe(base + "/readyz"); err != nil {
		PrintError("Readiness check failed: %v", err)
		return err
	}
	duration := time.Since(start)

	if duration > 1*time.Second {
		PrintWarning("Readiness OK but slow (%v)", duration)
	} else {
		PrintSuccess("Readiness OK (response time: %v)", duration)
	}

	return nil
}

func probe(url string) error {
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
