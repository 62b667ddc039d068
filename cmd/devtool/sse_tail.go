package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

type SSETailCommand struct{}

func (c *SSETailCommand) Name() string {
	return "sse-tail"
}

func (c *SSETailCommand) Description() string {
	return "Tail the SSE event stream for a profile"
}

// Run subscribes to a profile's event stream and prints frames until
// interrupted. Handy for watching level-ups and milestone unlocks while
// clicking through the API by hand.
func (c *SSETailCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("profile id required: devtool sse-tail <profile> [type,type,...]")
	}
	profile := args[0]

	apiURL := getEnv("API_URL", "http://localhost:8080")
	apiKey := os.Getenv("API_KEY")

	url := fmt.Sprintf("%s/api/v1/events/%s", strings.TrimRight(apiURL, "/"), profile)
	if len(args) > 1 {
		url += "?types=" + args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	// No client timeout: the stream stays open until Ctrl-C.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	PrintHeader(fmt.Sprintf("Tailing events for %s (Ctrl-C to stop)", profile))

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			PrintInfo("%s", strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			fmt.Printf("    %s\n", strings.TrimPrefix(line, "data: "))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream closed: %w", err)
	}

	fmt.Println("")
	PrintSuccess("Stream closed")
	return nil
}
