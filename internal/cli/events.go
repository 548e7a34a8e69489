package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/encounterlog/internal/display"
)

func newEventsCmd() *cobra.Command {
	var (
		jsonOutput bool
		count      int
	)

	cmd := &cobra.Command{
		Use:   "events [id]",
		Short: "Stream SSE events from the server",
		Long: `Connect to an SSE endpoint and stream events in real-time.

Without an id the encounter list stream is used. With an id, the stream of
that encounter is used.

Events include:
  - connected: Stream opened
  - encounter-saved: An encounter was ingested (list stream)
  - roster-update: The encounter's roster changed (encounter stream)
  - favorite-changed: An encounter was (un)marked as favorite
  - encounter-deleted: An encounter was deleted

Press Ctrl+C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/events"
			if len(args) == 1 {
				id, err := parseEncounterID(args[0])
				if err != nil {
					return err
				}
				path = fmt.Sprintf("/encounters/%d/events", id)
			}
			return streamEvents(cmd.Context(), cmd.OutOrStdout(), path, jsonOutput || cfg.Output == "json", count)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many events, not counting connected (0 streams until interrupted)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, path string, jsonOutput bool, count int) error {
	// SSE is on the web router, not the API router
	url := strings.TrimSuffix(cfg.ServerURL, "/") + path

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintf(w, "Connected to %s\n", path)
	}

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string
	seen := 0

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent != "" {
				printEvent(w, currentEvent, strings.Join(dataLines, "\n"), jsonOutput)
				if currentEvent != "connected" {
					seen++
				}
			}
			currentEvent = ""
			dataLines = nil
			if count > 0 && seen >= count {
				return nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil {
			if !jsonOutput {
				_, _ = fmt.Fprintln(w, "\nDisconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		})
		_, _ = fmt.Fprintln(w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	// Remove newlines for cleaner display
	displayData := strings.ReplaceAll(data, "\n", " ")
	_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, display.TruncateString(displayData, 100))
}
