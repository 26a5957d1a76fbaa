package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

// ExportedMessage is one line of a JSONL message export.
type ExportedMessage struct {
	ID            string    `json:"id"`
	CompanionID   string    `json:"companionId"`
	CompanionName string    `json:"companionName"`
	UserID        string    `json:"userId"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BackfillOptions struct {
	// Label written as modelName on every document
	ModelName  string
	PauseEvery int
	Pause      time.Duration
	// Progress is logged every ProgressEvery stored messages
	ProgressEvery int
}

func DefaultBackfillOptions() BackfillOptions {
	return BackfillOptions{
		ModelName:     "chatgpt",
		PauseEvery:    50,
		Pause:         2 * time.Second,
		ProgressEvery: 10,
	}
}

type BackfillReport struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
	Users     int
}

// Backfill re-embeds an export of past messages into long-term memory, one
// message at a time, pausing periodically to stay under embedding rate limits.
// Malformed lines and failed stores are counted, not fatal.
func Backfill(ctx context.Context, recall *Recall, src io.Reader, opts BackfillOptions) (BackfillReport, error) {
	logger := log.FromCtx(ctx)
	var report BackfillReport
	users := make(map[string]struct{})

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report.Total++

		var msg ExportedMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			logger.Warn().Err(err).Int("line", report.Total).Msg("skipping malformed message")
			report.Failed++
			continue
		}
		if msg.UserID == "" || msg.CompanionID == "" || strings.TrimSpace(msg.Content) == "" {
			report.Skipped++
			continue
		}
		users[msg.UserID] = struct{}{}

		key := core.CompanionKey{
			CompanionName: msg.CompanionID,
			ModelName:     opts.ModelName,
			UserID:        msg.UserID,
		}
		if !recall.Store(ctx, formatExported(msg), key) {
			logger.Error().Str("message", msg.ID).Msg("failed to process message")
			report.Failed++
			continue
		}

		report.Processed++
		if opts.ProgressEvery > 0 && report.Processed%opts.ProgressEvery == 0 {
			logger.Info().Int("processed", report.Processed).Msg("backfill progress")
		}

		if opts.PauseEvery > 0 && opts.Pause > 0 && report.Processed%opts.PauseEvery == 0 {
			logger.Debug().Dur("pause", opts.Pause).Msg("pausing for rate limits")
			select {
			case <-ctx.Done():
				report.Users = len(users)
				return report, ctx.Err()
			case <-time.After(opts.Pause):
			}
		}
	}

	report.Users = len(users)
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("read export: %w", err)
	}
	return report, nil
}

func formatExported(msg ExportedMessage) string {
	speaker := msg.CompanionName
	if msg.Role == string(core.RoleUser) {
		speaker = "Human"
	}
	if speaker == "" {
		speaker = "Companion"
	}
	return speaker + ": " + msg.Content
}
