package memory

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/telmii/telmii/internal/core"
	"github.com/telmii/telmii/pkg/log"
)

const (
	DefaultWindow = 30

	// memberSep separates the ordering id from the line text inside a sorted set member
	memberSep = "\x1f"
)

// History is the short-term transcript, one sorted set per CompanionKey.
// Lines are scored by write time in milliseconds.
type History struct {
	store core.SortedSet
	now   func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

func NewHistory(store core.SortedSet) *History {
	return &History{
		store:   store,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// PartitionKey maps a CompanionKey to its sorted set name. Components are
// escaped so distinct keys never collide.
func PartitionKey(key core.CompanionKey) string {
	return "history:" + strings.Join([]string{
		url.QueryEscape(key.CompanionName),
		url.QueryEscape(key.ModelName),
		url.QueryEscape(key.UserID),
	}, "|")
}

// Write appends one line. An invalid key is logged and ignored.
func (h *History) Write(ctx context.Context, text string, key core.CompanionKey) (bool, error) {
	if !key.Valid() {
		log.FromCtx(ctx).Warn().Str("companion", key.CompanionName).Msg("companion key set incorrectly, history write skipped")
		return false, nil
	}

	now := h.now()
	member := h.member(now, text)
	if err := h.store.Add(ctx, PartitionKey(key), float64(now.UnixMilli()), member); err != nil {
		return false, fmt.Errorf("write history: %w", err)
	}
	return true, nil
}

// ReadRecent returns the last limit lines in chronological order joined by "\n".
func (h *History) ReadRecent(ctx context.Context, key core.CompanionKey, limit int) (string, error) {
	if !key.Valid() {
		log.FromCtx(ctx).Warn().Str("companion", key.CompanionName).Msg("companion key set incorrectly, history read skipped")
		return "", nil
	}
	if limit <= 0 {
		limit = DefaultWindow
	}

	members, err := h.store.RangeByScore(ctx, PartitionKey(key), math.Inf(-1), math.Inf(1))
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}

	if len(members) > limit {
		members = members[len(members)-limit:]
	}

	lines := make([]string, len(members))
	for i, m := range members {
		lines[i] = decodeMember(m)
	}
	return strings.Join(lines, "\n"), nil
}

// SeedIfEmpty splits seed on delimiter and stores the parts with scores 0..n-1,
// unless the partition already exists. Two first turns racing here can both
// seed; the duplicate lines are tolerated.
func (h *History) SeedIfEmpty(ctx context.Context, seed, delimiter string, key core.CompanionKey) error {
	logger := log.FromCtx(ctx)
	if !key.Valid() {
		logger.Warn().Str("companion", key.CompanionName).Msg("companion key set incorrectly, seed skipped")
		return nil
	}
	if delimiter == "" {
		delimiter = "\n"
	}

	partition := PartitionKey(key)
	exists, err := h.store.Exists(ctx, partition)
	if err != nil {
		return fmt.Errorf("seed history: %w", err)
	}
	if exists {
		logger.Debug().Str("companion", key.CompanionName).Msg("user already has chat history")
		return nil
	}

	now := h.now()
	for i, line := range strings.Split(seed, delimiter) {
		if err := h.store.Add(ctx, partition, float64(i), h.member(now, line)); err != nil {
			return fmt.Errorf("seed history line %d: %w", i, err)
		}
	}
	return nil
}

// Clear drops the whole partition.
func (h *History) Clear(ctx context.Context, key core.CompanionKey) error {
	if !key.Valid() {
		log.FromCtx(ctx).Warn().Str("companion", key.CompanionName).Msg("companion key set incorrectly, clear skipped")
		return nil
	}
	if err := h.store.Delete(ctx, PartitionKey(key)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (h *History) member(at time.Time, text string) string {
	h.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(at), h.entropy)
	h.mu.Unlock()
	return id.String() + memberSep + text
}

func decodeMember(m string) string {
	if _, text, ok := strings.Cut(m, memberSep); ok {
		return text
	}
	// Lines written without an id prefix
	return m
}
