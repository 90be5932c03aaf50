package core

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	quotaResetKey = "ai_quota_reset_at"
	quotaCountKey = "ai_quota_count"
)

// KV is the durable string store holding the quota keys. store.SQLiteStore
// and store.RedisKV both satisfy it.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// QuotaState is the persisted usage of the external AI endpoint.
type QuotaState struct {
	Count    int       `json:"count"`
	ResetAt  time.Time `json:"reset_at,omitempty"`
	Exceeded bool      `json:"exceeded"`
	Limit    int       `json:"limit"`
}

// QuotaTracker enforces the daily request limit. Within one process the
// read-modify-write is serialized; across processes sharing a store the limit
// is soft and may be overshot by concurrent writers.
type QuotaTracker struct {
	kv     KV
	limit  int
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu sync.Mutex
}

func NewQuotaTracker(kv KV, limit int, window time.Duration, now func() time.Time, logger zerolog.Logger) *QuotaTracker {
	if now == nil {
		now = time.Now
	}
	return &QuotaTracker{
		kv:     kv,
		limit:  limit,
		window: window,
		now:    now,
		logger: logger.With().Str("component", "quota").Logger(),
	}
}

// State re-reads storage, clearing it first if the reset deadline passed.
func (q *QuotaTracker) State(ctx context.Context) (QuotaState, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sync(ctx)
}

// Exceeded reports whether the AI call must be skipped. Storage errors are
// logged and treated as "not exceeded" so chat keeps working.
func (q *QuotaTracker) Exceeded(ctx context.Context) bool {
	st, err := q.State(ctx)
	if err != nil {
		q.logger.Warn().Err(err).Msg("Quota state unavailable; allowing AI call")
		return false
	}
	return st.Exceeded
}

// Record counts one successful AI call. The first call of a window starts the
// reset deadline.
func (q *QuotaTracker) Record(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	st, err := q.sync(ctx)
	if err != nil {
		return err
	}
	if st.ResetAt.IsZero() {
		if err := q.kv.Set(ctx, quotaResetKey, q.now().Add(q.window).UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return q.kv.Set(ctx, quotaCountKey, strconv.Itoa(st.Count+1))
}

// MarkExceeded records that the endpoint itself reported the quota as spent.
func (q *QuotaTracker) MarkExceeded(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	resetAt := q.now().Add(q.window).UTC()
	if err := q.kv.Set(ctx, quotaResetKey, resetAt.Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := q.kv.Set(ctx, quotaCountKey, strconv.Itoa(q.limit)); err != nil {
		return err
	}
	q.logger.Warn().Time("reset_at", resetAt).Msg("AI quota exceeded")
	return nil
}

// TimeUntilReset is zero when the quota is not exceeded.
func (q *QuotaTracker) TimeUntilReset(ctx context.Context) time.Duration {
	st, err := q.State(ctx)
	if err != nil || !st.Exceeded {
		return 0
	}
	return st.ResetAt.Sub(q.now())
}

func (q *QuotaTracker) sync(ctx context.Context) (QuotaState, error) {
	st := QuotaState{Limit: q.limit}

	resetRaw, hasReset, err := q.kv.Get(ctx, quotaResetKey)
	if err != nil {
		return st, fmt.Errorf("read quota reset: %w", err)
	}
	countRaw, hasCount, err := q.kv.Get(ctx, quotaCountKey)
	if err != nil {
		return st, fmt.Errorf("read quota count: %w", err)
	}
	if !hasReset && !hasCount {
		return st, nil
	}

	if hasReset {
		st.ResetAt, err = time.Parse(time.RFC3339Nano, resetRaw)
		if err != nil {
			q.logger.Warn().Str("value", resetRaw).Msg("Discarding unreadable quota reset time")
			return q.clear(ctx, st)
		}
		if !q.now().Before(st.ResetAt) {
			return q.clear(ctx, st)
		}
	}

	if hasCount {
		st.Count, err = strconv.Atoi(countRaw)
		if err != nil {
			q.logger.Warn().Str("value", countRaw).Msg("Discarding unreadable quota count")
			return q.clear(ctx, st)
		}
	}

	st.Exceeded = st.Count >= q.limit && !st.ResetAt.IsZero() && q.now().Before(st.ResetAt)
	return st, nil
}

func (q *QuotaTracker) clear(ctx context.Context, st QuotaState) (QuotaState, error) {
	if err := q.kv.Delete(ctx, quotaResetKey, quotaCountKey); err != nil {
		return st, fmt.Errorf("clear quota: %w", err)
	}
	q.logger.Debug().Msg("AI quota window reset")
	return QuotaState{Limit: q.limit}, nil
}
