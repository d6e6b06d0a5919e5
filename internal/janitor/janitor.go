package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Expirer closes sessions that were idle since cutoff.
type Expirer interface {
	ExpireIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// Janitor periodically drops abandoned sessions from memory.
type Janitor struct {
	cron    *cron.Cron
	expirer Expirer
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time

	mtx     sync.Mutex
	started bool
}

func New(expirer Expirer, schedule string, ttl time.Duration, log zerolog.Logger) (*Janitor, error) {
	j := &Janitor{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		expirer: expirer,
		ttl:     ttl,
		log:     log.With().Str("component", "janitor").Logger(),
		now:     time.Now,
	}

	if _, err := j.cron.AddFunc(schedule, func() {
		_, _ = j.Sweep(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) Start() {
	j.mtx.Lock()
	defer j.mtx.Unlock()

	if j.started {
		return
	}
	j.started = true
	j.cron.Start()
	j.log.Info().Dur("idle_ttl", j.ttl).Msg("janitor started")
}

// Stop waits for a running sweep or until ctx is done.
func (j *Janitor) Stop(ctx context.Context) {
	j.mtx.Lock()
	defer j.mtx.Unlock()

	if !j.started {
		return
	}
	j.started = false

	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
	j.log.Info().Msg("janitor stopped")
}

// Sweep expires everything idle for longer than the ttl.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.ttl)
	removed, err := j.expirer.ExpireIdle(ctx, cutoff)
	if err != nil {
		j.log.Error().Err(err).Int("removed", removed).Msg("sweep failed")
		return removed, err
	}
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("idle sessions expired")
	}
	return removed, nil
}
