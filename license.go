package tokensync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hellenic-development/token-sync/pkg/config"
)

// LicenseSession is a granted license lease. A nil session means the run
// proceeds in degraded analysis-only mode.
type LicenseSession struct {
	ID        string
	ExpiresAt time.Time
}

// LicenseClient talks to the license server. Acquire returning a nil session
// without an error means the license is unavailable and the pipeline degrades
// to analysis-only mode instead of aborting.
type LicenseClient interface {
	Acquire(ctx context.Context, cfg config.LicenseConfig) (*LicenseSession, error)
	Heartbeat(ctx context.Context, session *LicenseSession) error
	Release(session *LicenseSession) error
}

// StaticLicense grants a local session unconditionally. It is the default
// client when no license server is configured: licensing is effectively
// disabled and the pipeline runs with full capabilities.
type StaticLicense struct{}

func (StaticLicense) Acquire(_ context.Context, _ config.LicenseConfig) (*LicenseSession, error) {
	return &LicenseSession{
		ID:        uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}, nil
}

func (StaticLicense) Heartbeat(_ context.Context, _ *LicenseSession) error { return nil }

func (StaticLicense) Release(_ *LicenseSession) error { return nil }

// heartbeatRunner keeps a license session alive from a background goroutine.
// stop is safe to call any number of times and blocks until the goroutine has
// exited, so teardown is guaranteed regardless of how the run terminates.
type heartbeatRunner struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startHeartbeat(ctx context.Context, client LicenseClient, session *LicenseSession, interval time.Duration, warnf func(string, ...any)) *heartbeatRunner {
	hbCtx, cancel := context.WithCancel(ctx)
	r := &heartbeatRunner{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-hbCtx.Done():
				return
			case <-ticker.C:
				if err := client.Heartbeat(hbCtx, session); err != nil && hbCtx.Err() == nil {
					warnf("License heartbeat failed: %v", err)
				}
			}
		}
	}()

	return r
}

func (r *heartbeatRunner) stop() {
	r.once.Do(func() {
		r.cancel()
		<-r.done
	})
}
