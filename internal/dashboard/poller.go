package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller calls refresh every interval until stopped. A slow cycle does not delay the next one.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller builds a stopped poller.
func NewPoller(interval time.Duration, refresh func(context.Context) error, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{interval: interval, refresh: refresh, logger: logger}
}

// Start launches the ticker loop. Calling Start on a running poller is a no-op.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.wg.Add(1)
				go func() {
					defer p.wg.Done()
					if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
						p.logger.Warn("snapshot refresh failed", zap.Error(err))
					}
				}()
			}
		}
	}()
}

// Stop cancels the loop and waits for in-flight cycles.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
}
