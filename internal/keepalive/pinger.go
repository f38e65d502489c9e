// Package keepalive periodically requests the service's own public URL.
package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

func NewPinger(url string, interval time.Duration, logger *zap.Logger) *Pinger {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,
	}
}

// Run pings once right away and then on every tick until ctx is done.
// Failures are logged and never stop the loop.
func (p *Pinger) Run(ctx context.Context) {
	p.logger.Info("keep-alive started", zap.String("url", p.url), zap.Duration("interval", p.interval))

	p.pingOnce(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("keep-alive stopped")
			return
		case <-t.C:
			p.pingOnce(ctx)
		}
	}
}

func (p *Pinger) pingOnce(ctx context.Context) {
	if err := p.Ping(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("keep-alive ping failed", zap.Error(err))
		return
	}
	p.logger.Debug("keep-alive ping ok")
}

func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
