package grpc

import (
	"context"
	"time"

	"github.com/0xsj/overwatch-pkg/log"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusSetter publishes serving status to the health service.
type StatusSetter interface {
	SetServingStatus(service string, serving bool)
}

// KVHealthService is the health service name that reports key-value store
// reachability. The server status ("") and BlogServiceName do not follow it:
// reads fall back to the durable store and rate limiting fails open, so an
// unreachable store degrades the service instead of stopping it.
const KVHealthService = BlogServiceName + "/kv"

// HealthProbe mirrors key-value store reachability into the gRPC health
// service under KVHealthService.
type HealthProbe struct {
	pinger   Pinger
	setter   StatusSetter
	interval time.Duration
	timeout  time.Duration
	logger   log.Logger

	serving bool
	checked bool
}

// NewHealthProbe creates a probe that pings every interval.
func NewHealthProbe(pinger Pinger, setter StatusSetter, interval time.Duration, logger log.Logger) *HealthProbe {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	timeout := interval / 2
	if timeout > 2*time.Second {
		timeout = 2 * time.Second
	}

	return &HealthProbe{
		pinger:   pinger,
		setter:   setter,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Check pings once and updates the KVHealthService status. Reports whether
// the store answered.
func (p *HealthProbe) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(pingCtx)
	serving := err == nil

	p.setter.SetServingStatus(KVHealthService, serving)

	// Only transitions are logged.
	if !p.checked || serving != p.serving {
		if serving {
			p.logger.Info("kv store reachable")
		} else {
			p.logger.Warn("kv store unreachable, serving degraded",
				log.Any("error", err),
			)
		}
	}
	p.serving = serving
	p.checked = true

	return serving
}

// Run checks immediately and then on every tick until ctx is done.
func (p *HealthProbe) Run(ctx context.Context) {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
