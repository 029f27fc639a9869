package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound calls per endpoint host so a batch run cannot
// hammer a shared inference service. Hosts are learned lazily and every
// host gets the same rate and burst.
type Limiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	rate  rate.Limit
	burst int
}

// NewLimiter creates a limiter allowing requestsPerSecond calls per host
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		hosts: make(map[string]*rate.Limiter),
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Wait blocks until the host behind rawURL may be called again, or the
// context ends
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return l.hostLimiter(parsed.Host).Wait(ctx)
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.hosts[host]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.hosts[host] = lim
	}
	return lim
}
