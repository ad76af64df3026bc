package service

import (
	"context"
	"sort"
	"sync"
	"time"
)

const probeTimeout = 5 * time.Second

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type DependencyStatus struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Skipped   bool   `json:"skipped,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthService probes downstream dependencies in parallel, each under its own
// timeout. A nil entry is reported as skipped (not configured).
type HealthService struct {
	Probes  map[string]Pinger
	Timeout time.Duration
}

func (s *HealthService) Check(ctx context.Context) ([]DependencyStatus, bool) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = probeTimeout
	}
	out := make([]DependencyStatus, 0, len(s.Probes))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, p := range s.Probes {
		if p == nil {
			out = append(out, DependencyStatus{Name: name, OK: true, Skipped: true})
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			started := time.Now()
			err := p.Ping(pctx)
			st := DependencyStatus{Name: name, OK: err == nil, LatencyMS: time.Since(started).Milliseconds()}
			if err != nil {
				st.Error = err.Error()
			}
			mu.Lock()
			out = append(out, st)
			mu.Unlock()
		}()
	}
	wg.Wait()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	healthy := true
	for _, st := range out {
		healthy = healthy && st.OK
	}
	return out, healthy
}
