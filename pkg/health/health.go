// Package health serves liveness and readiness probes.
//
// Each registered check runs in its own goroutine at a fixed interval. A
// check flips to unhealthy only after failureThreshold consecutive failures
// and back after successThreshold consecutive successes, so a single slow
// ping does not take the service out of rotation.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// CheckFunc reports the health of one component.
type CheckFunc func(ctx context.Context) error

// CheckOption configures a registered check.
type CheckOption func(*check)

// WithThresholds overrides the default thresholds of 3 failures and 1
// success.
func WithThresholds(failures, successes int) CheckOption {
	return func(c *check) {
		c.failureThreshold = max(failures, 1)
		c.successThreshold = max(successes, 1)
	}
}

// check is run from a single goroutine; only healthy and lastErr are read
// concurrently.
type check struct {
	name             string
	timeout          time.Duration
	fn               CheckFunc
	failureThreshold int
	successThreshold int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

func (c *check) lastError() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once and reports whether its health changed.
func (c *check) run(ctx context.Context) (changed bool) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)
	c.lastErr.Store(&err)

	was := c.healthy.Load()
	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
	return was != c.healthy.Load()
}

// Health manages liveness and readiness checks for a service.
type Health struct {
	lg    *zap.Logger
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a Health that logs check transitions to lg. The service starts
// not ready; call SetReady(true) once initialization is done.
func New(lg *zap.Logger) *Health {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Health{lg: lg}
}

func newCheck(name string, timeout time.Duration, fn CheckFunc, opts []CheckOption) *check {
	c := &check{
		name:             name,
		timeout:          timeout,
		fn:               fn,
		failureThreshold: 3,
		successThreshold: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.healthy.Store(true)
	return c
}

// AddLivenessCheck registers a check that decides whether the process should
// be restarted.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc, opts ...CheckOption) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newCheck(name, timeout, fn, opts))
}

// AddReadinessCheck registers a check that decides whether the service
// receives traffic, e.g. storage connectivity.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc, opts ...CheckOption) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, newCheck(name, timeout, fn, opts))
}

// Start runs every registered check at interval until Stop is called or ctx
// is cancelled.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel = cancel
	for _, c := range append(append([]*check(nil), h.liveness...), h.readiness...) {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.loop(ctx, c, interval)
		}()
	}
}

func (h *Health) loop(ctx context.Context, c *check, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if c.run(ctx) {
			if err := c.lastError(); err != nil {
				h.lg.Warn("Health check failing", zap.String("check", c.name), zap.Error(err))
			} else {
				h.lg.Info("Health check recovered", zap.String("check", c.name))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the check goroutines and waits for them to exit. It is safe
// to call Stop more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// SetReady sets the manual readiness flag: true after initialization, false
// at the start of a graceful shutdown.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check is passing.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.readiness {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 {"status":"ok"} or 503 listing the
// failing liveness checks.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	failures := collectFailures(h.liveness)
	h.mu.RUnlock()
	writeResponse(w, failures)
}

// ReadyEndpoint serves /readyz. Besides failing readiness checks, an unset
// readiness flag is reported as "_readiness".
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	failures := collectFailures(h.readiness)
	h.mu.RUnlock()
	if !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeResponse(w, failures)
}

// collectFailures uses each check's last stored result; checks are not
// re-run per request.
func collectFailures(checks []*check) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		if c.healthy.Load() {
			continue
		}
		if err := c.lastError(); err != nil {
			failures[c.name] = err.Error()
		} else {
			failures[c.name] = "check is unhealthy"
		}
	}
	return failures
}

func writeResponse(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	status := http.StatusOK
	if len(failures) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failures
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
