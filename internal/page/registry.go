// Package page keeps track of mounted auth page instances.
//
// A page instance is what a browser tab holds between rendering a form and
// submitting it: its form controllers, their submission status and any
// per-page state such as a verified reset token. Each instance carries a
// lifetime context; unmounting it (explicitly, or by idle eviction) cancels
// that context, which cancels any submission still waiting on the backend.
package page

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DukeRupert/authpages/internal/form"
	"github.com/DukeRupert/authpages/internal/metrics"
	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an untouched instance stays mounted.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxInstances bounds how many instances may be mounted at once.
	DefaultMaxInstances = 10000

	minSweepInterval = time.Second
	maxSweepInterval = time.Minute
)

// Instance is one mounted page.
type Instance struct {
	ID   string
	Kind string

	ctx    context.Context
	cancel context.CancelFunc
	forms  map[string]*form.Controller

	mu       sync.Mutex
	attrs    map[string]string
	lastSeen time.Time
}

// Form returns the controller registered under name, or nil.
func (i *Instance) Form(name string) *form.Controller {
	return i.forms[name]
}

// Attr returns a per-page value set with SetAttr.
func (i *Instance) Attr(key string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.attrs[key]
}

// SetAttr stores a per-page value.
func (i *Instance) SetAttr(key, value string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.attrs[key] = value
}

// Done is closed when the instance is unmounted.
func (i *Instance) Done() <-chan struct{} {
	return i.ctx.Done()
}

// Bind derives a context that ends when either parent ends or the instance
// is unmounted. Call the returned cancel func when the work is finished.
func (i *Instance) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(i.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (i *Instance) touch(now time.Time) {
	i.mu.Lock()
	i.lastSeen = now
	i.mu.Unlock()
}

func (i *Instance) idleSince() time.Time {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastSeen
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxInstances caps the number of mounted instances. Mounting past the
// cap unmounts the least recently used instance. Non-positive values keep
// the default.
func WithMaxInstances(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxInstances = n
		}
	}
}

// Registry holds mounted instances and evicts idle ones.
type Registry struct {
	ttl          time.Duration
	maxInstances int
	logger       *slog.Logger
	now          func() time.Time

	mu        sync.Mutex
	instances map[string]*Instance

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRegistry creates a registry and starts its eviction loop. Call Close to
// stop the loop and unmount everything.
func NewRegistry(ttl time.Duration, logger *slog.Logger, opts ...Option) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		ttl:          ttl,
		maxInstances: DefaultMaxInstances,
		logger:       logger,
		now:          time.Now,
		instances:    make(map[string]*Instance),
		stop:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.janitor()

	return r
}

// Mount creates a new instance of kind owning the given controllers.
func (r *Registry) Mount(kind string, forms map[string]*form.Controller) *Instance {
	ctx, cancel := context.WithCancel(context.Background())
	inst := &Instance{
		ID:       uuid.NewString(),
		Kind:     kind,
		ctx:      ctx,
		cancel:   cancel,
		forms:    forms,
		attrs:    make(map[string]string),
		lastSeen: r.now(),
	}

	r.mu.Lock()
	var evicted *Instance
	if len(r.instances) >= r.maxInstances {
		evicted = r.oldestLocked()
		delete(r.instances, evicted.ID)
	}
	r.instances[inst.ID] = inst
	r.mu.Unlock()

	metrics.PageInstancesActive.Inc()
	if evicted != nil {
		evicted.cancel()
		metrics.PageInstancesActive.Dec()
		metrics.PageInstancesEvicted.Inc()
		r.logger.Debug("evicted least recently used page", "kind", evicted.Kind, "instance", evicted.ID)
	}
	r.logger.Debug("page mounted", "kind", kind, "instance", inst.ID)
	return inst
}

// oldestLocked returns the least recently seen instance. The registry must
// be non-empty.
func (r *Registry) oldestLocked() *Instance {
	var oldest *Instance
	for _, inst := range r.instances {
		if oldest == nil || inst.idleSince().Before(oldest.idleSince()) {
			oldest = inst
		}
	}
	return oldest
}

// Lookup returns the instance with id if it is mounted and of kind.
func (r *Registry) Lookup(id, kind string) (*Instance, bool) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	r.mu.Unlock()

	if !ok || inst.Kind != kind {
		return nil, false
	}
	inst.touch(r.now())
	return inst, true
}

// Unmount removes the instance and cancels its context. Unknown ids are
// ignored.
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	if ok {
		delete(r.instances, id)
	}
	r.mu.Unlock()

	if ok {
		inst.cancel()
		metrics.PageInstancesActive.Dec()
		r.logger.Debug("page unmounted", "kind", inst.Kind, "instance", id)
	}
}

// Len returns the number of mounted instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Sweep unmounts every instance idle for longer than the TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Instance
	for id, inst := range r.instances {
		if inst.idleSince().Before(cutoff) {
			expired = append(expired, inst)
			delete(r.instances, id)
		}
	}
	r.mu.Unlock()

	for _, inst := range expired {
		inst.cancel()
		metrics.PageInstancesActive.Dec()
		metrics.PageInstancesEvicted.Inc()
	}
	if len(expired) > 0 {
		r.logger.Debug("evicted idle pages", "count", len(expired))
	}
	return len(expired)
}

// Close stops the eviction loop and unmounts every instance.
func (r *Registry) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
		r.wg.Wait()

		r.mu.Lock()
		all := r.instances
		r.instances = make(map[string]*Instance)
		r.mu.Unlock()

		for _, inst := range all {
			inst.cancel()
			metrics.PageInstancesActive.Dec()
		}
	})
}

// janitor periodically sweeps idle instances.
func (r *Registry) janitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(sweepInterval(r.ttl))
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// sweepInterval is half the TTL, kept within [minSweepInterval, maxSweepInterval].
func sweepInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/2, minSweepInterval), maxSweepInterval)
}
