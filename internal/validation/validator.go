package validation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/platrum/chatcfg/internal/logging"
	"github.com/platrum/chatcfg/internal/serverurl"
)

const (
	// DefaultDebounce is the delay after the last edit before a remote
	// validation request is issued.
	DefaultDebounce = 350 * time.Millisecond

	// DefaultTimeout bounds a single remote validation call. A call that
	// exceeds it resolves to StatusNotMattermost.
	DefaultTimeout = 5 * time.Second
)

// Remote performs the actual reachability check against a candidate server
// URL. existingID carries the id of the server being edited, so the remote
// duplicate check can tell "same server, re-validating" from "new server,
// collides with an existing one". Implementations may return an error for
// transport failures; the Validator normalizes errors and timeouts to
// StatusNotMattermost.
type Remote interface {
	Validate(ctx context.Context, url, existingID string) (Result, error)
}

// RemoteFunc adapts a function to the Remote interface.
type RemoteFunc func(ctx context.Context, url, existingID string) (Result, error)

// Validate calls f.
func (f RemoteFunc) Validate(ctx context.Context, url, existingID string) (Result, error) {
	return f(ctx, url, existingID)
}

// Event is one resolved validation cycle, delivered on the Validator's
// event channel. Host echoes the input the cycle was started with.
type Event struct {
	Token  uint64
	Host   string
	Result Result
}

// Validator debounces edits to a server address and resolves each settled
// value against a Remote, delivering at most one Event per cycle.
//
// Every call to Request supersedes the previous cycle: the pending debounce
// timer is replaced, and any in-flight remote call becomes stale. Staleness
// is tracked with a monotonically increasing token compared at resolution
// time, so a late remote response for an old input can never overwrite the
// outcome of a newer one. After Close, all pending work resolves to no-ops.
type Validator struct {
	mu sync.Mutex

	remote     Remote
	existingID string

	debounce time.Duration
	timeout  time.Duration

	seq      uint64 // token of the most recent request
	resolved uint64 // highest token that has produced an event
	timer    *time.Timer
	inFlight bool
	closed   bool

	events chan Event
	done   chan struct{}
}

// Option configures a Validator.
type Option func(*Validator)

// WithDebounce overrides the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(v *Validator) { v.debounce = d }
}

// WithTimeout overrides the remote call timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) { v.timeout = d }
}

// WithExistingID marks the validator as editing an already configured
// server. The id is forwarded to the Remote on every call.
func WithExistingID(id string) Option {
	return func(v *Validator) { v.existingID = id }
}

// New creates a Validator backed by the given Remote.
func New(remote Remote, opts ...Option) *Validator {
	v := &Validator{
		remote:   remote,
		debounce: DefaultDebounce,
		timeout:  DefaultTimeout,
		events:   make(chan Event, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Events returns the channel on which resolved cycles are delivered.
// The channel carries only the freshest event: an undelivered stale event
// is replaced rather than queued.
func (v *Validator) Events() <-chan Event {
	return v.events
}

// Request starts a new validation cycle for the given bare host, superseding
// any cycle still debouncing or in flight. It returns the cycle's token.
func (v *Validator) Request(host string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return v.seq
	}

	v.seq++
	token := v.seq

	// A new edit supersedes any outstanding remote call; its eventual
	// resolution is discarded by the token check in deliver.
	v.inFlight = false

	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.debounce, func() {
		v.fire(token, host)
	})

	return token
}

// InFlight reports whether a remote call is currently outstanding.
func (v *Validator) InFlight() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inFlight
}

// Done returns a channel closed when the Validator is closed, so receivers
// blocked on Events can unblock.
func (v *Validator) Done() <-chan struct{} {
	return v.done
}

// Close cancels the pending debounce timer and turns any in-flight
// resolution into a no-op. It is safe to call more than once.
func (v *Validator) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	close(v.done)
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// fire runs when the debounce timer for a cycle expires. Local format
// failures resolve immediately; anything else goes to the Remote.
func (v *Validator) fire(token uint64, host string) {
	v.mu.Lock()
	if v.closed || token != v.seq {
		v.mu.Unlock()
		return
	}

	if status := CheckHostFormat(host); status != StatusNone {
		v.mu.Unlock()
		v.deliver(token, host, Result{Status: status})
		return
	}

	v.inFlight = true
	v.mu.Unlock()

	go v.runRemote(token, host)
}

// runRemote issues the remote call with the configured timeout and delivers
// the normalized result.
func (v *Validator) runRemote(token uint64, host string) {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	url := serverurl.URLFromHost(host)
	result, err := v.remote.Validate(ctx, url, v.existingID)
	if err != nil {
		logging.Debug("Remote validation failed",
			zap.String("url", url),
			zap.Error(err),
		)
		result = Result{Status: StatusNotMattermost}
	}

	v.deliver(token, host, result)
}

// deliver publishes a resolved cycle unless it has gone stale. The first
// resolution for a token wins; duplicates and older tokens are dropped.
func (v *Validator) deliver(token uint64, host string, result Result) {
	v.mu.Lock()
	if v.closed || token != v.seq || token <= v.resolved {
		if v.inFlight && token == v.seq {
			v.inFlight = false
		}
		v.mu.Unlock()
		logging.Debug("Discarding stale validation result",
			zap.Uint64("token", token),
			zap.String("host", host),
			zap.String("status", result.Status.String()),
		)
		return
	}
	v.resolved = token
	v.inFlight = false
	v.mu.Unlock()

	ev := Event{Token: token, Host: host, Result: result}

	// Replace an unconsumed older event instead of queueing behind it.
	for {
		select {
		case v.events <- ev:
			return
		default:
		}
		select {
		case <-v.events:
		default:
		}
	}
}
