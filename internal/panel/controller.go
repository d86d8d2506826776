// Package panel is the action-invocation controller. It owns the session
// state: the selected action, the two JSON inputs and the outcome of the
// latest invocation. Rendering and the network call live elsewhere.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/actionrun/internal/catalog"
	"github.com/unkn0wn-root/actionrun/internal/errdef"
	"github.com/unkn0wn-root/actionrun/internal/hostevent"
	"github.com/unkn0wn-root/actionrun/internal/identity"
	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
	"github.com/unkn0wn-root/actionrun/internal/logging"
	"github.com/unkn0wn-root/actionrun/internal/metrics"
	"github.com/unkn0wn-root/actionrun/internal/telemetry"
)

var (
	ErrNoActions     = errors.New("no actions available")
	ErrUnknownAction = errors.New("unknown action")
	ErrNoSelection   = errors.New("no action selected")
	ErrInFlight      = errors.New("invocation already in progress")
)

// Transport performs the remote call for one invocation.
type Transport interface {
	Invoke(
		ctx context.Context,
		action catalog.Action,
		headers *orderedmap.OrderedMap[string, string],
		params *jsonutil.Object,
	) (any, error)
}

type TransportFunc func(
	ctx context.Context,
	action catalog.Action,
	headers *orderedmap.OrderedMap[string, string],
	params *jsonutil.Object,
) (any, error)

func (f TransportFunc) Invoke(
	ctx context.Context,
	action catalog.Action,
	headers *orderedmap.OrderedMap[string, string],
	params *jsonutil.Object,
) (any, error) {
	return f(ctx, action, headers, params)
}

type Status int

const (
	StatusIdle Status = iota
	StatusInProgress
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in-progress"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the single status line shown to the user.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeNoActions
	OutcomeFailed
	OutcomeSucceeded
)

// Ticket describes one started invocation. Seq orders tickets; only the
// latest may complete into the session state.
type Ticket struct {
	ID      string
	Seq     uint64
	Action  catalog.Action
	Headers *orderedmap.OrderedMap[string, string]
	Params  *jsonutil.Object
	Started time.Time
}

// State is a snapshot; mutating it does not affect the controller.
type State struct {
	Selected     string
	HasSelection bool
	HasActions   bool
	Headers      Field
	Params       Field
	Status       Status
	InProgress   bool
	Response     any
	HasResponse  bool
	Err          string
	Seq          uint64
}

// CanInvoke mirrors the trigger's enabled state.
func (s State) CanInvoke() bool {
	return s.HasSelection && !s.InProgress
}

type Option func(*Controller)

func WithIdentity(p identity.Provider) Option {
	return func(c *Controller) {
		if p != nil {
			c.identity = p
		}
	}
}

func WithHostEvents(h hostevent.Handler) Option {
	return func(c *Controller) {
		if h != nil {
			c.events = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithSingleFlight rejects Begin with ErrInFlight while an invocation is in
// progress. It is on by default.
func WithSingleFlight(on bool) Option {
	return func(c *Controller) {
		c.singleFlight = on
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

type Controller struct {
	catalog      *catalog.Catalog
	transport    Transport
	identity     identity.Provider
	events       hostevent.Handler
	logger       *slog.Logger
	metrics      metrics.Recorder
	singleFlight bool
	now          func() time.Time

	mu          sync.Mutex
	selected    string
	hasSel      bool
	headers     Field
	params      Field
	status      Status
	inProgress  bool
	response    any
	hasResponse bool
	errMsg      string
	seq         uint64
}

func New(cat *catalog.Catalog, transport Transport, opts ...Option) *Controller {
	if cat == nil {
		cat = catalog.New()
	}
	c := &Controller{
		catalog:      cat,
		transport:    transport,
		identity:     identity.Static{},
		events:       hostevent.Noop(),
		logger:       logging.NewNop(),
		metrics:      metrics.Noop(),
		singleFlight: true,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Controller) HasActions() bool {
	return !c.catalog.Empty()
}

func (c *Controller) Actions() []string {
	return c.catalog.Names()
}

func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// SelectAction makes name current and resets the outcome to idle. Any
// invocation still outstanding is abandoned: its result will be discarded.
func (c *Controller) SelectAction(name string) error {
	if c.catalog.Empty() {
		return ErrNoActions
	}
	if _, ok := c.catalog.Lookup(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}

	c.mu.Lock()
	c.selected = name
	c.hasSel = true
	c.status = StatusIdle
	c.inProgress = false
	c.clearOutcomeLocked()
	c.seq++
	c.mu.Unlock()

	c.logger.Debug("action selected", "action", name)
	c.events.OnHistory(hostevent.HistoryEvent{Type: hostevent.HistoryPush, Path: "/actions/" + name})
	return nil
}

// SetField parses raw into the given input. It never starts an invocation.
func (c *Controller) SetField(id FieldID, raw string) Field {
	f := ParseJSONField(raw)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch id {
	case FieldHeaders:
		c.headers = f
	case FieldParams:
		c.params = f
	}
	return f
}

// Begin starts an invocation of the selected action. Unset or invalid
// inputs are sent as empty objects. Credentials are read now.
func (c *Controller) Begin() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasSel {
		return Ticket{}, ErrNoSelection
	}
	if c.singleFlight && c.inProgress {
		return Ticket{}, ErrInFlight
	}
	action, ok := c.catalog.Lookup(c.selected)
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %q", ErrUnknownAction, c.selected)
	}

	creds := c.identity.Credentials()
	c.seq++
	c.inProgress = true
	c.status = StatusInProgress
	c.clearOutcomeLocked()

	return Ticket{
		ID:      uuid.NewString(),
		Seq:     c.seq,
		Action:  action,
		Headers: NormalizeHeaders(c.headers.Object(), creds),
		Params:  c.params.Object(),
		Started: c.now(),
	}, nil
}

// Complete applies the transport result for t. It reports false, leaving the
// state untouched, when a newer invocation or selection superseded t.
func (c *Controller) Complete(t Ticket, payload any, err error) bool {
	elapsed := c.now().Sub(t.Started)
	outcome := metrics.OutcomeSucceeded
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	c.metrics.ObserveInvocation(t.Action.Name, outcome, elapsed)

	c.mu.Lock()
	if t.Seq != c.seq {
		c.mu.Unlock()
		c.metrics.ObserveStale(t.Action.Name)
		c.logger.Debug("discarding stale result", "action", t.Action.Name, "id", t.ID, "seq", t.Seq)
		return false
	}
	c.inProgress = false
	if err != nil {
		c.status = StatusFailed
		c.response = nil
		c.hasResponse = false
		c.errMsg = errdef.Message(err)
	} else {
		c.status = StatusSucceeded
		c.response = payload
		c.hasResponse = true
		c.errMsg = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("invocation failed", "action", t.Action.Name, "id", t.ID, "error", err)
	} else {
		c.logger.Info(fmt.Sprintf("Response from %s", t.Action.Name),
			"id", t.ID,
			"elapsed", elapsed,
			"response", jsonutil.Text(payload),
		)
	}
	return true
}

// Invoke runs Begin, the transport call and Complete. Transport failures end
// up in the state; only a refused Begin is returned.
func (c *Controller) Invoke(ctx context.Context) error {
	t, err := c.Begin()
	if err != nil {
		return err
	}
	payload, err := c.call(ctx, t)
	c.Complete(t, payload, err)
	return nil
}

// Call performs the transport request for t without touching the state, for
// callers that run it on their own goroutine and apply it with Complete.
func (c *Controller) Call(ctx context.Context, t Ticket) (any, error) {
	return c.call(ctx, t)
}

func (c *Controller) call(ctx context.Context, t Ticket) (any, error) {
	if c.transport == nil {
		return nil, errdef.New(errdef.CodeHTTP, "no transport configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return c.transport.Invoke(telemetry.WithInvocationID(ctx, t.ID), t.Action, t.Headers, t.Params)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Selected:     c.selected,
		HasSelection: c.hasSel,
		HasActions:   !c.catalog.Empty(),
		Headers:      c.headers.clone(),
		Params:       c.params.clone(),
		Status:       c.status,
		InProgress:   c.inProgress,
		Response:     c.response,
		HasResponse:  c.hasResponse,
		Err:          c.errMsg,
		Seq:          c.seq,
	}
}

func (c *Controller) Outcome() Outcome {
	return c.State().Outcome()
}

func (s State) Outcome() Outcome {
	switch {
	case !s.HasActions:
		return OutcomeNoActions
	case s.Status == StatusFailed:
		return OutcomeFailed
	case s.Status == StatusSucceeded:
		return OutcomeSucceeded
	default:
		return OutcomeNone
	}
}

func (c *Controller) clearOutcomeLocked() {
	c.response = nil
	c.hasResponse = false
	c.errMsg = ""
}
