package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DukeRupert/authpages/internal/domain"
)

var (
	// ErrInFlight is returned by Submit while a previous submission is pending.
	ErrInFlight error = domain.Conflict("form.submit", "A submission is already in progress.")

	// ErrInvalid is returned by Submit when the schema rejects the values.
	ErrInvalid = errors.New("form: validation failed")
)

// DefaultFailureMessage is shown when a handler fails and no
// FailureMessage option was given.
const DefaultFailureMessage = "Something went wrong. Please try again."

// Handler performs the submission. It receives a copy of the validated values
// and returns the success message, or an error describing the failure.
type Handler func(ctx context.Context, values Values) (string, error)

// Field is the render state of one input.
type Field struct {
	Name    string
	Value   string
	Error   string
	Touched bool
}

// Snapshot is a consistent copy of a controller taken for rendering.
type Snapshot struct {
	Fields   map[string]Field
	Status   Status
	Disabled bool // submit control must be disabled
}

// Value returns the current value of name.
func (s Snapshot) Value(name string) string { return s.Fields[name].Value }

// Error returns the validation message attached to name, if any.
func (s Snapshot) Error(name string) string { return s.Fields[name].Error }

// Checked reports whether the checkbox name is ticked.
func (s Snapshot) Checked(name string) bool { return IsChecked(s.Fields[name].Value) }

// Option configures a Controller.
type Option func(*Controller)

// WithFailureMessage sets how handler errors become banner text.
func WithFailureMessage(fn func(error) string) Option {
	return func(c *Controller) {
		c.failureMessage = fn
	}
}

// Controller owns the field values, field errors and submission status of one
// form instance. It is safe for concurrent use; at most one submission runs
// at a time.
type Controller struct {
	schema         *Schema
	failureMessage func(error) string

	mu       sync.Mutex
	defaults Values
	values   Values
	errors   Errors
	touched  map[string]bool
	status   Status
}

// NewController creates a controller seeded with defaults. Fields named by
// the schema but missing from defaults start empty.
func NewController(schema *Schema, defaults Values, opts ...Option) *Controller {
	if schema == nil {
		schema = NewSchema()
	}
	c := &Controller{
		schema:         schema,
		failureMessage: func(error) string { return DefaultFailureMessage },
		defaults:       make(Values),
	}
	for _, name := range schema.Fields() {
		c.defaults[name] = ""
	}
	for k, v := range defaults {
		c.defaults[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

// SetFieldValue records a change to one field and re-validates that field
// only. Editing after a failed submission returns the status to Idle.
func (c *Controller) SetFieldValue(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(name, value)
}

func (c *Controller) setLocked(name, value string) {
	c.values[name] = value
	c.touched[name] = true
	if msg := c.schema.ValidateField(name, c.values); msg != "" {
		c.errors[name] = msg
	} else {
		delete(c.errors, name)
	}
	if c.status.Kind == Failed {
		c.status = Status{Kind: Idle}
	}
}

// Apply records a batch of field changes, as a posted form delivers them. It
// returns ErrInFlight and changes nothing while a submission is pending.
func (c *Controller) Apply(values Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.Kind == InFlight {
		return ErrInFlight
	}
	for name, value := range values {
		c.values[name] = value
	}
	for name := range values {
		c.setLocked(name, c.values[name])
	}
	return nil
}

// Value returns the current value of name.
func (c *Controller) Value(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[name]
}

// Values returns a copy of all field values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyValues(c.values)
}

// Errors returns a copy of the current field errors.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Errors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Status returns the current submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Validate runs the full schema, replaces the error set and reports whether
// the form is valid.
func (c *Controller) Validate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() bool {
	c.errors = c.schema.Validate(c.values)
	return len(c.errors) == 0
}

// Submit validates and, when valid, runs h with the current values.
//
// While h runs the status is InFlight and further calls return ErrInFlight
// without touching any state. A handler error (or panic) becomes Failed with
// a user-facing message and is returned to the caller. If ctx ends before h
// returns, the outcome is dropped: the status goes back to Idle and ctx.Err()
// is returned.
func (c *Controller) Submit(ctx context.Context, h Handler) error {
	c.mu.Lock()
	if c.status.Kind == InFlight {
		c.mu.Unlock()
		return ErrInFlight
	}
	if !c.validateLocked() {
		c.mu.Unlock()
		return ErrInvalid
	}
	c.status = Status{Kind: InFlight}
	values := copyValues(c.values)
	c.mu.Unlock()

	msg, err := run(ctx, h, values)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.status = Status{Kind: Idle}
		return ctxErr
	}
	if err != nil {
		c.status = Status{Kind: Failed, Message: c.failureMessage(err)}
		return err
	}
	c.status = Status{Kind: Succeeded, Message: msg}
	return nil
}

// run calls h, turning a panic into an error.
func run(ctx context.Context, h Handler, values Values) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("form: handler panic: %v", r)
		}
	}()
	return h(ctx, values)
}

// Reset restores default values and clears errors and touched flags. The
// submission status is kept so a success banner survives clearing the form.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.values = copyValues(c.defaults)
	c.errors = make(Errors)
	c.touched = make(map[string]bool)
}

// Snapshot returns a copy of the render state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := make(map[string]Field, len(c.values))
	for name, v := range c.values {
		fields[name] = Field{
			Name:    name,
			Value:   v,
			Error:   c.errors[name],
			Touched: c.touched[name],
		}
	}
	for name, msg := range c.errors {
		if _, ok := fields[name]; !ok {
			fields[name] = Field{Name: name, Error: msg}
		}
	}
	return Snapshot{
		Fields:   fields,
		Status:   c.status,
		Disabled: c.status.Kind == InFlight,
	}
}

func copyValues(v Values) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
