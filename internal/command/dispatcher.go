// Package command exposes the store as named commands taking JSON
// arguments, the surface a front end talks to.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/itodo/internal/store"
	"github.com/nhle/itodo/internal/transfer"
)

type handler func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher routes command names to store operations.
type Dispatcher struct {
	store    store.Store
	transfer *transfer.Transfer
	dataDir  string
	log      logrus.FieldLogger

	handlers map[string]handler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTransfer sets the file transfer used by the file commands.
func WithTransfer(t *transfer.Transfer) Option {
	return func(d *Dispatcher) { d.transfer = t }
}

// WithDataDir sets the directory export_tasks_to_file writes into.
func WithDataDir(dir string) Option {
	return func(d *Dispatcher) { d.dataDir = dir }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// New returns a Dispatcher over s.
func New(s store.Store, opts ...Option) *Dispatcher {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	d := &Dispatcher{
		store:   s,
		dataDir: ".",
		log:     discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.transfer == nil {
		d.transfer = transfer.New(s)
	}
	d.handlers = d.routes()
	return d
}

// Names returns the registered command names, sorted.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command. args is the command's JSON argument
// object and may be empty. Every error returned is a *Error.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := d.handlers[name]
	if !ok {
		return nil, &Error{Kind: KindInvalidOperation, Message: fmt.Sprintf("unknown command %q", name)}
	}

	start := time.Now()
	log := d.log.WithField("command", name)

	result, err := h(ctx, args)
	if err != nil {
		cerr := FromError(err)
		log.WithField("kind", cerr.Kind).WithError(err).Warn("command failed")
		return nil, cerr
	}

	log.WithField("elapsed", time.Since(start)).Debug("command done")
	return result, nil
}

// Result is the outcome of a command run with Go.
type Result struct {
	Value any
	Err   error
}

// Go runs the named command on its own goroutine. The returned channel
// receives exactly one Result and is then closed.
func (d *Dispatcher) Go(ctx context.Context, name string, args json.RawMessage) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		v, err := d.Invoke(ctx, name, args)
		ch <- Result{Value: v, Err: err}
	}()
	return ch
}

// decodeArgs parses a command's argument object. Empty input yields the
// zero value.
func decodeArgs[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 || string(args) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, fmt.Errorf("parsing command arguments: %w: %w", store.ErrSerialization, err)
	}
	return v, nil
}

// required rejects an empty argument before it reaches the store.
func required(what, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required: %w", what, store.ErrInvalidOperation)
	}
	return nil
}
