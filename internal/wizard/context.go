package wizard

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// tagName is the struct tag Decode and Require map context keys with.
const tagName = "wizard"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get(tagName), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Context is the mutable record of one wizard run. Steps read earlier
// answers from it and write their own. A Context belongs to a single
// run and must not be reused by another wizard while that one is active.
type Context struct {
	values map[string]any

	// Prompter is how steps ask the user questions.
	Prompter Prompter

	// SuppressErrorDisplay marks any error leaving the run as already
	// reported, so the caller does not show it a second time.
	SuppressErrorDisplay bool

	title   string
	stepID  string
	step    int
	total   int
	running atomic.Bool
}

// NewContext returns an empty context using p for prompts.
func NewContext(p Prompter) *Context {
	return &Context{values: make(map[string]any), Prompter: p}
}

// Set stores an answer.
func (c *Context) Set(key string, v any) {
	c.values[key] = v
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is set.
func (c *Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Delete removes key.
func (c *Context) Delete(key string) {
	delete(c.values, key)
}

// String returns the string stored under key, or "".
func (c *Context) String(key string) string {
	s, _ := c.values[key].(string)
	return s
}

// Bool returns the bool stored under key, or false.
func (c *Context) Bool(key string) bool {
	b, _ := c.values[key].(bool)
	return b
}

// Keys returns the set keys in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of all values.
func (c *Context) Snapshot() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Decode copies context values into the struct pointed to by dst, matching
// keys against `wizard:"key"` tags.
func (c *Context) Decode(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(c.values)
}

// Require decodes the context into dst and checks its `validate` tags.
// Any failure means an earlier step did not record what a later step
// needs, and is returned as an *InternalError.
func (c *Context) Require(dst any) error {
	if err := c.Decode(dst); err != nil {
		return &InternalError{Err: fmt.Errorf("decode wizard context: %w", err)}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return &InternalError{Err: fmt.Errorf("wizard context is missing %s", strings.Join(missing, ", "))}
		}
		return &InternalError{Err: err}
	}
	return nil
}

// Header returns the title and position for the prompt currently running.
func (c *Context) Header() Header {
	return Header{Title: c.title, Step: c.step, Total: c.total}
}

// Pick asks the context's prompter to choose one of choices. The header and
// answer ID are filled in from the running step.
func (c *Context) Pick(ctx context.Context, placeholder string, choices []Choice) (Choice, error) {
	return c.Prompter.Pick(ctx, PickOptions{
		Header:      c.Header(),
		ID:          c.stepID,
		Placeholder: placeholder,
		Choices:     choices,
	})
}

// Input asks the context's prompter for free text.
func (c *Context) Input(ctx context.Context, opts InputOptions) (string, error) {
	opts.Header = c.Header()
	if opts.ID == "" {
		opts.ID = c.stepID
	}
	return c.Prompter.Input(ctx, opts)
}

// Warn shows a blocking message with buttons and returns the chosen label.
func (c *Context) Warn(ctx context.Context, message string, buttons ...string) (string, error) {
	return c.Prompter.Warn(ctx, WarnOptions{
		Header:  c.Header(),
		ID:      c.stepID,
		Message: message,
		Buttons: buttons,
	})
}
