// Package answers implements a non-interactive wizard.Prompter that
// replays answers from a YAML file. It is used with --answers and in
// tests.
//
// The file maps question IDs to answers:
//
//	language: Python          # pick: label or value
//	python-version: "3.11"
//	name: HttpExample         # input
//	create-function: "No"     # warn: button label
//	template: [HTTP trigger, Timer trigger]   # asked twice
//
// A list answers the same question repeatedly, in order. An input
// without an answer falls back to its default value.
package answers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/wizard"
)

// ErrNoAnswer is returned when a question has no scripted answer.
var ErrNoAnswer = errors.New("no answer")

// list accepts a YAML scalar or sequence of scalars.
type list []string

func (l *list) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = list{n.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := n.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: answer must be a string or a list of strings", n.Line)
	}
}

// Prompter answers wizard questions from a script.
type Prompter struct {
	mu      sync.Mutex
	answers map[string][]string
	asked   []string
}

var _ wizard.Prompter = (*Prompter)(nil)

// New returns a prompter answering from answers.
func New(answers map[string][]string) *Prompter {
	m := make(map[string][]string, len(answers))
	for k, v := range answers {
		m[k] = slices.Clone(v)
	}
	return &Prompter{answers: m}
}

// Parse reads a YAML answers document.
func Parse(data []byte) (*Prompter, error) {
	var raw map[string]list
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	answers := make(map[string][]string, len(raw))
	for k, v := range raw {
		answers[k] = v
	}
	return &Prompter{answers: answers}, nil
}

// Load reads an answers file.
func Load(path string) (*Prompter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// next pops the next answer for id.
func (p *Prompter) next(id string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.asked = append(p.asked, id)
	queue := p.answers[id]
	if len(queue) == 0 {
		return "", false
	}
	p.answers[id] = queue[1:]
	return queue[0], true
}

// Asked returns the question IDs in the order they were asked.
func (p *Prompter) Asked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.asked)
}

// Unused returns the IDs that still have answers left, sorted.
func (p *Prompter) Unused() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ids []string
	for id, queue := range p.answers {
		if len(queue) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Pick matches the answer against choice labels, then values. Matching
// is case-insensitive.
func (p *Prompter) Pick(ctx context.Context, opts wizard.PickOptions) (wizard.Choice, error) {
	if err := ctx.Err(); err != nil {
		return wizard.Choice{}, wizard.ErrCancelled
	}
	answer, ok := p.next(opts.ID)
	if !ok {
		return wizard.Choice{}, fmt.Errorf("%w for %q", ErrNoAnswer, opts.ID)
	}

	idx := slices.IndexFunc(opts.Choices, func(c wizard.Choice) bool {
		return strings.EqualFold(c.Label, answer)
	})
	if idx < 0 {
		idx = slices.IndexFunc(opts.Choices, func(c wizard.Choice) bool {
			return c.Value != nil && strings.EqualFold(fmt.Sprint(c.Value), answer)
		})
	}
	if idx < 0 {
		return wizard.Choice{}, fmt.Errorf("answer %q for %q matches none of: %s", answer, opts.ID, labels(opts.Choices))
	}
	if c := opts.Choices[idx]; c.Disabled {
		return wizard.Choice{}, fmt.Errorf("answer %q for %q is not available: %s", answer, opts.ID, c.Description)
	}

	log.FromContext(ctx).Debug("answer", "id", opts.ID, "pick", opts.Choices[idx].Label)
	return opts.Choices[idx], nil
}

func labels(choices []wizard.Choice) string {
	names := make([]string, 0, len(choices))
	for _, c := range choices {
		if !c.Disabled {
			names = append(names, c.Label)
		}
	}
	return strings.Join(names, ", ")
}

// Input returns the answer, or the default value when none is scripted.
// Surrounding whitespace is trimmed, as at the terminal, and the value
// must pass opts.Validate.
func (p *Prompter) Input(ctx context.Context, opts wizard.InputOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wizard.ErrCancelled
	}
	answer, ok := p.next(opts.ID)
	if !ok {
		if opts.Value == "" {
			return "", fmt.Errorf("%w for %q", ErrNoAnswer, opts.ID)
		}
		answer = opts.Value
	}
	answer = strings.TrimSpace(answer)

	if opts.Validate != nil {
		if err := opts.Validate(ctx, answer); err != nil {
			return "", fmt.Errorf("answer %q for %q: %w", answer, opts.ID, err)
		}
	}

	log.FromContext(ctx).Debug("answer", "id", opts.ID, "input", answer)
	return answer, nil
}

// Warn returns the scripted button. Without an answer, a warning with a
// single button is acknowledged automatically.
func (p *Prompter) Warn(ctx context.Context, opts wizard.WarnOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wizard.ErrCancelled
	}
	log.FromContext(ctx).Printf("Warning: %s\n", opts.Message)

	answer, ok := p.next(opts.ID)
	if !ok {
		if len(opts.Buttons) <= 1 {
			if len(opts.Buttons) == 1 {
				return opts.Buttons[0], nil
			}
			return "OK", nil
		}
		return "", fmt.Errorf("%w for %q", ErrNoAnswer, opts.ID)
	}

	for _, b := range opts.Buttons {
		if strings.EqualFold(b, answer) {
			return b, nil
		}
	}
	return "", fmt.Errorf("answer %q for %q matches none of: %s", answer, opts.ID, strings.Join(opts.Buttons, ", "))
}

// Progress logs each report as a line on the context logger.
func (p *Prompter) Progress(ctx context.Context, title string) wizard.Progress {
	return &logProgress{logger: log.FromContext(ctx), title: title}
}

type logProgress struct {
	logger *log.Logger
	title  string
}

func (lp *logProgress) Report(message string) {
	lp.logger.Printf("%s: %s\n", lp.title, message)
}

func (lp *logProgress) Done() {}
