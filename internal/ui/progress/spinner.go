// Package progress shows a spinner while a wizard's execute steps run.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/funcwiz/internal/ui/styles"
)

// messageUpdate is sent to update the spinner message
type messageUpdate string

// Spinner renders "<frame> <title>: <message>" on a single line until
// Done is called. It satisfies wizard.Progress.
type Spinner struct {
	out     io.Writer
	title   string
	program *tea.Program
	msgChan chan string
	done    chan struct{}

	mu        sync.Mutex
	isRunning bool
	stopped   bool
	lastMsg   string
}

// spinnerModel is the internal Bubbletea model
type spinnerModel struct {
	spinner spinner.Model
	title   string
	message string
	msgChan chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForMessage())
}

func (m spinnerModel) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgChan
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.waitForMessage()
	case tea.KeyPressMsg:
		// Execute steps are not interruptible from the keyboard.
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel) View() tea.View {
	return tea.NewView(m.line())
}

func (m spinnerModel) line() string {
	text := m.title
	if m.message != "" {
		if text != "" {
			text += ": "
		}
		text += m.message
	}
	if text == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), text)
}

// NewSpinner creates a spinner writing to out. It starts on the first
// Report or on Start.
func NewSpinner(out io.Writer, title string) *Spinner {
	return &Spinner{
		out:     out,
		title:   title,
		msgChan: make(chan string, 10),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

func (s *Spinner) startLocked() {
	if s.isRunning || s.stopped {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle

	model := spinnerModel{
		spinner: sp,
		title:   s.title,
		message: s.lastMsg,
		msgChan: s.msgChan,
	}

	s.program = tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
	)
	s.isRunning = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// Report changes the spinner message, starting the spinner if needed.
func (s *Spinner) Report(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastMsg = message
	if s.stopped {
		return
	}
	s.startLocked()

	// Drop updates when the channel is full; the next one catches up.
	// The channel is closed under the same mutex.
	select {
	case s.msgChan <- message:
	default:
	}
}

// Last returns the most recently reported message.
func (s *Spinner) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMsg
}

// Done stops the spinner and clears its line. It is safe to call more
// than once.
func (s *Spinner) Done() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	wasRunning := s.isRunning
	s.isRunning = false
	close(s.msgChan)
	s.mu.Unlock()

	if !wasRunning {
		return
	}
	s.program.Quit()

	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(s.out, "\r\033[K")
}
