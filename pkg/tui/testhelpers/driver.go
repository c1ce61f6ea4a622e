package testhelpers

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds how long a command may run. Commands still
// running after it, such as status timers, are dropped.
const DefaultTimeout = 250 * time.Millisecond

// Driver plays the bubbletea event loop for one model synchronously:
// every message is handed to Update and the returned commands run to
// completion before the next key.
type Driver struct {
	t       testing.TB
	Model   tea.Model
	Timeout time.Duration
	// Seen lists every message delivered to the model.
	Seen []tea.Msg
	quit bool
}

func NewDriver(t testing.TB, m tea.Model) *Driver {
	return &Driver{t: t, Model: m, Timeout: DefaultTimeout}
}

// Init runs the model's Init command.
func (d *Driver) Init() *Driver {
	d.Run(d.Model.Init())
	return d
}

// Send delivers msg and runs whatever it triggers.
func (d *Driver) Send(msg tea.Msg) *Driver {
	d.t.Helper()
	d.Seen = append(d.Seen, msg)
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.Run(cmd)
	return d
}

// Press sends each named key in turn.
func (d *Driver) Press(keys ...string) *Driver {
	d.t.Helper()
	for _, k := range keys {
		d.Send(Key(k))
	}
	return d
}

// Type sends text one rune at a time, as typing into an input would.
func (d *Driver) Type(text string) *Driver {
	d.t.Helper()
	for _, r := range text {
		d.Send(Key(string(r)))
	}
	return d
}

// Run executes cmd and delivers its messages. Batches fan out; spinner
// ticks are swallowed so a busy model does not spin forever.
func (d *Driver) Run(cmd tea.Cmd) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	msg, ok := d.exec(cmd)
	if !ok || msg == nil {
		return
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			d.Run(c)
		}
	case spinner.TickMsg:
	case tea.QuitMsg:
		d.quit = true
	default:
		d.Send(msg)
	}
}

func (d *Driver) exec(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d.Timeout):
		return nil, false
	}
}

// Quit reports whether the model asked the program to exit.
func (d *Driver) Quit() bool { return d.quit }

// SawMsg reports whether a message of type T was delivered.
func SawMsg[T tea.Msg](d *Driver) bool {
	for _, m := range d.Seen {
		if _, ok := m.(T); ok {
			return true
		}
	}
	return false
}
