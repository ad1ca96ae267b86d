package tui

import (
	"context"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/lazydb/internal/bus"
)

// Options configure a Program.
type Options struct {
	TickRate  float64 // ticks per second
	FrameRate float64 // renders per second
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
}

type (
	frameMsg   string
	clearMsg   struct{}
	suspendMsg struct{}
)

// Program runs bubbletea purely as a terminal driver: raw mode, key
// decoding, resize and suspend. State lives in the application loop; the
// model below only forwards input and shows the last frame.
type Program struct {
	program *tea.Program
	events  *bus.Queue[Event]
	tick    *time.Ticker
	render  *time.Ticker
	resumed chan struct{}
	done    chan struct{}

	mu     sync.Mutex
	width  int
	height int
	runErr error
}

type driverModel struct {
	p    *Program
	view string
}

func (m *driverModel) Init() tea.Cmd { return nil }

func (m *driverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		_ = m.p.events.Send(Event{Kind: KeyEvent, Key: msg})
	case tea.WindowSizeMsg:
		m.p.mu.Lock()
		m.p.width, m.p.height = msg.Width, msg.Height
		m.p.mu.Unlock()
		_ = m.p.events.Send(Event{Kind: ResizeEvent, Width: msg.Width, Height: msg.Height})
	case frameMsg:
		m.view = string(msg)
	case clearMsg:
		return m, tea.ClearScreen
	case suspendMsg:
		return m, tea.Suspend
	case tea.ResumeMsg:
		select {
		case m.p.resumed <- struct{}{}:
		default:
		}
	}
	return m, nil
}

func (m *driverModel) View() string { return m.view }

func rateInterval(perSecond float64) time.Duration {
	if perSecond <= 0 {
		perSecond = 1
	}
	return time.Duration(float64(time.Second) / perSecond)
}

// Start enters the terminal and begins producing events.
func Start(opts Options) *Program {
	p := &Program{
		events:  bus.NewQueue[Event](),
		tick:    time.NewTicker(rateInterval(opts.TickRate)),
		render:  time.NewTicker(rateInterval(opts.FrameRate)),
		resumed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	var teaOpts []tea.ProgramOption
	if opts.AltScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		teaOpts = append(teaOpts, tea.WithOutput(opts.Output))
	}
	p.program = tea.NewProgram(&driverModel{p: p}, teaOpts...)

	go func() {
		_, err := p.program.Run()
		p.mu.Lock()
		p.runErr = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p
}

func (p *Program) NextEvent(ctx context.Context) (Event, error) {
	for {
		if ev, ok := p.events.TryRecv(); ok {
			return ev, nil
		}
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-p.done:
			return Event{Kind: QuitEvent}, nil
		case <-p.events.Ready():
		case <-p.tick.C:
			return Event{Kind: TickEvent}, nil
		case <-p.render.C:
			return Event{Kind: RenderEvent}, nil
		}
	}
}

func (p *Program) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

func (p *Program) Draw(view string) error {
	p.program.Send(frameMsg(view))
	return nil
}

func (p *Program) Clear() error {
	p.program.Send(clearMsg{})
	return nil
}

func (p *Program) Suspend(ctx context.Context) error {
	p.program.Send(suspendMsg{})
	select {
	case <-p.resumed:
		return nil
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop leaves the terminal and reports how the program ended.
func (p *Program) Stop() error {
	p.tick.Stop()
	p.render.Stop()
	p.program.Quit()
	<-p.done
	p.events.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runErr
}
