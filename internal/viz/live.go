package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

// StepMsg carries one accepted continuation step into the live view.
type StepMsg struct {
	Step     int
	Lambda   float64
	StepSize float64
	Iters    int
}

// DoneMsg signals the end of the run.
type DoneMsg struct {
	Reason string
	Steps  int
}

// LiveModel is a bubbletea model showing the continuation trace as it runs.
// Feed it through the Observer attached to a Tracer running in another
// goroutine.
type LiveModel struct {
	caseName string
	events   chan tea.Msg
	lambdas  []float64
	last     StepMsg
	done     bool
	reason   string
	width    int
	height   int
}

func NewLiveModel(caseName string) *LiveModel {
	return &LiveModel{
		caseName: caseName,
		events:   make(chan tea.Msg, 64),
		width:    72,
		height:   12,
	}
}

// Observer returns the cpf.Observer that feeds this model.
func (m *LiveModel) Observer() cpf.Observer { return liveObserver{ch: m.events} }

type liveObserver struct{ ch chan tea.Msg }

func (o liveObserver) OnIteration(it int, normF float64) {}

func (o liveObserver) OnStep(step int, lam, stepSize float64, iters int) {
	o.ch <- StepMsg{Step: step, Lambda: lam, StepSize: stepSize, Iters: iters}
}

func (o liveObserver) OnDone(reason string, steps int) {
	o.ch <- DoneMsg{Reason: reason, Steps: steps}
}

// RunLive drives run in a background goroutine while the live view follows
// its observer events, and joins the goroutine before returning the trace
// outcome. The view exits on its own once run emits OnDone.
func RunLive(m *LiveModel, run func() (*cpf.Result, error), progOpts ...tea.ProgramOption) (*cpf.Result, error) {
	var result *cpf.Result
	var runErr error
	done := make(chan struct{})
	go func() {
		result, runErr = run()
		close(done)
	}()

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return nil, err
	}
	<-done
	return result, runErr
}

func (m *LiveModel) Init() tea.Cmd { return m.wait() }

func (m *LiveModel) wait() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 16 {
			m.width = msg.Width - 12
		}
	case StepMsg:
		m.last = msg
		m.lambdas = append(m.lambdas, msg.Lambda)
		return m, m.wait()
	case DoneMsg:
		m.done = true
		m.reason = msg.Reason
		return m, tea.Quit
	}
	return m, nil
}

func (m *LiveModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("tracing "+m.caseName) + "\n\n")
	if len(m.lambdas) > 1 {
		b.WriteString(asciigraph.Plot(m.lambdas,
			asciigraph.Width(m.width),
			asciigraph.Height(m.height)) + "\n\n")
	}
	b.WriteString(fmt.Sprintf("step %d  lambda %.6f  step size %.4g  (%d corrector iterations)\n",
		m.last.Step, m.last.Lambda, m.last.StepSize, m.last.Iters))
	if m.done {
		b.WriteString(okStyle.Render(m.reason) + "\n")
	} else {
		b.WriteString(valueStyle.Render("q to quit") + "\n")
	}
	return b.String()
}
