package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pmeridian/gridtrace/internal/cpf"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// Summary renders a styled run summary for the terminal.
func Summary(caseName string, opts cpf.Options, result *cpf.Result) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("continuation power flow: "+caseName) + "\n")

	status := okStyle.Render("success")
	if !result.Success {
		status = failStyle.Render("failed")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("status", status)
	row("reason", result.Reason)
	row("parameterization", opts.Parameterization.String())
	row("stop at", opts.StopAt.String())
	row("steps", fmt.Sprintf("%d", result.Steps))
	row("max lambda", fmt.Sprintf("%.6f", result.MaxLambda()))
	row("final mismatch", fmt.Sprintf("%.3e", result.NormF))

	return b.String()
}
