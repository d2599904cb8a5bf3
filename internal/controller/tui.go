package controller

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"luxdeck/internal/model"
)

// TUI is the styled terminal variant of the list/status output.
type TUI struct {
	output io.Writer
}

// NewTUI creates a styled UI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// ShowScenes prints the scene list with column styling.
func (t *TUI) ShowScenes(scenes []model.SceneSummary) error {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true)

	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	fmt.Fprintln(t.output, headerStyle.Render(fmt.Sprintf("%-38s %-24s %9s %9s", "ID", "Name", "Universes", "Channels")))

	for _, s := range scenes {
		fmt.Fprintf(t.output, "%s %s %s %s\n",
			idStyle.Render(fmt.Sprintf("%-38s", s.ID)),
			nameStyle.Render(fmt.Sprintf("%-24s", s.Name)),
			countStyle.Render(fmt.Sprintf("%9s", strconv.Itoa(s.Universes))),
			countStyle.Render(fmt.Sprintf("%9s", strconv.Itoa(s.Channels))),
		)
	}

	return nil
}

// ShowStatus prints the rig status with a live badge.
func (t *TUI) ShowStatus(status RigStatus) error {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	playing := "-"
	if status.Playing != "" {
		playing = string(status.Playing)
	}

	session := "none"

	if status.LiveSession {
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("1")).
			Bold(true).
			Render(" LIVE ")

		session = badge
		if status.LiveScene != "" {
			session += " " + string(status.LiveScene)
		}
	}

	fmt.Fprintf(t.output, "%s %s\n%s %s\n%s %s\n",
		labelStyle.Render("playing:"), valueStyle.Render(playing),
		labelStyle.Render("session:"), session,
		labelStyle.Render("master: "), valueStyle.Render(fmt.Sprintf("%.0f%%", status.Master*100)),
	)

	return nil
}

// Message prints a status line.
func (t *TUI) Message(text string) {
	_, _ = fmt.Fprintln(t.output, text)
}
