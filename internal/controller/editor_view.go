package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"luxdeck/internal/model"
)

var (
	editorTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("14")).
				Bold(true)

	editorDirtyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	editorLiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1")).
			Bold(true).
			Padding(0, 1)

	editorSilentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8")).
				Padding(0, 1)

	editorCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("14"))

	editorFixtureStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("13")).
				Bold(true)

	editorDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	editorStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	editorConfirmStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("11")).
				Padding(1, 2)
)

func (m editorModel) View() string {
	if m.closed {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.viewMode == model.ViewFixture {
		b.WriteString(m.renderFixtures())
	} else {
		b.WriteString(m.renderRaw())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	if m.confirming {
		return b.String() + "\n\n" + editorConfirmStyle.Render(
			"Scene has unsaved edits.\n\nDiscard and close? (y/n)")
	}

	return b.String()
}

func (m editorModel) renderHeader() string {
	title := editorTitleStyle.Render(m.scene.Name)

	dirty := ""
	if m.store.Dirty() {
		dirty = " " + editorDirtyStyle.Render("●")
	}

	badge := editorSilentStyle.Render("SILENT")
	if m.sessions.Live() {
		badge = editorLiveStyle.Render("LIVE")
	}

	return fmt.Sprintf("%s%s  universe %s  %s", title, dirty, m.currentUniverse(), badge)
}

// renderRaw draws one page of channel faders for the current universe.
func (m editorModel) renderRaw() string {
	page := m.rawPage()

	var b strings.Builder

	b.WriteString(editorDimStyle.Render(
		fmt.Sprintf("channels %d–%d  (page %d/%d)",
			page.Start+1, page.Start+len(page.Values), page.Page+1, page.PageCount)))
	b.WriteString("\n")

	for i, value := range page.Values {
		line := fmt.Sprintf(" %3d %s %3d", page.Start+i+1, renderBar(value), value)

		if i == m.cursor {
			line = editorCursorStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// renderFixtures draws the plan-grouped view: one block per fixture, one
// line per mapped parameter.
func (m editorModel) renderFixtures() string {
	groups := m.fixtureGroups()
	if len(groups) == 0 {
		return editorDimStyle.Render("no fixtures mapped to this universe") + "\n"
	}

	var b strings.Builder

	index := 0

	for _, group := range groups {
		b.WriteString(editorFixtureStyle.Render(group.Fixture))
		b.WriteString("\n")

		for _, p := range group.Parameters {
			line := fmt.Sprintf("   %-12s %s %3d  %s",
				p.Name, renderBar(p.Value), p.Value, editorDimStyle.Render(fmt.Sprintf("ch %d", p.Channel)))

			if index == m.cursor {
				line = editorCursorStyle.Render(fmt.Sprintf("   %-12s %s %3d  ch %d",
					p.Name, renderBar(p.Value), p.Value, p.Channel))
			}

			b.WriteString(line)
			b.WriteString("\n")

			index++
		}
	}

	return b.String()
}

func (m editorModel) renderFooter() string {
	footer := m.help.View(m.keys)

	if m.status != "" {
		footer = editorStatusStyle.Render(m.status) + "\n" + footer
	}

	return footer
}

// renderBar draws a 20-cell level bar for a channel value.
func renderBar(value byte) string {
	const width = 20

	filled := int(value) * width / 255

	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}
