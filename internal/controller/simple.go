package controller

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"luxdeck/internal/model"
)

// SimpleUI prints plain tables, suitable for pipes and scripts.
type SimpleUI struct {
	output io.Writer
}

// NewSimpleUI creates a plain-text UI writing to output.
func NewSimpleUI(output io.Writer) *SimpleUI {
	return &SimpleUI{output: output}
}

// ShowScenes prints the scene list as a table.
func (u *SimpleUI) ShowScenes(scenes []model.SceneSummary) error {
	table := tablewriter.NewWriter(u.output)
	table.SetHeader([]string{"ID", "Name", "Universes", "Channels"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, s := range scenes {
		table.Append([]string{
			string(s.ID),
			s.Name,
			strconv.Itoa(s.Universes),
			strconv.Itoa(s.Channels),
		})
	}

	table.Render()

	return nil
}

// ShowStatus prints the rig status as key/value lines.
func (u *SimpleUI) ShowStatus(status RigStatus) error {
	playing := "-"
	if status.Playing != "" {
		playing = string(status.Playing)
	}

	session := "none"
	if status.LiveSession {
		session = "active"
		if status.LiveScene != "" {
			session += " (" + string(status.LiveScene) + ")"
		}
	}

	_, err := fmt.Fprintf(u.output, "playing: %s\nlive session: %s\nmaster: %.0f%%\n",
		playing, session, status.Master*100)

	return err
}

// Message prints a status line.
func (u *SimpleUI) Message(text string) {
	_, _ = fmt.Fprintln(u.output, text)
}
