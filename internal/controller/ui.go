// Package controller provides the console front ends: plain-text output for
// scripts and pipes, and the interactive editor TUI.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"luxdeck/internal/model"
)

// UI displays scene lists and rig status. Implementations differ in output
// method (plain text vs. styled terminal).
type UI interface {
	ShowScenes(scenes []model.SceneSummary) error
	ShowStatus(status RigStatus) error
	Message(text string)
}

// RigStatus is what the status command displays.
type RigStatus struct {
	Playing     model.SceneID
	LiveSession bool
	LiveScene   model.SceneID
	Master      float64
}

// NewUI creates a UI for the command's output. TTY output gets the styled
// variant; redirected output gets plain text.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd.OutOrStdout())
}

// IsTTY checks if the given writer is a terminal.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
