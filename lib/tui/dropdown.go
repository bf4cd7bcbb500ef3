// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is a single selectable item in a dropdown overlay.
type DropdownOption struct {
	Label string // Display text shown in the dropdown.
	Value string // Value stored in the form on selection.
}

// DropdownOverlay is a floating menu for picking one of a fixed set
// of values, such as a tenant status. The owner routes up/down/enter/
// escape to it while it is open and splices its rendering onto the
// view at (AnchorX, AnchorY).
type DropdownOverlay struct {
	Options []DropdownOption
	Cursor  int
	AnchorX int
	AnchorY int
	Field   string // Form field this dropdown sets.
}

// NewDropdown builds a dropdown over values with the cursor on
// current, or on the first option when current is not among them.
func NewDropdown(field string, values []string, current string) *DropdownOverlay {
	dropdown := &DropdownOverlay{Field: field}
	for index, value := range values {
		dropdown.Options = append(dropdown.Options, DropdownOption{Label: value, Value: value})
		if value == current {
			dropdown.Cursor = index
		}
	}
	return dropdown
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
}

// Selected returns the currently highlighted option.
func (dropdown *DropdownOverlay) Selected() DropdownOption {
	return dropdown.Options[dropdown.Cursor]
}

// Width returns the visible width of the rendered dropdown.
func (dropdown *DropdownOverlay) Width() int {
	maxLabelWidth := 0
	for _, option := range dropdown.Options {
		maxLabelWidth = max(maxLabelWidth, ansi.StringWidth(option.Label))
	}
	// " > LABEL " : marker prefix plus one column of padding each side.
	return 3 + maxLabelWidth + 2
}

// Render produces the dropdown lines for overlay splicing. Every line
// has the same visible width; the highlighted option uses the
// selection colors.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	totalWidth := dropdown.Width()

	backgroundStyle := lipgloss.NewStyle().
		Foreground(theme.ModalForeground).
		Background(theme.ModalBackground)
	selectedStyle := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)

	lines := make([]string, 0, len(dropdown.Options))
	for index, option := range dropdown.Options {
		style := backgroundStyle
		marker := " "
		if index == dropdown.Cursor {
			style = selectedStyle
			marker = ">"
		}
		label := lipgloss.NewStyle().Foreground(theme.StatusColor(option.Value)).Inherit(style).Render(option.Label)
		content := style.Render(" "+marker+" ") + label
		lines = append(lines, PadLine(content, totalWidth, style))
	}
	return lines
}
