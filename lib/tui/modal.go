// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Modal is a bordered box rendered as a centered overlay on top of the
// main view: a bold title, body lines, and a faint footer of key
// hints. Body lines may already carry styling; the modal pads each to
// the inner width with the modal background.
type Modal struct {
	Title  string
	Body   []string
	Footer string

	// Width is the preferred inner width. Zero sizes the modal to its
	// widest line.
	Width int
}

// Modal chrome overhead: 2 columns border + 2 columns padding
// horizontally; 2 lines border + title + blank + blank + footer
// vertically.
const (
	modalChromeWidth  = 4
	modalChromeHeight = 6
	modalMinWidth     = 30
	modalMargin       = 2
)

// Render produces the modal lines for [SpliceOverlay] and the anchor
// that centers them on a screen of the given size.
func (modal Modal) Render(theme Theme, screenWidth, screenHeight int) ([]string, int, int) {
	innerWidth := modal.Width
	if innerWidth == 0 {
		innerWidth = ansi.StringWidth(modal.Title)
		for _, line := range modal.Body {
			innerWidth = max(innerWidth, ansi.StringWidth(line))
		}
		innerWidth = max(innerWidth, ansi.StringWidth(modal.Footer))
	}
	innerWidth = max(innerWidth, modalMinWidth)
	// Leave a margin so the underlying view stays visible, but never
	// exceed the screen.
	if limit := screenWidth - modalChromeWidth - modalMargin*2; limit >= modalMinWidth && innerWidth > limit {
		innerWidth = limit
	}
	if limit := screenWidth - modalChromeWidth; limit > 0 && innerWidth > limit {
		innerWidth = limit
	}

	background := lipgloss.NewStyle().Background(theme.ModalBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.ModalBackground)
	footerStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Background(theme.ModalBackground)
	padding := background.Render(" ")

	body := modal.Body
	if limit := screenHeight - modalChromeHeight; limit > 0 && len(body) > limit {
		body = body[:limit]
	}

	lines := make([]string, 0, len(body)+4)
	lines = append(lines, PadLine(titleStyle.Render(modal.Title), innerWidth, background))
	lines = append(lines, PadLine("", innerWidth, background))
	for _, line := range body {
		lines = append(lines, PadLine(line, innerWidth, background))
	}
	if modal.Footer != "" {
		lines = append(lines, PadLine("", innerWidth, background))
		lines = append(lines, PadLine(footerStyle.Render(modal.Footer), innerWidth, background))
	}
	for index, line := range lines {
		lines[index] = padding + line + padding
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		BorderBackground(theme.ModalBackground)
	rendered := strings.Split(borderStyle.Render(strings.Join(lines, "\n")), "\n")

	renderedWidth := 0
	if len(rendered) > 0 {
		renderedWidth = ansi.StringWidth(rendered[0])
	}
	anchorX, anchorY := Center(screenWidth, screenHeight, renderedWidth, len(rendered))
	return rendered, anchorX, anchorY
}

// Overlay renders the modal and splices it onto view.
func (modal Modal) Overlay(view string, theme Theme, screenWidth, screenHeight int) string {
	lines, anchorX, anchorY := modal.Render(theme, screenWidth, screenHeight)
	return SpliceOverlay(view, lines, anchorX, anchorY)
}
