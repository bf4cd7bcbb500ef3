// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the console. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Tenant status and user activity.
	StatusActive    lipgloss.Color
	StatusInactive  lipgloss.Color
	StatusSuspended lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	AccentColor      lipgloss.Color

	// Error banners and inline dialog errors.
	ErrorForeground lipgloss.Color
	ErrorBackground lipgloss.Color

	// Background tint for rows that were just saved or removed.
	ChangedBackground lipgloss.Color
	RemovedBackground lipgloss.Color

	// Filter match highlighting.
	MatchBackground lipgloss.Color

	// Modal dialogs.
	ModalForeground lipgloss.Color
	ModalBackground lipgloss.Color
}

// StatusColor returns the color for a tenant status (ACTIVE,
// INACTIVE, SUSPENDED) or the "Active"/"Inactive" labels used for
// users. Unknown values return FaintText.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case "ACTIVE", "Active":
		return theme.StatusActive
	case "INACTIVE", "Inactive":
		return theme.StatusInactive
	case "SUSPENDED":
		return theme.StatusSuspended
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusActive:    lipgloss.Color("114"), // green
	StatusInactive:  lipgloss.Color("245"), // gray
	StatusSuspended: lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	AccentColor:      lipgloss.Color("75"),

	ErrorForeground: lipgloss.Color("255"),
	ErrorBackground: lipgloss.Color("88"),

	ChangedBackground: lipgloss.Color("58"), // dark amber
	RemovedBackground: lipgloss.Color("52"), // dark red

	MatchBackground: lipgloss.Color("58"),

	ModalForeground: lipgloss.Color("252"),
	ModalBackground: lipgloss.Color("237"),
}
