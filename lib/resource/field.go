// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"fmt"
	"strings"
)

// Mode selects whether a dialog creates a new record or edits one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Kind is the input control a field uses.
type Kind int

const (
	KindText Kind = iota
	KindPassword
	KindChoice
	KindToggle
)

// Field describes one form input.
type Field struct {
	Key   string
	Label string
	Kind  Kind

	// Choices are the allowed values of a KindChoice field.
	Choices []string

	// Default is the value a create-mode form starts with.
	Default string

	Required bool

	// Immutable fields are shown but disabled in edit mode.
	Immutable bool

	// CreateOnly fields are hidden in edit mode.
	CreateOnly bool

	// Derived fields are computed from other fields and never accept
	// input.
	Derived bool

	Hint string
	// EditHint replaces Hint in edit mode when set.
	EditHint string

	// Check reports a problem the server is expected to reject. It is
	// advisory and never blocks submission.
	Check func(value string) error
}

// Visible reports whether the field is shown in mode.
func (f Field) Visible(mode Mode) bool {
	return !(f.CreateOnly && mode == ModeEdit)
}

// Editable reports whether the field accepts input in mode, ignoring
// any submission in progress.
func (f Field) Editable(mode Mode) bool {
	switch {
	case !f.Visible(mode), f.Derived:
		return false
	case f.Immutable && mode == ModeEdit:
		return false
	}
	return true
}

// HintFor returns the help text for mode.
func (f Field) HintFor(mode Mode) string {
	if mode == ModeEdit && f.EditHint != "" {
		return f.EditHint
	}
	return f.Hint
}

// Values holds form values by field key. Toggle fields hold "true" or
// "false".
type Values map[string]string

// Bool reads a toggle value.
func (v Values) Bool(key string) bool {
	return v[key] == "true"
}

// FormatBool renders a toggle value.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// ValidationError lists the required fields that are blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required: %s", strings.Join(e.Missing, ", "))
}
