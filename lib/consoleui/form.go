// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayuran19/mms-console/lib/resource"
	"github.com/mayuran19/mms-console/lib/tui"
)

// formModal renders a resource dialog as a modal and turns keystrokes
// into dialog edits. The dialog holds the values; the text inputs only
// hold cursor state and are resynchronized after every edit, so derived
// fields like the tenant slug update as the name is typed.
type formModal[E any] struct {
	dialog *resource.Dialog[E]
	keys   KeyMap
	theme  tui.Theme

	fields   []resource.Field
	inputs   map[string]*textinput.Model
	focus    int
	dropdown *tui.DropdownOverlay
}

// formAction is what the list should do after a key reached the form.
type formAction int

const (
	formContinue formAction = iota
	formSubmit
	formCancel
)

func newFormModal[E any](dialog *resource.Dialog[E], keys KeyMap, theme tui.Theme) *formModal[E] {
	form := &formModal[E]{
		dialog: dialog,
		keys:   keys,
		theme:  theme,
		fields: dialog.Fields(),
		inputs: make(map[string]*textinput.Model),
	}
	for _, field := range form.fields {
		if field.Kind != resource.KindText && field.Kind != resource.KindPassword {
			continue
		}
		input := textinput.New()
		input.Prompt = ""
		input.Width = 40
		input.CharLimit = 255
		input.SetValue(dialog.Value(field.Key))
		if field.Kind == resource.KindPassword {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		form.inputs[field.Key] = &input
	}
	form.focus = -1
	form.moveFocus(1)
	return form
}

// moveFocus advances to the next enabled field in direction delta.
func (form *formModal[E]) moveFocus(delta int) tea.Cmd {
	if form.focus >= 0 {
		if input, ok := form.inputs[form.fields[form.focus].Key]; ok {
			input.Blur()
		}
	}
	count := len(form.fields)
	start := form.focus
	for step := 0; step < count; step++ {
		next := ((start+delta*(step+1))%count + count) % count
		if form.dialog.FieldEnabled(form.fields[next].Key) {
			form.focus = next
			if input, ok := form.inputs[form.fields[next].Key]; ok {
				return input.Focus()
			}
			return nil
		}
	}
	return nil
}

// focused returns the focused field, if any.
func (form *formModal[E]) focused() (resource.Field, bool) {
	if form.focus < 0 || form.focus >= len(form.fields) {
		return resource.Field{}, false
	}
	return form.fields[form.focus], true
}

// sync copies dialog values back into every input except the one being
// typed in.
func (form *formModal[E]) sync() {
	focused, _ := form.focused()
	for fieldKey, input := range form.inputs {
		if fieldKey == focused.Key && input.Focused() {
			continue
		}
		if value := form.dialog.Value(fieldKey); input.Value() != value {
			input.SetValue(value)
		}
	}
}

// set writes a value into the dialog. Rejected edits (a disabled
// field, an invalid choice) leave the form unchanged.
func (form *formModal[E]) set(fieldKey, value string) {
	if err := form.dialog.Set(fieldKey, value); err != nil {
		return
	}
	form.sync()
}

// cycleChoice moves a choice field to the next or previous choice.
func (form *formModal[E]) cycleChoice(field resource.Field, delta int) {
	if len(field.Choices) == 0 {
		return
	}
	index := slices.Index(field.Choices, form.dialog.Value(field.Key))
	index = ((index+delta)%len(field.Choices) + len(field.Choices)) % len(field.Choices)
	form.set(field.Key, field.Choices[index])
}

func (form *formModal[E]) handleKey(message tea.KeyMsg) (formAction, tea.Cmd) {
	if form.dialog.Submitting() {
		return formContinue, nil
	}

	if form.dropdown != nil {
		switch message.Type {
		case tea.KeyUp:
			form.dropdown.MoveUp()
		case tea.KeyDown, tea.KeyTab:
			form.dropdown.MoveDown()
		case tea.KeyEnter:
			form.set(form.dropdown.Field, form.dropdown.Selected().Value)
			form.dropdown = nil
		case tea.KeyEsc:
			form.dropdown = nil
		}
		return formContinue, nil
	}

	field, hasFocus := form.focused()
	switch {
	case message.Type == tea.KeyEsc:
		return formCancel, nil
	case message.Type == tea.KeyCtrlS:
		return formSubmit, nil
	case key.Matches(message, form.keys.NextField):
		return formContinue, form.moveFocus(1)
	case key.Matches(message, form.keys.PreviousField):
		return formContinue, form.moveFocus(-1)
	}

	if !hasFocus {
		if message.Type == tea.KeyEnter {
			return formSubmit, nil
		}
		return formContinue, nil
	}

	switch field.Kind {
	case resource.KindChoice:
		switch {
		case message.Type == tea.KeyEnter:
			form.dropdown = tui.NewDropdown(field.Key, field.Choices, form.dialog.Value(field.Key))
		case message.Type == tea.KeyLeft:
			form.cycleChoice(field, -1)
		case key.Matches(message, form.keys.Toggle):
			form.cycleChoice(field, 1)
		}
		return formContinue, nil

	case resource.KindToggle:
		switch {
		case message.Type == tea.KeyEnter:
			return formSubmit, nil
		case key.Matches(message, form.keys.Toggle):
			form.set(field.Key, resource.FormatBool(!form.dialog.Values().Bool(field.Key)))
		}
		return formContinue, nil
	}

	if message.Type == tea.KeyEnter {
		return formSubmit, nil
	}
	input := form.inputs[field.Key]
	updated, cmd := input.Update(message)
	*input = updated
	if input.Value() != form.dialog.Value(field.Key) {
		form.set(field.Key, input.Value())
	}
	return formContinue, cmd
}

// modal builds the overlay for the current dialog state.
func (form *formModal[E]) modal() tui.Modal {
	label := lipgloss.NewStyle().Foreground(form.theme.NormalText).Background(form.theme.ModalBackground).Width(14)
	faint := lipgloss.NewStyle().Foreground(form.theme.FaintText).Background(form.theme.ModalBackground)
	disabled := faint.Italic(true)
	warning := lipgloss.NewStyle().Foreground(form.theme.StatusSuspended).Background(form.theme.ModalBackground)
	focusMarker := lipgloss.NewStyle().Foreground(form.theme.AccentColor).Background(form.theme.ModalBackground).Render("▸ ")
	mode := form.dialog.Mode()
	problems := form.dialog.Problems()

	var body []string
	if message := form.dialog.Error(); message != "" {
		body = append(body, renderBanner(form.theme, message, 60, false), "")
	}
	for index, field := range form.fields {
		marker := faint.Render("  ")
		if index == form.focus {
			marker = focusMarker
		}
		name := field.Label
		if field.Required {
			name += " *"
		}

		var value string
		enabled := form.dialog.FieldEnabled(field.Key)
		switch field.Kind {
		case resource.KindChoice:
			current := form.dialog.Value(field.Key)
			value = lipgloss.NewStyle().Foreground(form.theme.StatusColor(current)).Background(form.theme.ModalBackground).Render("‹ " + current + " ›")
		case resource.KindToggle:
			box := "[ ]"
			if form.dialog.Values().Bool(field.Key) {
				box = "[x]"
			}
			value = box
		default:
			if enabled {
				value = form.inputs[field.Key].View()
			} else {
				value = disabled.Render(form.dialog.Value(field.Key))
			}
		}
		if !enabled && field.Kind != resource.KindText && field.Kind != resource.KindPassword {
			value = disabled.Render(value)
		}
		body = append(body, marker+label.Render(name)+value)

		if problem, ok := problems[field.Key]; ok {
			body = append(body, "                "+warning.Render(problem))
		} else if hint := field.HintFor(mode); hint != "" {
			body = append(body, "                "+faint.Render(hint))
		}
	}

	footer := "enter save  tab next  esc cancel"
	switch {
	case form.dialog.Submitting():
		footer = "Saving…"
	case !form.dialog.CanSubmit():
		footer = "required: " + strings.Join(form.dialog.Missing(), ", ") + "  esc cancel"
	}
	return tui.Modal{
		Title:  form.dialog.Entity().Title(mode),
		Body:   body,
		Footer: footer,
		Width:  64,
	}
}

// overlay splices the form, and its open dropdown, onto view.
func (form *formModal[E]) overlay(view string, width, height int) string {
	lines, anchorX, anchorY := form.modal().Render(form.theme, width, height)
	view = tui.SpliceOverlay(view, lines, anchorX, anchorY)
	if form.dropdown != nil {
		// Open beside the focused row: border, padding, title, gap,
		// optional error lines, then two lines per field above it.
		row := anchorY + 3 + form.rowOffset()
		form.dropdown.AnchorX = anchorX + 18
		form.dropdown.AnchorY = row
		view = tui.SpliceOverlay(view, form.dropdown.Render(form.theme), form.dropdown.AnchorX, form.dropdown.AnchorY)
	}
	return view
}

// rowOffset counts body lines above the focused field.
func (form *formModal[E]) rowOffset() int {
	offset := 0
	if form.dialog.Error() != "" {
		offset += 2
	}
	mode := form.dialog.Mode()
	problems := form.dialog.Problems()
	for index, field := range form.fields {
		if index == form.focus {
			break
		}
		offset++
		if _, ok := problems[field.Key]; ok || field.HintFor(mode) != "" {
			offset++
		}
	}
	return offset
}
