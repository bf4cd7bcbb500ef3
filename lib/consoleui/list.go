// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mayuran19/mms-console/lib/resource"
	"github.com/mayuran19/mms-console/lib/tui"
)

// column is one table column. The last column absorbs the remaining
// width.
type column[E any] struct {
	title string
	width int
	value func(item E) string
	// status colors the cell with the theme's status palette.
	status bool
}

// listConfig adapts the generic list to one entity.
type listConfig[E any] struct {
	title     string
	columns   []column[E]
	emptyText string
	// readOnly hides the create, edit, and delete actions.
	readOnly bool
	// subtitle and header are re-evaluated on every render.
	subtitle func() string
	header   func() []string
	// extraKeys handles entity-specific bindings before the defaults.
	extraKeys func(message tea.KeyMsg) (tea.Cmd, bool)
	extraHelp []key.Binding
	// afterLoad runs after every successful load.
	afterLoad func() tea.Cmd
}

// Messages addressed to a listView by id.
type (
	listLoadedMsg struct {
		view int64
		err  error
	}
	listSavedMsg struct {
		view   int64
		err    error
		edited string
		known  map[string]bool
	}
	listDeletedMsg struct {
		view int64
		err  error
	}
	highlightTickMsg struct {
		view int64
	}
)

// listView is the terminal rendering of a resource screen: a table
// with a cursor, the create/edit form, the delete confirmation, and a
// fuzzy filter over the loaded rows.
type listView[E any] struct {
	env
	id     int64
	config listConfig[E]
	screen *resource.Screen[E]
	ctx    context.Context
	cancel context.CancelFunc

	items   []E
	matches []tui.Match
	cursor  int
	offset  int
	rows    int

	filter   tui.FilterModel
	form     *formModal[E]
	changes  *tui.ChangeTracker
	spinner  spinner.Model
	spinning bool
	ticking  bool
}

func newListView[E any](environment env, screen *resource.Screen[E], config listConfig[E]) *listView[E] {
	ctx, cancel := context.WithCancel(environment.ctx)
	return &listView[E]{
		env:     environment,
		id:      nextViewID(),
		config:  config,
		screen:  screen,
		ctx:     ctx,
		cancel:  cancel,
		changes: tui.NewChangeTracker(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		rows:    10,
	}
}

func (view *listView[E]) Init() tea.Cmd {
	return view.load()
}

func (view *listView[E]) Close() {
	view.cancel()
	view.screen.Close()
}

func (view *listView[E]) Capturing() bool {
	return view.form != nil || view.filter.Active || view.screen.PendingDelete() != nil
}

func (view *listView[E]) Help() string {
	switch {
	case view.form != nil:
		return "enter save  tab next field  space change  esc cancel"
	case view.screen.PendingDelete() != nil:
		return helpLine(view.keys.Confirm, view.keys.Cancel)
	case view.filter.Active:
		return "type to filter  enter keep  esc clear"
	}
	bindings := []key.Binding{view.keys.Up, view.keys.Down}
	if !view.config.readOnly {
		bindings = append(bindings, view.keys.Create, view.keys.Edit, view.keys.Delete)
	}
	bindings = append(bindings, view.config.extraHelp...)
	bindings = append(bindings, view.keys.FilterActivate, view.keys.Reload)
	return helpLine(bindings...)
}

// load starts a fetch of the current scope.
func (view *listView[E]) load() tea.Cmd {
	screen := view.screen
	ctx := view.ctx
	id := view.id
	fetch := func() tea.Msg {
		_, err := screen.Load(ctx)
		return listLoadedMsg{view: id, err: err}
	}
	return tea.Batch(fetch, view.startSpinner())
}

func (view *listView[E]) startSpinner() tea.Cmd {
	if view.spinning {
		return nil
	}
	view.spinning = true
	return view.spinner.Tick
}

// busy reports whether a request is in flight, which keeps the
// spinner running.
func (view *listView[E]) busy() bool {
	return view.screen.Loading() || view.screen.Deleting() || view.screen.Dialog().Submitting()
}

func (view *listView[E]) startHighlightTick() tea.Cmd {
	if view.ticking {
		return nil
	}
	view.ticking = true
	id := view.id
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return highlightTickMsg{view: id}
	})
}

// Selected returns the row under the cursor.
func (view *listView[E]) selected() (E, bool) {
	var zero E
	if view.cursor < 0 || view.cursor >= len(view.matches) {
		return zero, false
	}
	return view.items[view.matches[view.cursor].Index], true
}

// refresh reloads the rows from the screen and reapplies the filter,
// keeping the cursor on the same record when it still exists.
func (view *listView[E]) refresh() {
	var selectedKey string
	if item, ok := view.selected(); ok {
		selectedKey = view.screen.Entity().Key(item)
	}
	view.items = view.screen.Items()
	view.applyFilter()
	for index, match := range view.matches {
		if view.screen.Entity().Key(view.items[match.Index]) == selectedKey {
			view.cursor = index
			break
		}
	}
	view.clampCursor()
}

func (view *listView[E]) applyFilter() {
	columns := view.config.columns
	view.matches = view.filter.Apply(len(view.items), func(index int) []string {
		fields := make([]string, len(columns))
		for column, definition := range columns {
			fields[column] = definition.value(view.items[index])
		}
		return fields
	})
}

func (view *listView[E]) clampCursor() {
	view.cursor = max(min(view.cursor, len(view.matches)-1), 0)
	if view.cursor < view.offset {
		view.offset = view.cursor
	}
	if view.cursor >= view.offset+view.rows {
		view.offset = view.cursor - view.rows + 1
	}
	view.offset = max(min(view.offset, len(view.matches)-view.rows), 0)
}

func (view *listView[E]) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case listLoadedMsg:
		if message.view != view.id || errors.Is(message.err, resource.ErrSuperseded) {
			return nil
		}
		view.refresh()
		if message.err == nil && view.config.afterLoad != nil {
			return view.config.afterLoad()
		}

	case listSavedMsg:
		if message.view != view.id || view.form == nil {
			return nil
		}
		view.form.dialog.FinishSubmit(message.err)
		if message.err != nil {
			view.form.sync()
			return nil
		}
		view.form = nil
		view.refresh()
		now := view.now()
		for _, item := range view.items {
			itemKey := view.screen.Entity().Key(item)
			if itemKey == message.edited || (message.known != nil && !message.known[itemKey]) {
				view.changes.Mark(itemKey, tui.ChangeSaved, now)
			}
		}
		cmds := []tea.Cmd{view.startHighlightTick()}
		if view.config.afterLoad != nil {
			cmds = append(cmds, view.config.afterLoad())
		}
		return tea.Batch(cmds...)

	case listDeletedMsg:
		if message.view != view.id {
			return nil
		}
		view.refresh()
		if message.err == nil && view.config.afterLoad != nil {
			return view.config.afterLoad()
		}

	case highlightTickMsg:
		if message.view != view.id {
			return nil
		}
		view.ticking = false
		if view.changes.Pending(view.now()) {
			return view.startHighlightTick()
		}

	case spinner.TickMsg:
		if !view.spinning {
			return nil
		}
		if !view.busy() {
			view.spinning = false
			return nil
		}
		var cmd tea.Cmd
		view.spinner, cmd = view.spinner.Update(message)
		return cmd

	case tea.WindowSizeMsg:
		view.clampCursor()

	case tea.KeyMsg:
		return view.handleKey(message)
	}
	return nil
}

func (view *listView[E]) handleKey(message tea.KeyMsg) tea.Cmd {
	if view.form != nil {
		action, cmd := view.form.handleKey(message)
		switch action {
		case formSubmit:
			return tea.Batch(cmd, view.submit())
		case formCancel:
			view.form.dialog.Close()
			view.form = nil
		}
		return cmd
	}

	if view.screen.PendingDelete() != nil {
		if view.screen.Deleting() {
			return nil
		}
		switch {
		case key.Matches(message, view.keys.Confirm):
			return view.confirmDelete()
		case key.Matches(message, view.keys.Cancel):
			view.screen.CancelDelete()
		}
		return nil
	}

	if view.filter.Active {
		return view.handleFilterKey(message)
	}

	if view.config.extraKeys != nil {
		if cmd, handled := view.config.extraKeys(message); handled {
			return cmd
		}
	}

	switch {
	case key.Matches(message, view.keys.Up):
		view.cursor--
	case key.Matches(message, view.keys.Down):
		view.cursor++
	case key.Matches(message, view.keys.PageUp):
		view.cursor -= view.rows
	case key.Matches(message, view.keys.PageDown):
		view.cursor += view.rows
	case key.Matches(message, view.keys.Home):
		view.cursor = 0
	case key.Matches(message, view.keys.End):
		view.cursor = len(view.matches) - 1

	case key.Matches(message, view.keys.FilterActivate):
		view.filter.Active = true
		view.cursor = 0
		view.offset = 0
	case key.Matches(message, view.keys.FilterClear):
		if view.filter.Input != "" {
			view.filter.Clear()
			view.applyFilter()
		} else {
			view.screen.DismissBanner()
		}
	case key.Matches(message, view.keys.Dismiss):
		view.screen.DismissBanner()
	case key.Matches(message, view.keys.Reload):
		return view.load()

	case view.config.readOnly:
		return nil
	case key.Matches(message, view.keys.Create):
		if err := view.screen.OpenCreate(); err == nil {
			view.form = newFormModal(view.screen.Dialog(), view.keys, view.theme)
		}
	case key.Matches(message, view.keys.Edit):
		if item, ok := view.selected(); ok {
			if err := view.screen.OpenEdit(item); err == nil {
				view.form = newFormModal(view.screen.Dialog(), view.keys, view.theme)
			}
		}
	case key.Matches(message, view.keys.Delete):
		if item, ok := view.selected(); ok {
			view.screen.RequestDelete(item)
		}
	}
	view.clampCursor()
	return nil
}

func (view *listView[E]) handleFilterKey(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyEsc:
		view.filter.Clear()
	case tea.KeyEnter:
		view.filter.Active = false
	case tea.KeyBackspace:
		view.filter.HandleBackspace()
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			view.filter.HandleRune(character)
		}
		if message.Type == tea.KeySpace && len(message.Runes) == 0 {
			view.filter.HandleRune(' ')
		}
	default:
		return nil
	}
	view.applyFilter()
	view.cursor = 0
	view.offset = 0
	return nil
}

// submit starts saving the form. A blank required field shows the
// validation message in the form and sends nothing.
func (view *listView[E]) submit() tea.Cmd {
	dialog := view.form.dialog
	payload, err := dialog.BeginSubmit()
	if err != nil {
		return nil
	}
	entity := view.screen.Entity()
	var edited string
	var known map[string]bool
	if payload.Item != nil {
		edited = entity.Key(*payload.Item)
	} else {
		known = make(map[string]bool, len(view.items))
		for _, item := range view.items {
			known[entity.Key(item)] = true
		}
	}
	screen := view.screen
	ctx := view.ctx
	id := view.id
	save := func() tea.Msg {
		return listSavedMsg{view: id, err: screen.Save(ctx, payload), edited: edited, known: known}
	}
	return tea.Batch(save, view.startSpinner())
}

func (view *listView[E]) confirmDelete() tea.Cmd {
	if pending := view.screen.PendingDelete(); pending != nil {
		view.changes.Mark(view.screen.Entity().Key(*pending), tui.ChangeRemoved, view.now())
	}
	screen := view.screen
	ctx := view.ctx
	id := view.id
	remove := func() tea.Msg {
		return listDeletedMsg{view: id, err: screen.ConfirmDelete(ctx)}
	}
	return tea.Batch(remove, view.startSpinner())
}

func (view *listView[E]) View(width, height int) string {
	theme := view.theme
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	subtitle := ""
	if view.config.subtitle != nil {
		subtitle = view.config.subtitle()
	}
	lines := []string{renderHeading(theme, view.config.title, subtitle)}
	if view.config.header != nil {
		lines = append(lines, view.config.header()...)
	}
	if banner := view.screen.Banner(); banner != "" {
		lines = append(lines, renderBanner(theme, banner, width, true))
	}
	if bar := view.filter.View(theme, width); bar != "" {
		lines = append(lines, bar)
	}
	lines = append(lines, "")

	// Header, rows, and the status line below them.
	view.rows = max(height-len(lines)-2, 1)
	view.clampCursor()

	tableWidth := width - 2
	widths := view.columnWidths(tableWidth)
	lines = append(lines, view.renderHeader(widths))

	var body []string
	switch {
	case len(view.items) == 0 && view.screen.Loading():
		body = append(body, view.spinner.View()+" Loading…")
	case view.screen.Empty():
		body = append(body, faint.Render(view.config.emptyText))
	case len(view.matches) == 0 && view.filter.Input != "":
		body = append(body, faint.Render("No matches for "+fmt.Sprintf("%q", view.filter.Input)))
	default:
		end := min(view.offset+view.rows, len(view.matches))
		for position := view.offset; position < end; position++ {
			body = append(body, view.renderRow(position, widths, tableWidth))
		}
	}
	for len(body) < view.rows {
		body = append(body, "")
	}
	scrollbar := strings.Split(tui.RenderScrollbar(theme, view.rows, len(view.matches), view.rows, view.offset), "\n")
	for index := range body {
		body[index] = tui.PadLine(body[index], tableWidth, lipgloss.NewStyle()) + " " + scrollbar[index]
	}
	lines = append(lines, body...)

	status := fmt.Sprintf("%d shown", len(view.matches))
	if len(view.matches) != len(view.items) {
		status += fmt.Sprintf(" of %d", len(view.items))
	}
	if view.busy() && len(view.items) > 0 {
		status += "  " + view.spinner.View()
	}
	lines = append(lines, faint.Render(status))

	rendered := strings.Join(lines, "\n")
	if view.form != nil {
		return view.form.overlay(rendered, width, height)
	}
	if prompt := view.screen.DeletePrompt(); prompt != "" {
		footer := "y delete  esc cancel"
		if view.screen.Deleting() {
			footer = "Deleting…"
		}
		modal := tui.Modal{
			Title:  "Delete " + view.screen.Entity().Noun,
			Body:   strings.Split(wrapText(prompt, 56), "\n"),
			Footer: footer,
			Width:  56,
		}
		return modal.Overlay(rendered, theme, width, height)
	}
	return rendered
}

func (view *listView[E]) columnWidths(total int) []int {
	widths := make([]int, len(view.config.columns))
	used := 0
	for index, definition := range view.config.columns {
		widths[index] = definition.width
		used += definition.width + 1
	}
	last := len(widths) - 1
	if last >= 0 {
		widths[last] = max(total-used+widths[last]+1, widths[last])
	}
	return widths
}

func (view *listView[E]) renderHeader(widths []int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(view.theme.HeaderForeground)
	cells := make([]string, len(widths))
	for index, definition := range view.config.columns {
		cells[index] = style.Render(fitCell(definition.title, widths[index]))
	}
	return strings.Join(cells, " ")
}

func (view *listView[E]) renderRow(position int, widths []int, tableWidth int) string {
	match := view.matches[position]
	item := view.items[match.Index]
	theme := view.theme

	base := lipgloss.NewStyle().Foreground(theme.NormalText)
	if kind, ok := view.changes.Active(view.screen.Entity().Key(item), view.now()); ok {
		base = base.Background(theme.ChangeBackground(kind))
	}
	if position == view.cursor {
		base = base.Background(theme.SelectedBackground).Foreground(theme.SelectedForeground).Bold(true)
	}

	cells := make([]string, len(widths))
	for index, definition := range view.config.columns {
		text := fitCell(definition.value(item), widths[index])
		style := base
		if definition.status {
			style = style.Foreground(theme.StatusColor(definition.value(item)))
		}
		if index == match.Field {
			cells[index] = tui.HighlightMatches(text, match.Positions, style, theme)
		} else {
			cells[index] = style.Render(text)
		}
	}
	return tui.PadLine(strings.Join(cells, base.Render(" ")), tableWidth, base)
}

// fitCell truncates or pads text to exactly width columns.
func fitCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) > width {
		return ansi.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-ansi.StringWidth(text))
}

// wrapText wraps plain text at word boundaries.
func wrapText(text string, width int) string {
	return ansi.Wordwrap(text, width, "")
}
