// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"fmt"
	"strings"
)

// Entity describes one kind of managed record.
type Entity[E any] struct {
	// Noun names the record in titles and prompts ("tenant").
	Noun string

	Fields []Field

	// Populate returns the form values for an existing record.
	Populate func(item E) Values

	// Derive updates derived fields after the field named changed was
	// set. Nil when nothing is derived.
	Derive func(mode Mode, changed string, values Values)

	CreatePayload func(values Values) any
	UpdatePayload func(values Values) any

	// Key returns the record's stable identifier.
	Key func(item E) string

	// Label names the record to the operator, e.g. in the delete
	// confirmation.
	Label func(item E) string
}

// Field returns the field with key.
func (e Entity[E]) Field(key string) (Field, bool) {
	for _, field := range e.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Defaults returns the create-mode starting values.
func (e Entity[E]) Defaults() Values {
	values := make(Values, len(e.Fields))
	for _, field := range e.Fields {
		values[field.Key] = field.Default
	}
	return values
}

// Missing returns the labels of required, visible fields whose value
// is blank, in field order.
func (e Entity[E]) Missing(mode Mode, values Values) []string {
	var missing []string
	for _, field := range e.Fields {
		if field.Required && field.Visible(mode) && strings.TrimSpace(values[field.Key]) == "" {
			missing = append(missing, field.Label)
		}
	}
	return missing
}

// Problems runs each visible field's Check on non-blank values and
// returns the messages by field key.
func (e Entity[E]) Problems(mode Mode, values Values) map[string]string {
	problems := make(map[string]string)
	for _, field := range e.Fields {
		if field.Check == nil || !field.Visible(mode) || values[field.Key] == "" {
			continue
		}
		if err := field.Check(values[field.Key]); err != nil {
			problems[field.Key] = err.Error()
		}
	}
	return problems
}

// Title is the dialog heading for mode.
func (e Entity[E]) Title(mode Mode) string {
	if mode == ModeEdit {
		return "Edit " + titleCase(e.Noun)
	}
	return "Create " + titleCase(e.Noun)
}

// DeletePrompt is the confirmation text naming item.
func (e Entity[E]) DeletePrompt(item E) string {
	return fmt.Sprintf("Are you sure you want to delete %s \"%s\"? This action cannot be undone.", e.Noun, e.Label(item))
}

// SaveFailure is the message shown when a save fails without text.
func (e Entity[E]) SaveFailure() string {
	return "Failed to save " + e.Noun
}

func titleCase(noun string) string {
	words := strings.Fields(noun)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Operations are the network calls behind a screen. Scope narrows the
// list: a status filter for tenants, the owning tenant for tenant
// users. Create and Update receive the body built by the entity's
// payload functions.
type Operations[E any] interface {
	List(ctx context.Context, scope string) ([]E, error)
	Create(ctx context.Context, scope string, body any) error
	Update(ctx context.Context, scope string, item E, body any) error
	Delete(ctx context.Context, scope string, item E) error
}
