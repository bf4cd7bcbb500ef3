// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Payload is what a dialog submits: the mode, the record being edited
// (nil in create mode), and the request body built from the form.
type Payload[E any] struct {
	Mode Mode
	Item *E
	Body any
}

// SaveFunc persists a submitted payload. A non-nil error keeps the
// dialog open and its text is shown to the operator.
type SaveFunc[E any] func(ctx context.Context, payload Payload[E]) error

// Errors returned by dialog operations.
var (
	ErrDialogClosed = errors.New("resource: dialog is not open")
	ErrSubmitting   = errors.New("resource: submission in progress")
)

// Dialog is the create/edit form for one entity. It is safe for
// concurrent use; a submission typically runs on another goroutine
// while the UI reads the dialog's state.
type Dialog[E any] struct {
	entity Entity[E]

	mu         sync.Mutex
	open       bool
	mode       Mode
	item       *E
	values     Values
	err        string
	submitting bool
}

// NewDialog creates a closed dialog for entity.
func NewDialog[E any](entity Entity[E]) *Dialog[E] {
	return &Dialog[E]{entity: entity, values: entity.Defaults()}
}

// Entity returns the dialog's entity description.
func (d *Dialog[E]) Entity() Entity[E] {
	return d.entity
}

// Open shows the dialog. Create mode resets every field to its
// default; edit mode populates from item, which is required. Any
// previous error is cleared.
func (d *Dialog[E]) Open(mode Mode, item *E) error {
	if mode == ModeEdit && item == nil {
		return fmt.Errorf("resource: editing a %s requires the record", d.entity.Noun)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitting {
		return ErrSubmitting
	}
	d.open = true
	d.mode = mode
	d.err = ""
	if mode == ModeCreate {
		d.item = nil
		d.values = d.entity.Defaults()
		return nil
	}
	copied := *item
	d.item = &copied
	d.values = d.entity.Defaults()
	for key, value := range d.entity.Populate(copied) {
		d.values[key] = value
	}
	return nil
}

// Close hides the dialog. A dialog cannot be closed while submitting.
func (d *Dialog[E]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitting {
		return
	}
	d.open = false
	d.item = nil
	d.err = ""
}

// IsOpen reports whether the dialog is shown.
func (d *Dialog[E]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Mode returns the current mode.
func (d *Dialog[E]) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Item returns a copy of the record being edited, or nil in create mode.
func (d *Dialog[E]) Item() *E {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.item == nil {
		return nil
	}
	copied := *d.item
	return &copied
}

// Fields returns the fields visible in the current mode.
func (d *Dialog[E]) Fields() []Field {
	d.mu.Lock()
	mode := d.mode
	d.mu.Unlock()
	var fields []Field
	for _, field := range d.entity.Fields {
		if field.Visible(mode) {
			fields = append(fields, field)
		}
	}
	return fields
}

// Value returns one form value.
func (d *Dialog[E]) Value(key string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values[key]
}

// Values returns a copy of all form values.
func (d *Dialog[E]) Values() Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values.clone()
}

// FieldEnabled reports whether key accepts input right now.
func (d *Dialog[E]) FieldEnabled(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	field, ok := d.entity.Field(key)
	return ok && d.open && !d.submitting && field.Editable(d.mode)
}

// Set changes one field and recomputes derived fields. Disabled
// fields reject input.
func (d *Dialog[E]) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	field, ok := d.entity.Field(key)
	switch {
	case !ok:
		return fmt.Errorf("resource: %s has no field %q", d.entity.Noun, key)
	case !d.open:
		return ErrDialogClosed
	case d.submitting:
		return ErrSubmitting
	case !field.Editable(d.mode):
		return fmt.Errorf("resource: %s is not editable in %s mode", field.Label, d.mode)
	case field.Kind == KindChoice && !containsChoice(field.Choices, value):
		return fmt.Errorf("resource: %q is not a valid %s", value, field.Label)
	}
	d.values[key] = value
	if d.entity.Derive != nil {
		d.entity.Derive(d.mode, key, d.values)
	}
	return nil
}

func containsChoice(choices []string, value string) bool {
	for _, choice := range choices {
		if choice == value {
			return true
		}
	}
	return false
}

// Missing returns the labels of blank required fields.
func (d *Dialog[E]) Missing() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entity.Missing(d.mode, d.values)
}

// Problems returns advisory messages by field key.
func (d *Dialog[E]) Problems() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entity.Problems(d.mode, d.values)
}

// CanSubmit reports whether the submit control is enabled.
func (d *Dialog[E]) CanSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open && !d.submitting && len(d.entity.Missing(d.mode, d.values)) == 0
}

// Error returns the message from the last failed submission.
func (d *Dialog[E]) Error() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Submitting reports whether a submission is in flight.
func (d *Dialog[E]) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// BeginSubmit validates the form, disables it, clears the previous
// error, and returns the payload to save. Blank required fields return
// a *ValidationError and leave the dialog unchanged apart from showing
// the error.
func (d *Dialog[E]) BeginSubmit() (Payload[E], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return Payload[E]{}, ErrDialogClosed
	}
	if d.submitting {
		return Payload[E]{}, ErrSubmitting
	}
	if missing := d.entity.Missing(d.mode, d.values); len(missing) > 0 {
		validation := &ValidationError{Missing: missing}
		d.err = validation.Error()
		return Payload[E]{}, validation
	}

	payload := Payload[E]{Mode: d.mode}
	values := d.values.clone()
	if d.mode == ModeEdit {
		item := *d.item
		payload.Item = &item
		payload.Body = d.entity.UpdatePayload(values)
	} else {
		payload.Body = d.entity.CreatePayload(values)
	}
	d.submitting = true
	d.err = ""
	return payload, nil
}

// FinishSubmit records the outcome of a submission started with
// BeginSubmit. Success closes the dialog; failure re-enables it and
// shows the error text.
func (d *Dialog[E]) FinishSubmit(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	if err == nil {
		d.open = false
		d.item = nil
		d.err = ""
		return
	}
	d.err = err.Error()
	if d.err == "" {
		d.err = d.entity.SaveFailure()
	}
}

// Submit runs BeginSubmit, save, and FinishSubmit. It returns the
// validation or save error.
func (d *Dialog[E]) Submit(ctx context.Context, save SaveFunc[E]) error {
	payload, err := d.BeginSubmit()
	if err != nil {
		return err
	}
	err = save(ctx, payload)
	d.FinishSubmit(err)
	return err
}
