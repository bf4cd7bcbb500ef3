// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource implements the create/edit dialog and the list
// screen shared by every managed entity in the console.
//
// An [Entity] describes one kind of record: its form fields, how an
// existing record populates the form, which fields are derived from
// others, and how form values become create and update request bodies.
// [Operations] supplies the four network calls. [Dialog] and [Screen]
// are generic over the record type and hold all the lifecycle rules:
//
//   - Opening a dialog in create mode resets every field to its
//     default; edit mode copies values from the record. Immutable
//     fields are disabled in edit mode and create-only fields are
//     hidden.
//   - Submission is refused while a required visible field is blank,
//     before any network call. While a submission runs, every field
//     is disabled. Success closes the dialog; failure shows the error
//     text verbatim and re-enables the form.
//   - A screen loads its list on first use and whenever its scope
//     changes. A scope change cancels the previous load, and a load
//     that finishes after a newer one started is discarded.
//   - Every successful create, update, or delete is followed by a full
//     reload, which completes before the save returns. The dialog only
//     closes once that reload succeeded.
//   - Delete goes through a pending confirmation. Only
//     [Screen.ConfirmDelete] calls the server; cancelling issues no
//     request.
//   - Load and delete failures become a dismissible banner and the
//     previously loaded items stay in place. Save failures are shown in
//     the dialog.
//
// [TenantEntity] and [TenantUserEntity] describe the two managed
// records, and [TenantOperations] and [TenantUserOperations] bind them
// to the API client.
package resource
