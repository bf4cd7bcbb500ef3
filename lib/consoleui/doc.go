// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package consoleui is the interactive terminal console for the
// membership system.
//
// [Model] is a bubbletea model that acts as the router. Paths mirror
// the web console ("/platform/tenants", "/tenant/members"). Each
// navigation, and each change in the [session.Store], runs the
// [guard] check for the target path before the screen is built. While
// the startup session check is outstanding, protected paths show a
// waiting indicator instead of content.
//
// The tenant and tenant-user tables are [resource.Screen] instances
// rendered by a generic list: a cursor, a fuzzy filter, a create/edit
// modal over [resource.Dialog], and a delete confirmation. Account
// lists reuse the same table read-only.
package consoleui
