// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "time"

// DateLayout is how timestamps appear in lists and detail views, in
// the viewer's local time zone.
const DateLayout = "Jan 2, 2006 03:04 PM"

// FormatDate renders a timestamp with [DateLayout]. The zero time
// renders as a dash.
func FormatDate(timestamp time.Time) string {
	if timestamp.IsZero() {
		return "-"
	}
	return timestamp.Local().Format(DateLayout)
}
