// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// MinPasswordLength is the server's minimum for tenant user passwords.
const MinPasswordLength = 8

// CheckEmail accepts a bare address such as "jo@acme.test". Display
// name forms ("Jo <jo@acme.test>") are rejected because the server
// stores the address verbatim.
func CheckEmail(value string) error {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}

// CheckPassword enforces the minimum length.
func CheckPassword(value string) error {
	if len(value) < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// CheckLength returns a check for values of min to max characters.
func CheckLength(min, max int) func(string) error {
	return func(value string) error {
		if n := utf8.RuneCountInString(value); n < min || n > max {
			if min <= 1 {
				return fmt.Errorf("must be at most %d characters", max)
			}
			return fmt.Errorf("must be between %d and %d characters", min, max)
		}
		return nil
	}
}
