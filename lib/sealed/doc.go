// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts small files to an age x25519 key. mmsctl
// uses it to keep the saved session cookie unreadable without the
// operator's key file.
//
// Key files use the age-keygen format (comment lines, then one
// AGE-SECRET-KEY-1 line), so keys made by age-keygen work as well as
// ones made by [GenerateKey]. Sealed output is ASCII-armored.
package sealed
