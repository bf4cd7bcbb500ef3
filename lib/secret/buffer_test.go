// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFromBytes(t *testing.T) {
	source := []byte("AGE-SECRET-KEY-1EXAMPLE")
	buffer, err := FromBytes(source)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "AGE-SECRET-KEY-1EXAMPLE" {
		t.Errorf("String() = %q", got)
	}
	if buffer.Len() != len(source) {
		t.Errorf("Len() = %d, want %d", buffer.Len(), len(source))
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d not zeroed", index)
		}
	}
}

func TestFromBytes_Empty(t *testing.T) {
	if _, err := FromBytes(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestClose(t *testing.T) {
	buffer, err := FromBytes([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Bytes after Close did not panic")
		}
	}()
	buffer.Bytes()
}

func TestReadFile(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "key.txt")
	if err := os.WriteFile(path, []byte("\n  AGE-SECRET-KEY-1ABC \n"), 0600); err != nil {
		t.Fatal(err)
	}
	buffer, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	defer buffer.Close()
	if got := buffer.String(); got != "AGE-SECRET-KEY-1ABC" {
		t.Errorf("String() = %q", got)
	}

	blank := filepath.Join(directory, "blank.txt")
	if err := os.WriteFile(blank, []byte(" \n\t"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(blank); !errors.Is(err, ErrEmpty) {
		t.Errorf("blank file: err = %v, want ErrEmpty", err)
	}
	if _, err := ReadFile(filepath.Join(directory, "missing")); err == nil {
		t.Error("missing file: expected error")
	}
}
