// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func generate(t *testing.T) *Key {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	t.Cleanup(func() { key.Close() })
	return key
}

func TestSealOpen(t *testing.T) {
	key := generate(t)
	if !strings.HasPrefix(key.Recipient(), "age1") {
		t.Errorf("Recipient() = %q, want age1 prefix", key.Recipient())
	}

	plaintext := []byte(`{"cookies":[{"name":"session","value":"abc"}]}`)
	sealed, err := key.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !IsSealed(sealed) {
		t.Errorf("IsSealed(Seal output) = false:\n%s", sealed)
	}
	if strings.Contains(string(sealed), "abc") {
		t.Error("sealed output contains the plaintext")
	}

	opened, err := key.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(opened) != string(plaintext) {
		t.Errorf("Open = %q, want %q", opened, plaintext)
	}
}

func TestOpenWrongKey(t *testing.T) {
	sealed, err := generate(t).Seal([]byte("hello"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := generate(t).Open(sealed); !errors.Is(err, ErrWrongKey) {
		t.Errorf("Open with another key: err = %v, want ErrWrongKey", err)
	}
}

func TestOpenGarbage(t *testing.T) {
	if _, err := generate(t).Open([]byte("not sealed")); err == nil {
		t.Error("Open(garbage) succeeded")
	}
}

func TestIsSealed(t *testing.T) {
	for input, want := range map[string]bool{
		"":                 false,
		`{"server":"x"}`:   false,
		"\n" + armorHeader: true,
	} {
		if got := IsSealed([]byte(input)); got != want {
			t.Errorf("IsSealed(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestWriteFileLoadKey(t *testing.T) {
	key := generate(t)
	path := filepath.Join(t.TempDir(), "keys", "session.key")
	if err := key.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("key file mode = %o, want 600", mode)
	}
	contents, _ := os.ReadFile(path)
	if !strings.Contains(string(contents), "# public key: "+key.Recipient()) {
		t.Errorf("key file missing public key comment:\n%s", contents)
	}

	if err := key.WriteFile(path); err == nil {
		t.Error("WriteFile over an existing key succeeded")
	}

	loaded, err := LoadKey(path)
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	defer loaded.Close()
	if loaded.Recipient() != key.Recipient() {
		t.Errorf("loaded recipient = %q, want %q", loaded.Recipient(), key.Recipient())
	}

	sealed, err := key.Seal([]byte("round trip"))
	if err != nil {
		t.Fatal(err)
	}
	opened, err := loaded.Open(sealed)
	if err != nil {
		t.Fatalf("Open with loaded key: %v", err)
	}
	if string(opened) != "round trip" {
		t.Errorf("Open = %q", opened)
	}
}

func TestLoadKeyErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := LoadKey(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadKey(missing) succeeded")
	}
	if _, err := LoadKey(write("empty", "\n\n")); err == nil {
		t.Error("LoadKey(empty) succeeded")
	}
	if _, err := LoadKey(write("bad", "# comment\nnot-a-key\n")); err == nil {
		t.Error("LoadKey(bad) succeeded")
	}
}
