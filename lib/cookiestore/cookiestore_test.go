// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package cookiestore

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func newJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return jar
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return parsed
}

func TestSaveAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mms", "cookies.json")
	server := mustParse(t, "http://127.0.0.1:8080")

	jar := newJar(t)
	jar.SetCookies(server, []*http.Cookie{{Name: "JSESSIONID", Value: "abc123", Path: "/"}})
	if err := Save(path, jar, server); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("cookie file mode = %v, want 0600", info.Mode().Perm())
	}

	restored := newJar(t)
	ok, err := Restore(path, restored, mustParse(t, "http://127.0.0.1:8080/api"))
	if err != nil || !ok {
		t.Fatalf("Restore = %v, %v", ok, err)
	}
	cookies := restored.Cookies(mustParse(t, "http://127.0.0.1:8080/api/auth/me"))
	if len(cookies) != 1 || cookies[0].Name != "JSESSIONID" || cookies[0].Value != "abc123" {
		t.Errorf("restored cookies = %v", cookies)
	}
}

func TestRestoreIgnoresOtherServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	server := mustParse(t, "http://127.0.0.1:8080")
	jar := newJar(t)
	jar.SetCookies(server, []*http.Cookie{{Name: "JSESSIONID", Value: "abc123"}})
	if err := Save(path, jar, server); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ok, err := Restore(path, newJar(t), mustParse(t, "http://127.0.0.1:9090"))
	if err != nil || ok {
		t.Errorf("Restore for another server = %v, %v; want false, nil", ok, err)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	ok, err := Restore(filepath.Join(t.TempDir(), "none.json"), newJar(t), mustParse(t, "http://localhost"))
	if err != nil || ok {
		t.Errorf("Restore = %v, %v; want false, nil", ok, err)
	}
}

func TestRestoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	os.WriteFile(path, []byte("{"), 0600)
	if _, err := Restore(path, newJar(t), mustParse(t, "http://localhost")); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveEmptyJarRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	os.WriteFile(path, []byte("{}"), 0600)

	if err := Save(path, newJar(t), mustParse(t, "http://localhost")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after saving an empty jar: %v", err)
	}
	if err := Remove(path); err != nil {
		t.Errorf("Remove of a missing file: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != "/xdg/mms/cookies.json" {
		t.Errorf("DefaultPath() = %q", got)
	}
	t.Setenv(PathEnv, "/explicit/cookies.json")
	if got := DefaultPath(); got != "/explicit/cookies.json" {
		t.Errorf("DefaultPath() with %s = %q", PathEnv, got)
	}
}
