// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package cookiestore persists the membership server's session cookie
// between mmsctl invocations.
//
// The cookie is the server's credential. It is written to a file with
// mode 0600 (in a 0700 directory) after login, restored into the
// client's cookie jar when the next command starts, and deleted on
// logout. The file records which server issued the cookie; a file
// saved for a different server is ignored. Only the cookie is stored:
// who the cookie belongs to is always asked of the server again.
//
// A [Store] with a [Sealer] encrypts the file at rest.
package cookiestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// PathEnv overrides the default cookie file location.
const PathEnv = "MMS_COOKIE_FILE"

// File is the on-disk format.
type File struct {
	// Server is the server URL the cookies were issued by.
	Server  string    `json:"server"`
	Cookies []Cookie  `json:"cookies"`
	SavedAt time.Time `json:"saved_at"`
}

// Cookie is one name/value pair. A jar reports no other attributes.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DefaultPath returns the cookie file path: $MMS_COOKIE_FILE if set,
// else $XDG_CONFIG_HOME/mms/cookies.json, falling back to
// ~/.config/mms/cookies.json.
func DefaultPath() string {
	if envPath := os.Getenv(PathEnv); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "mms-cookies.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "mms", "cookies.json")
}

// Sealer encrypts the cookie file. *sealed.Key implements it.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// sealedPrefix marks a file written through a Sealer.
const sealedPrefix = "-----BEGIN AGE ENCRYPTED FILE-----"

// ErrSealed is returned when the cookie file is sealed but the store
// has no key to open it.
var ErrSealed = errors.New("cookiestore: cookie file is sealed and no session key is configured")

// Store is a cookie file, optionally sealed. A plaintext file is still
// readable by a store with a Sealer and is sealed on the next Save.
type Store struct {
	Path   string
	Sealer Sealer
}

// Save writes the jar's cookies for server to path. A jar with no
// cookies for server removes the file instead.
func Save(path string, jar http.CookieJar, server *url.URL) error {
	return Store{Path: path}.Save(jar, server)
}

// Restore loads cookies saved for server from path into jar. It
// returns false, with no error, when there is no file or the file
// belongs to another server.
func Restore(path string, jar http.CookieJar, server *url.URL) (bool, error) {
	return Store{Path: path}.Restore(jar, server)
}

// Remove deletes the cookie file. A missing file is not an error.
func Remove(path string) error {
	return Store{Path: path}.Remove()
}

// Save is the package-level Save for this store.
func (s Store) Save(jar http.CookieJar, server *url.URL) error {
	cookies := jar.Cookies(server)
	if len(cookies) == 0 {
		return s.Remove()
	}

	file := File{Server: serverKey(server), SavedAt: time.Now().UTC()}
	for _, cookie := range cookies {
		file.Cookies = append(file.Cookies, Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("cookiestore: marshaling cookies: %w", err)
	}
	data = append(data, '\n')
	if s.Sealer != nil {
		if data, err = s.Sealer.Seal(data); err != nil {
			return fmt.Errorf("cookiestore: %w", err)
		}
	}

	directory := filepath.Dir(s.Path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("cookiestore: creating directory %s: %w", directory, err)
	}
	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("cookiestore: writing %s: %w", s.Path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(s.Path, 0600); err != nil {
		return fmt.Errorf("cookiestore: restricting %s: %w", s.Path, err)
	}
	return nil
}

// Restore is the package-level Restore for this store.
func (s Store) Restore(jar http.CookieJar, server *url.URL) (bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("cookiestore: reading %s: %w", s.Path, err)
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(sealedPrefix)) {
		if s.Sealer == nil {
			return false, ErrSealed
		}
		if data, err = s.Sealer.Open(data); err != nil {
			return false, fmt.Errorf("cookiestore: opening %s: %w", s.Path, err)
		}
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return false, fmt.Errorf("cookiestore: parsing %s: %w", s.Path, err)
	}
	if file.Server != serverKey(server) || len(file.Cookies) == 0 {
		return false, nil
	}

	cookies := make([]*http.Cookie, 0, len(file.Cookies))
	for _, cookie := range file.Cookies {
		cookies = append(cookies, &http.Cookie{Name: cookie.Name, Value: cookie.Value, Path: "/"})
	}
	jar.SetCookies(server, cookies)
	return true, nil
}

// Remove deletes the cookie file.
func (s Store) Remove() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cookiestore: removing %s: %w", s.Path, err)
	}
	return nil
}

// serverKey normalizes the server URL to scheme://host.
func serverKey(server *url.URL) string {
	return server.Scheme + "://" + server.Host
}
