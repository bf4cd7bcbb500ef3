// Copyright 2026 The MMS Console Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/mayuran19/mms-console/lib/secret"
)

// armorHeader starts every sealed file.
const armorHeader = "-----BEGIN AGE ENCRYPTED FILE-----"

// Key is an age x25519 identity and its public recipient. The identity
// stays in locked memory; call Close when done.
type Key struct {
	identity  *secret.Buffer
	recipient *age.X25519Recipient
}

// GenerateKey creates a new key.
func GenerateKey() (*Key, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("sealed: generating key: %w", err)
	}
	buffer, err := secret.FromBytes([]byte(identity.String()))
	if err != nil {
		return nil, err
	}
	return &Key{identity: buffer, recipient: identity.Recipient()}, nil
}

// LoadKey reads a key file. The file must hold exactly one x25519
// identity.
func LoadKey(path string) (*Key, error) {
	buffer, err := secret.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sealed: reading key: %w", err)
	}
	identity, err := parseIdentity(buffer)
	if err != nil {
		buffer.Close()
		return nil, fmt.Errorf("sealed: %s: %w", path, err)
	}
	// Keep only the key line, not the comments around it.
	key, err := secret.FromBytes([]byte(identity.String()))
	buffer.Close()
	if err != nil {
		return nil, err
	}
	return &Key{identity: key, recipient: identity.Recipient()}, nil
}

func parseIdentity(buffer *secret.Buffer) (*age.X25519Identity, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(buffer.Bytes()))
	if err != nil {
		return nil, err
	}
	if len(identities) != 1 {
		return nil, fmt.Errorf("want one identity, found %d", len(identities))
	}
	identity, ok := identities[0].(*age.X25519Identity)
	if !ok {
		return nil, fmt.Errorf("identity is %T, want an x25519 key", identities[0])
	}
	return identity, nil
}

// Recipient is the public half, in age1... form.
func (k *Key) Recipient() string {
	return k.recipient.String()
}

// WriteFile saves the key in age-keygen format with mode 0600. It
// refuses to replace an existing file.
func (k *Key) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("sealed: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("sealed: %w", err)
	}
	_, err = fmt.Fprintf(file, "# created: %s\n# public key: %s\n%s\n",
		time.Now().UTC().Format(time.RFC3339), k.Recipient(), k.identity.Bytes())
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("sealed: writing %s: %w", path, err)
	}
	return nil
}

// Seal encrypts plaintext to the key.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	var out bytes.Buffer
	armored := armor.NewWriter(&out)
	writer, err := age.Encrypt(armored, k.recipient)
	if err != nil {
		return nil, fmt.Errorf("sealed: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("sealed: encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sealed: encrypting: %w", err)
	}
	if err := armored.Close(); err != nil {
		return nil, fmt.Errorf("sealed: armoring: %w", err)
	}
	return out.Bytes(), nil
}

// ErrWrongKey is returned by Open for data sealed to another key.
var ErrWrongKey = errors.New("sealed: data was sealed to a different key")

// Open decrypts data produced by Seal.
func (k *Key) Open(sealed []byte) ([]byte, error) {
	identity, err := age.ParseX25519Identity(k.identity.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: %w", err)
	}
	reader, err := age.Decrypt(armor.NewReader(bytes.NewReader(sealed)), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrWrongKey
		}
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}
	return plaintext, nil
}

// IsSealed reports whether data looks like Seal output.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte(armorHeader))
}

// Close releases the identity.
func (k *Key) Close() error {
	return k.identity.Close()
}
