// Package vault stores bot credentials in the OS keychain, falling back
// to an AES-GCM encrypted file when no keychain is available.
package vault

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/99designs/keyring"
)

const DefaultService = "statussage"

var ErrNotFound = errors.New("secret not found")

type Vault struct {
	ring keyring.Keyring
	path string
	mu   sync.RWMutex
}

// Open tries the OS keychain for service and always keeps path as the
// encrypted file fallback.
func Open(service, path string) *Vault {
	v := &Vault{path: path}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
	})
	if err == nil {
		v.ring = ring
	}
	return v
}

// OpenFile skips the keychain and uses only the encrypted file at path.
func OpenFile(path string) *Vault {
	return &Vault{path: path}
}

// Backend names where secrets are written.
func (v *Vault) Backend() string {
	if v.ring != nil {
		return "keyring"
	}
	return "file"
}

func (v *Vault) Set(key, value string) error {
	if v.ring != nil {
		err := v.ring.Set(keyring.Item{
			Key:  key,
			Data: []byte(value),
		})
		if err == nil {
			return nil
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	secrets, err := loadSecrets(v.path)
	if err != nil {
		secrets = make(map[string]string)
	}
	secrets[key] = value
	return saveSecrets(v.path, secrets)
}

func (v *Vault) Get(key string) (string, error) {
	if v.ring != nil {
		item, err := v.ring.Get(key)
		if err == nil {
			return string(item.Data), nil
		}
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	secrets, err := loadSecrets(v.path)
	if err != nil {
		return "", err
	}
	if val, ok := secrets[key]; ok {
		return val, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

func (v *Vault) Delete(key string) error {
	removed := false
	if v.ring != nil {
		if err := v.ring.Remove(key); err == nil {
			removed = true
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	secrets, err := loadSecrets(v.path)
	if err != nil {
		return err
	}
	if _, ok := secrets[key]; ok {
		delete(secrets, key)
		if err := saveSecrets(v.path, secrets); err != nil {
			return err
		}
		removed = true
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// List returns every stored key, sorted.
func (v *Vault) List() ([]string, error) {
	if v.ring != nil {
		keys, err := v.ring.Keys()
		if err == nil {
			sort.Strings(keys)
			return keys, nil
		}
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	secrets, err := loadSecrets(v.path)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
