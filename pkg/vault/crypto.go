package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const payloadVersion = 1

var errNotEncrypted = errors.New("not an encrypted payload")

// encryptedPayload is the on-disk layout of the fallback secrets file.
type encryptedPayload struct {
	Version    int    `json:"version"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// machineID identifies this host so the file key is bound to it.
func machineID() string {
	var id string
	if runtime.GOOS == "linux" {
		for _, p := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
			if data, err := os.ReadFile(p); err == nil {
				id = strings.TrimSpace(string(data))
				break
			}
		}
	}
	if id == "" {
		hostname, _ := os.Hostname()
		home, _ := os.UserHomeDir()
		id = hostname + ":" + home
	}
	return id
}

func deriveKey() []byte {
	sum := sha256.Sum256([]byte(machineID() + "statussage-v1-salt"))
	return sum[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(data []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return json.MarshalIndent(encryptedPayload{
		Version:    payloadVersion,
		Nonce:      hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(gcm.Seal(nil, nonce, data, nil)),
	}, "", "  ")
}

func decrypt(data []byte) ([]byte, error) {
	var payload encryptedPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Ciphertext == "" {
		return nil, errNotEncrypted
	}
	if payload.Version != payloadVersion {
		return nil, fmt.Errorf("unsupported encryption version: %d", payload.Version)
	}

	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(payload.Nonce)
	if err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(payload.Ciphertext)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Mask hides most of a secret for display.
func Mask(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	case len(s) <= 10:
		return s[:1] + "********" + s[len(s)-1:]
	default:
		return s[:3] + "********" + s[len(s)-3:]
	}
}

// loadSecrets reads the secrets file. A missing file is empty; a legacy
// plaintext JSON file is re-saved encrypted.
func loadSecrets(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	secrets := make(map[string]string)
	decrypted, err := decrypt(data)
	if errors.Is(err, errNotEncrypted) {
		if jsonErr := json.Unmarshal(data, &secrets); jsonErr == nil {
			_ = saveSecrets(path, secrets)
			return secrets, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secrets %s: %w", path, err)
	}

	if err := json.Unmarshal(decrypted, &secrets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted secrets: %w", err)
	}
	return secrets, nil
}

func saveSecrets(path string, secrets map[string]string) error {
	data, err := json.Marshal(secrets)
	if err != nil {
		return err
	}
	encrypted, err := encrypt(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, encrypted, 0o600)
}
