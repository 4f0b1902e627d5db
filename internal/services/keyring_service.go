package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	serviceName  = "snapledger"
	keyringUser  = "gemini"
	geminiEnvKey = "GEMINI_API_KEY"
)

// ErrNoApiKey is returned when no key is available from any source. The
// composer reacts by offering manual entry; the receipt flow treats it as a
// hard failure.
var ErrNoApiKey = errors.New("no Gemini API key configured")

// KeyringService resolves the Gemini API key: a session-scoped temporary
// key wins over the OS keyring, which wins over the environment (the .env
// escape hatch for development).
type KeyringService struct {
	mu      sync.Mutex
	tempKey string

	// configDir overrides os.UserConfigDir in tests.
	configDir string
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

// StoreApiKey persists the key in the OS keyring and records non-secret
// metadata alongside, so the settings view can show when a key was stored
// without unlocking the keyring.
func (s *KeyringService) StoreApiKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key is empty")
	}
	if err := keyring.Set(serviceName, keyringUser, apiKey); err != nil {
		return err
	}
	return s.saveKeyMeta(keyMeta{Provider: keyringUser, StoredAt: time.Now()})
}

// SetTemporaryApiKey holds a key for this process only, never persisted.
// This backs the composer's manual-entry fallback.
func (s *KeyringService) SetTemporaryApiKey(apiKey string) {
	s.mu.Lock()
	s.tempKey = strings.TrimSpace(apiKey)
	s.mu.Unlock()
}

// GetApiKey returns the first available key. A missing key is ErrNoApiKey;
// any other keyring failure is surfaced as-is.
func (s *KeyringService) GetApiKey() (string, error) {
	s.mu.Lock()
	temp := s.tempKey
	s.mu.Unlock()
	if temp != "" {
		return temp, nil
	}

	key, err := keyring.Get(serviceName, keyringUser)
	if err == nil && strings.TrimSpace(key) != "" {
		return key, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}

	if env := strings.TrimSpace(os.Getenv(geminiEnvKey)); env != "" {
		return env, nil
	}
	return "", ErrNoApiKey
}

// HasApiKey reports whether GetApiKey would succeed.
func (s *KeyringService) HasApiKey() bool {
	_, err := s.GetApiKey()
	return err == nil
}

// DeleteApiKey removes the persisted key, its metadata and any temporary
// one.
func (s *KeyringService) DeleteApiKey() error {
	s.SetTemporaryApiKey("")
	if err := s.deleteKeyMeta(); err != nil {
		return err
	}
	err := keyring.Delete(serviceName, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// KeyInfo is the non-secret description of the configured key.
type KeyInfo struct {
	Configured bool      `json:"configured"`
	Source     string    `json:"source,omitempty"` // "temporary", "keyring" or "env"
	StoredAt   time.Time `json:"storedAt,omitempty"`
}

// DescribeApiKey reports key presence and provenance for the settings view.
// The key material itself is never returned to the frontend.
func (s *KeyringService) DescribeApiKey() KeyInfo {
	s.mu.Lock()
	temp := s.tempKey
	s.mu.Unlock()
	if temp != "" {
		return KeyInfo{Configured: true, Source: "temporary"}
	}

	if key, err := keyring.Get(serviceName, keyringUser); err == nil && strings.TrimSpace(key) != "" {
		info := KeyInfo{Configured: true, Source: "keyring"}
		if meta, err := s.loadKeyMeta(); err == nil && meta != nil {
			info.StoredAt = meta.StoredAt
		}
		return info
	}

	if strings.TrimSpace(os.Getenv(geminiEnvKey)) != "" {
		return KeyInfo{Configured: true, Source: "env"}
	}
	return KeyInfo{}
}

// keyMeta is what gets written next to the user config, never the secret.
type keyMeta struct {
	Provider string    `json:"provider"`
	StoredAt time.Time `json:"storedAt"`
}

func (s *KeyringService) keyMetaPath() (string, error) {
	base := s.configDir
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	appDir := filepath.Join(base, serviceName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "apikey.json"), nil
}

func (s *KeyringService) loadKeyMeta() (*keyMeta, error) {
	path, err := s.keyMetaPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta keyMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *KeyringService) saveKeyMeta(meta keyMeta) error {
	path, err := s.keyMetaPath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (s *KeyringService) deleteKeyMeta() error {
	path, err := s.keyMetaPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
