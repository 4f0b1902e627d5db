package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
)

func newTestKeyring(t *testing.T) *KeyringService {
	t.Helper()
	keyring.MockInit()
	t.Setenv(geminiEnvKey, "")
	s := NewKeyringService()
	s.configDir = t.TempDir()
	return s
}

func TestGetApiKeyNothingConfigured(t *testing.T) {
	s := newTestKeyring(t)

	_, err := s.GetApiKey()
	assert.ErrorIs(t, err, ErrNoApiKey)
	assert.False(t, s.HasApiKey())
}

func TestStoreAndGetApiKey(t *testing.T) {
	s := newTestKeyring(t)

	assert.NoError(t, s.StoreApiKey("persisted-key"))

	key, err := s.GetApiKey()
	assert.NoError(t, err)
	assert.Equal(t, "persisted-key", key)
	assert.True(t, s.HasApiKey())
}

func TestStoreApiKeyRejectsEmpty(t *testing.T) {
	s := newTestKeyring(t)

	assert.Error(t, s.StoreApiKey("   "))
}

func TestTemporaryKeyWinsOverKeyring(t *testing.T) {
	s := newTestKeyring(t)

	assert.NoError(t, s.StoreApiKey("persisted-key"))
	s.SetTemporaryApiKey("session-key")

	key, err := s.GetApiKey()
	assert.NoError(t, err)
	assert.Equal(t, "session-key", key)
}

func TestEnvFallback(t *testing.T) {
	s := newTestKeyring(t)
	t.Setenv(geminiEnvKey, "env-key")

	key, err := s.GetApiKey()
	assert.NoError(t, err)
	assert.Equal(t, "env-key", key)
}

func TestKeyringWinsOverEnv(t *testing.T) {
	s := newTestKeyring(t)
	t.Setenv(geminiEnvKey, "env-key")
	assert.NoError(t, s.StoreApiKey("persisted-key"))

	key, err := s.GetApiKey()
	assert.NoError(t, err)
	assert.Equal(t, "persisted-key", key)
}

func TestDeleteApiKeyClearsAllSources(t *testing.T) {
	s := newTestKeyring(t)

	assert.NoError(t, s.StoreApiKey("persisted-key"))
	s.SetTemporaryApiKey("session-key")

	assert.NoError(t, s.DeleteApiKey())
	_, err := s.GetApiKey()
	assert.ErrorIs(t, err, ErrNoApiKey)

	// deleting again is a no-op
	assert.NoError(t, s.DeleteApiKey())
}

func TestDescribeApiKeySources(t *testing.T) {
	s := newTestKeyring(t)
	assert.False(t, s.DescribeApiKey().Configured)

	t.Setenv(geminiEnvKey, "env-key")
	assert.Equal(t, "env", s.DescribeApiKey().Source)

	assert.NoError(t, s.StoreApiKey("persisted-key"))
	info := s.DescribeApiKey()
	assert.Equal(t, "keyring", info.Source)
	assert.False(t, info.StoredAt.IsZero())

	s.SetTemporaryApiKey("session-key")
	assert.Equal(t, "temporary", s.DescribeApiKey().Source)
}
