package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/freshman/internal/pkg/auth"
)

func TestHashSecret(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"hash-secret", "123456"}, &out))

	hash := strings.TrimSpace(out.String())
	assert.True(t, auth.IsHashedSecret(hash))
	assert.True(t, auth.VerifySecret(hash, "123456"))

	assert.Error(t, run([]string{"hash-secret"}, &out))
}

func TestToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  secret: kitectl-test\n  issuer: kite.test\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"token", "--config", path, "--uid", "42", "--role", "admin"}, &out))

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "kitectl-test", TokenIssuer: "kite.test", TokenExp: time.Hour})
	claims, err := jwtService.ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, int32(42), claims.UID)
	assert.True(t, claims.IsAdmin())

	assert.Error(t, run([]string{"token", "--config", path}, &out))
	assert.Error(t, run([]string{"token", "--config", path, "--uid", "1", "--role", "root"}, &out))
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"frobnicate"}, &out))
	assert.Error(t, run(nil, &out))
}
