// internal/fcm/credentials_test.go
package fcm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoogleTokenProvider_MalformedKeyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.json")
	err := os.WriteFile(path, []byte("not json"), 0o600)
	assert.NoError(t, err)

	p := NewGoogleTokenProvider(path)
	_, err = p.AccessToken(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse service account key")
}

func TestGoogleTokenProvider_MissingFileFallsThrough(t *testing.T) {
	// A missing key file must fall through to ambient credentials, which do
	// not exist in the test environment, so the error comes from that path.
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("HOME", t.TempDir())

	p := NewGoogleTokenProvider(filepath.Join(t.TempDir(), "does-not-exist.json"))
	_, err := p.AccessToken(context.Background())

	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "read service account key")
}

func TestStaticTokenProvider(t *testing.T) {
	p := &StaticTokenProvider{Token: "abc"}
	tok, err := p.AccessToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
