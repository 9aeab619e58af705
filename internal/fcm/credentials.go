// internal/fcm/credentials.go
package fcm

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// MessagingScope is the OAuth2 scope for the FCM HTTP v1 send API.
// Both credential paths request exactly this scope.
const MessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// TokenProvider resolves an OAuth2 access token for FCM. Failures are
// ordinary return values; callers fold them into a failed delivery, never
// a fault.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// GoogleTokenProvider mints tokens from a service-account key file, falling
// back to ambient platform credentials (GCE metadata, GOOGLE_APPLICATION_CREDENTIALS)
// when no file is configured or the file is missing.
//
// The minted token is cached until shortly before expiry; an expired token
// is never served.
type GoogleTokenProvider struct {
	serviceAccountPath string

	mu     sync.Mutex
	cached *oauth2.Token
}

// NewGoogleTokenProvider builds a provider. serviceAccountPath may be empty,
// which forces the ambient-credentials path.
func NewGoogleTokenProvider(serviceAccountPath string) *GoogleTokenProvider {
	return &GoogleTokenProvider{serviceAccountPath: serviceAccountPath}
}

// AccessToken returns a bearer token valid for at least another minute.
func (p *GoogleTokenProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.cached.Expiry.After(time.Now().Add(time.Minute)) {
		return p.cached.AccessToken, nil
	}

	source, err := p.tokenSource(ctx)
	if err != nil {
		return "", err
	}

	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	p.cached = token
	return token.AccessToken, nil
}

func (p *GoogleTokenProvider) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if p.serviceAccountPath != "" {
		if _, err := os.Stat(p.serviceAccountPath); err == nil {
			key, err := os.ReadFile(p.serviceAccountPath)
			if err != nil {
				return nil, fmt.Errorf("read service account key: %w", err)
			}
			conf, err := google.JWTConfigFromJSON(key, MessagingScope)
			if err != nil {
				return nil, fmt.Errorf("parse service account key: %w", err)
			}
			return conf.TokenSource(ctx), nil
		}
	}

	// Ambient credentials, same scope as the key-file path.
	creds, err := google.FindDefaultCredentials(ctx, MessagingScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// StaticTokenProvider returns a fixed token. Test helper.
type StaticTokenProvider struct {
	Token string
	Err   error
}

func (s *StaticTokenProvider) AccessToken(ctx context.Context) (string, error) {
	return s.Token, s.Err
}
