// Package firebase implements auth.Provider on top of Firebase
// Authentication: ID tokens are verified locally against Google's public
// keys and user management goes through the Identity Toolkit REST API.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	jwksURL         = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	identityToolkit = "https://identitytoolkit.googleapis.com/v1"
	issuerPrefix    = "https://securetoken.google.com/"
)

var scopes = []string{
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/cloud-platform",
}

type Config struct {
	ProjectID          string
	ServiceAccountPath string
}

type Provider struct {
	projectID string
	keys      jwk.Set
	client    *http.Client
	baseURL   string
	cb        *gobreaker.CircuitBreaker
}

var _ auth.Provider = (*Provider)(nil)

// New loads the service account, starts the background JWKS cache and
// returns a ready provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	data, err := os.ReadFile(cfg.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account: %w", err)
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("failed to register jwks: %w", err)
	}
	if _, err := cache.Refresh(ctx, jwksURL); err != nil {
		// Verification retries the fetch on first use.
		slog.Warn("initial jwks fetch failed", "error", err)
	}

	return newProvider(cfg.ProjectID, jwk.NewCachedSet(cache, jwksURL), oauth2.NewClient(ctx, creds.TokenSource), identityToolkit), nil
}

func newProvider(projectID string, keys jwk.Set, client *http.Client, baseURL string) *Provider {
	settings := gobreaker.Settings{
		Name:        "Identity-Toolkit",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		// Client errors such as EMAIL_EXISTS say nothing about the health of
		// the remote service.
		IsSuccessful: func(err error) bool {
			var apiErr *apiError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
	}

	return &Provider{
		projectID: projectID,
		keys:      keys,
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		cb:        gobreaker.NewCircuitBreaker(settings),
	}
}

// VerifyToken implements auth.Provider.
func (p *Provider) VerifyToken(ctx context.Context, token string) (auth.Identity, error) {
	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKeySet(p.keys, jws.WithInferAlgorithmFromKey(true)),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuerPrefix+p.projectID),
		jwt.WithAudience(p.projectID),
		jwt.WithAcceptableSkew(30*time.Second),
	)
	if err != nil {
		slog.Debug("firebase token rejected", "error", err)
		return auth.Identity{}, auth.ErrInvalidToken
	}
	if parsed.Subject() == "" {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	identity := auth.Identity{UID: parsed.Subject()}
	if email, ok := parsed.Get("email"); ok {
		identity.Email, _ = email.(string)
	}
	return identity, nil
}

type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("identity toolkit returned %d: %s", e.StatusCode, e.Message)
}

// call POSTs body to the project-scoped endpoint and decodes the reply into out.
func (p *Provider) call(ctx context.Context, endpoint string, body, out interface{}) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/projects/%s/%s", p.baseURL, p.projectID, endpoint)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			var envelope struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			_ = json.Unmarshal(raw, &envelope)
			return nil, &apiError{StatusCode: resp.StatusCode, Message: envelope.Error.Message}
		}

		if out != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return nil, fmt.Errorf("failed to decode identity toolkit response: %w", err)
			}
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return auth.ErrProviderUnavailable
	}
	return err
}

// EmailExists implements auth.Provider.
func (p *Provider) EmailExists(ctx context.Context, email string) (bool, error) {
	var resp struct {
		Users []struct {
			LocalID string `json:"localId"`
		} `json:"users"`
	}
	if err := p.call(ctx, "accounts:lookup", map[string]interface{}{"email": []string{email}}, &resp); err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return len(resp.Users) > 0, nil
}

// CreateUser implements auth.Provider.
func (p *Provider) CreateUser(ctx context.Context, params auth.CreateUserParams) (string, error) {
	body := map[string]interface{}{
		"email":         params.Email,
		"password":      params.Password,
		"displayName":   params.DisplayName,
		"emailVerified": false,
	}

	var resp struct {
		LocalID string `json:"localId"`
	}
	if err := p.call(ctx, "accounts", body, &resp); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && strings.HasPrefix(apiErr.Message, "EMAIL_EXISTS") {
			return "", auth.ErrEmailExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	if resp.LocalID == "" {
		return "", errors.New("identity toolkit returned no user id")
	}
	return resp.LocalID, nil
}

// DeleteUser implements auth.Provider.
func (p *Provider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.call(ctx, "accounts:delete", map[string]string{"localId": uid}, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
