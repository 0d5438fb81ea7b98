// Package auth verifies bearer tokens against an external OpenID
// Connect identity provider. Provider metadata and signing keys are
// fetched once at startup into a read-only Verifier; refreshing them
// means restarting the process.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// DevIdentity is the fixed identity used while authentication is
// disabled (local development).
const DevIdentity = "foo.bar@example.com"

var ErrInvalidToken = errors.New("invalid access token")

// Claims is the token payload togglekit cares about: the email claim
// is the caller's identity.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier holds the provider's signing keys. Configure must run
// before the first Identity call; an unconfigured verifier answers
// with DevIdentity.
type Verifier struct {
	audience   string
	keys       map[string]*rsa.PublicKey
	first      *rsa.PublicKey
	configured bool
}

func NewVerifier() *Verifier {
	return &Verifier{keys: make(map[string]*rsa.PublicKey)}
}

// Configure resolves the authority's OpenID discovery document and
// loads its JWKS. Called exactly once during bootstrap.
func (v *Verifier) Configure(ctx context.Context, authority, audience string) error {
	jwksURI, err := discoverJwksURI(ctx, authority)
	if err != nil {
		return fmt.Errorf("openid discovery failed: %w", err)
	}

	set, err := jwk.Fetch(ctx, jwksURI)
	if err != nil {
		return fmt.Errorf("jwks fetch failed: %w", err)
	}

	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		var pub rsa.PublicKey
		if err := jwk.Export(key, &pub); err != nil {
			continue
		}
		p := pub
		if kid, ok := key.KeyID(); ok {
			v.keys[kid] = &p
		}
		if v.first == nil {
			v.first = &p
		}
	}
	if v.first == nil {
		return errors.New("jwks contained no usable signing key")
	}

	v.audience = audience
	v.configured = true
	return nil
}

// Configured reports whether signing keys were loaded.
func (v *Verifier) Configured() bool {
	return v.configured
}

// Identity verifies a bearer token and returns the lower-cased email
// claim. An unconfigured verifier returns DevIdentity.
func (v *Verifier) Identity(tokenString string) (string, error) {
	if !v.configured {
		return DevIdentity, nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc,
		jwt.WithAudience(v.audience),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return strings.ToLower(claims.Email), nil
}

// keyFunc selects the signing key by kid, falling back to the
// provider's first key when the header names an unknown one.
func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	if kid, ok := t.Header["kid"].(string); ok {
		if key, ok := v.keys[kid]; ok {
			return key, nil
		}
	}
	return v.first, nil
}

func discoverJwksURI(ctx context.Context, authority string) (string, error) {
	url := strings.TrimSuffix(authority, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("discovery endpoint returned %d", resp.StatusCode)
	}

	var doc struct {
		JwksURI string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", err
	}
	if doc.JwksURI == "" {
		return "", errors.New("discovery document has no jwks_uri")
	}
	return doc.JwksURI, nil
}
