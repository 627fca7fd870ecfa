package github

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	identityTTL     = 10 * time.Minute
	identityCleanup = 30 * time.Minute
)

// IdentityCache remembers which login a token validated as, so the
// submit-then-load sequence does not hit /user twice. Entries are keyed by
// a token fingerprint; the token itself is never stored.
type IdentityCache struct {
	inner *gocache.Cache
}

// NewIdentityCache creates an empty cache
func NewIdentityCache() *IdentityCache {
	return &IdentityCache{inner: gocache.New(identityTTL, identityCleanup)}
}

// Get returns the cached login for token
func (c *IdentityCache) Get(token string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.inner.Get(fingerprint(token))
	if !ok {
		return "", false
	}
	login, ok := v.(string)
	return login, ok
}

// Set stores the login for token with the default expiration
func (c *IdentityCache) Set(token, login string) {
	if c == nil {
		return
	}
	c.inner.Set(fingerprint(token), login, gocache.DefaultExpiration)
}

// Invalidate drops the entry for token
func (c *IdentityCache) Invalidate(token string) {
	if c == nil {
		return
	}
	c.inner.Delete(fingerprint(token))
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
