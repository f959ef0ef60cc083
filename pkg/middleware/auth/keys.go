package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

const minKeyTTL = 5 * time.Second

// KeySet holds the RSA key used to verify assertions. It loads from a PEM
// file or from a URL serving PEM or JWKS, honouring ETag and Cache-Control.
type KeySet struct {
	url    string
	file   string
	kid    string
	client HTTPDoer

	mu   sync.RWMutex
	key  *rsa.PublicKey
	etag string
	ttl  time.Duration
}

func NewKeySet(cfg Config, client HTTPDoer) *KeySet {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	ttl := cfg.KeyTTL
	if ttl < minKeyTTL {
		ttl = minKeyTTL
	}
	return &KeySet{url: cfg.KeyURL, file: cfg.KeyFile, kid: cfg.KeyKID, client: client, ttl: ttl}
}

// Configured reports whether a key source is set.
func (k *KeySet) Configured() bool { return k.url != "" || k.file != "" }

func (k *KeySet) Key() *rsa.PublicKey {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.key
}

// Set installs pub directly.
func (k *KeySet) Set(pub *rsa.PublicKey) {
	k.mu.Lock()
	k.key = pub
	k.mu.Unlock()
}

func (k *KeySet) TTL() time.Duration {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.ttl
}

// Refresh reloads the key from its source.
func (k *KeySet) Refresh(ctx context.Context) error {
	switch {
	case k.file != "":
		b, err := os.ReadFile(k.file)
		if err != nil {
			return err
		}
		pub, err := ParsePEM(b)
		if err != nil {
			return err
		}
		k.Set(pub)
		return nil
	case k.url != "":
		return k.fetch(ctx)
	default:
		return errors.New("auth: no assertion key source configured")
	}
}

// Run refreshes the key every TTL until ctx is done.
func (k *KeySet) Run(ctx context.Context, onErr func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(k.TTL()):
		}
		if err := k.Refresh(ctx); err != nil && onErr != nil && ctx.Err() == nil {
			onErr(err)
		}
	}
}

func (k *KeySet) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return err
	}
	k.mu.RLock()
	etag := k.etag
	k.mu.RUnlock()
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	req.Header.Set("Accept", "*/*")

	res, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotModified && k.Key() != nil {
		k.mu.Lock()
		k.ttl = maxAge(res.Header.Get("Cache-Control"), k.ttl)
		k.mu.Unlock()
		return nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("auth: key fetch %s: %s", k.url, res.Status)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	var pub *rsa.PublicKey
	ct := strings.ToLower(res.Header.Get("Content-Type"))
	if strings.Contains(ct, "json") || strings.HasSuffix(strings.ToLower(k.url), ".json") {
		pub, err = ParseJWKS(b, k.kid)
	} else {
		pub, err = ParsePEM(b)
	}
	if err != nil {
		return err
	}

	k.mu.Lock()
	k.key = pub
	k.etag = res.Header.Get("ETag")
	k.ttl = maxAge(res.Header.Get("Cache-Control"), k.ttl)
	k.mu.Unlock()
	return nil
}

// ParsePEM decodes a PKIX RSA public key.
func ParsePEM(b []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("auth: no PEM block")
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("auth: PEM is not an RSA public key")
	}
	return pub, nil
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// ParseJWKS selects an RSA signing key from a JWKS document: the one with kid
// when given, otherwise the first RS256 signing key.
func ParseJWKS(b []byte, kid string) (*rsa.PublicKey, error) {
	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	var sel *jwk
	for i := range doc.Keys {
		k := &doc.Keys[i]
		if k.Kty != "RSA" {
			continue
		}
		if kid != "" {
			if k.Kid == kid {
				sel = k
				break
			}
			continue
		}
		if (k.Use == "" || k.Use == "sig") && (k.Alg == "" || strings.EqualFold(k.Alg, "RS256")) {
			sel = k
			break
		}
	}
	if sel == nil {
		return nil, errors.New("auth: no suitable RSA key in JWKS")
	}

	n, err := base64.RawURLEncoding.DecodeString(sel.N)
	if err != nil {
		return nil, fmt.Errorf("auth: bad jwks n: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(sel.E)
	if err != nil {
		return nil, fmt.Errorf("auth: bad jwks e: %w", err)
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() == 0 {
		return nil, errors.New("auth: bad jwks exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}

func maxAge(cc string, def time.Duration) time.Duration {
	for _, p := range strings.Split(cc, ",") {
		p = strings.TrimSpace(strings.ToLower(p))
		if v, ok := strings.CutPrefix(p, "max-age="); ok {
			if s, err := strconv.Atoi(v); err == nil && time.Duration(s)*time.Second >= minKeyTTL {
				return time.Duration(s) * time.Second
			}
		}
	}
	return def
}
