// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geo6

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt" // register SHA-512-crypt
)

// Authentication headers understood by the Geo6 API.
const (
	HeaderConsumer  = "X-Geo6-Consumer"
	HeaderTimestamp = "X-Geo6-Timestamp"
	HeaderToken     = "X-Geo6-Token"
)

// ErrInvalidSecret is returned when the secret cannot be used as a crypt salt.
var ErrInvalidSecret = errors.New("geo6: secret must be non empty and must not contain '$'")

// AuthToken is the signature of a single request, valid only together with
// the timestamp it was derived from.
type AuthToken struct {
	IssuedAt  int64
	Signature string
}

// Signer derives per request tokens from the client credentials.
type Signer struct {
	clientID string
	secret   string
	host     string
}

// NewSigner creates a Signer for requests sent to host (a bare host name,
// without scheme).
func NewSigner(clientID, secret, host string) *Signer {
	return &Signer{clientID: clientID, secret: secret, host: host}
}

// Payload returns the string that gets hashed for a request.
func (s *Signer) Payload(method, path string, issuedAt int64) string {
	return strings.Join([]string{
		s.clientID,
		strconv.FormatInt(issuedAt, 10),
		s.host,
		method,
		path,
	}, "__")
}

// Sign hashes the request description with SHA-512-crypt, salted with the
// secret.
func (s *Signer) Sign(method, path string, now time.Time) (AuthToken, error) {
	if s.secret == "" || strings.Contains(s.secret, "$") {
		return AuthToken{}, ErrInvalidSecret
	}

	issuedAt := now.Unix()

	signature, err := crypt.SHA512.New().Generate(
		[]byte(s.Payload(method, path, issuedAt)),
		[]byte("$6$"+s.secret+"$"),
	)
	if err != nil {
		return AuthToken{}, fmt.Errorf("geo6: hashing token: %w", err)
	}

	return AuthToken{IssuedAt: issuedAt, Signature: signature}, nil
}

// Headers renders the authentication headers for token.
func (s *Signer) Headers(token AuthToken) map[string]string {
	return map[string]string{
		HeaderConsumer:  s.clientID,
		HeaderTimestamp: strconv.FormatInt(token.IssuedAt, 10),
		HeaderToken:     token.Signature,
	}
}

// Apply signs req and sets the authentication and Referer headers.
func (s *Signer) Apply(req *http.Request, referer string, now time.Time) error {
	token, err := s.Sign(req.Method, req.URL.EscapedPath(), now)
	if err != nil {
		return err
	}

	for k, v := range s.Headers(token) {
		req.Header.Set(k, v)
	}

	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	return nil
}
