// Package auth verifies signed mini-app launch parameters and resolves the
// owning account for the request.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"strings"
)

// Launch holds the verified launch parameters of a request.
type Launch struct {
	// GroupID is the community the mini-app was launched from, if any.
	GroupID string
	// UserID is the launching user.
	UserID string
}

// OwnerID returns the identity the account is keyed on. Community launches
// share one account per community; user launches get a personal account.
func (l Launch) OwnerID() string {
	if l.GroupID != "" {
		return l.GroupID
	}
	return l.UserID
}

// VerifySignature checks the HMAC signature over the platform-provided
// launch parameters. Only vk_-prefixed parameters participate, sorted by
// key and url-encoded, signed with HMAC-SHA256 and base64url-encoded with
// the trailing padding removed. The comparison is constant time.
func VerifySignature(rawQuery, secret string) (Launch, bool) {
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Launch{}, false
	}

	sign := params.Get("sign")
	if sign == "" || secret == "" {
		return Launch{}, false
	}

	signed := url.Values{}
	for key, values := range params {
		if !strings.HasPrefix(key, "vk_") {
			continue
		}
		for _, value := range values {
			signed.Add(key, value)
		}
	}
	if len(signed) == 0 {
		return Launch{}, false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signed.Encode()))
	digest := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	digest = strings.TrimSuffix(digest, "=")
	digest = strings.ReplaceAll(digest, "+", "-")
	digest = strings.ReplaceAll(digest, "/", "_")

	if subtle.ConstantTimeCompare([]byte(digest), []byte(sign)) != 1 {
		return Launch{}, false
	}

	return Launch{
		GroupID: params.Get("vk_group_id"),
		UserID:  params.Get("vk_user_id"),
	}, true
}
