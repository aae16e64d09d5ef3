package routing

import (
	"fmt"
	"net/url"
	"strings"
)

// LoginRedirectURL builds the identity-provider authorize URL the login
// flow redirects visitors to. All query parameters are percent-encoded.
func LoginRedirectURL(authorizeURL, clientID, redirectURI string, scopes []string, state string) (string, error) {
	if authorizeURL == "" {
		return "", fmt.Errorf("authorize URL is not configured")
	}

	u, err := url.Parse(authorizeURL)
	if err != nil {
		return "", fmt.Errorf("parse authorize URL: %w", err)
	}

	q := u.Query()
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "token")
	if len(scopes) > 0 {
		q.Set("scope", strings.Join(scopes, " "))
	}
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
