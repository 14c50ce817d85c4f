package hrapi

import (
	"net/http"

	"golang.org/x/oauth2"
)

// oauth2StaticClient returns an *http.Client that injects the bearer token
// into every request. The client is assembled by hand rather than through
// oauth2.NewClient, which adopts only the base transport and would silently
// drop the base client's Timeout.
func oauth2StaticClient(base *http.Client, token string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	return &http.Client{
		Timeout: base.Timeout,
		Transport: &oauth2.Transport{
			Source: source,
			Base:   base.Transport,
		},
	}
}
