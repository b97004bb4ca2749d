package auth

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

// CallbackPath is the route the provider redirects the popup back to.
const CallbackPath = "/auth/linkedin/callback"

// DefaultLinkedInScopes are requested when the config names none.
var DefaultLinkedInScopes = []string{"r_liteprofile", "r_emailaddress"}

// LinkedInProvider builds authorization URLs for the LinkedIn redirect flow.
//
// The client only ever starts the flow. The code it gets back is exchanged
// by the backend (POST /auth/linkedin/exchange), which holds the client
// secret, so no secret is configured here.
type LinkedInProvider struct {
	config *oauth2.Config
}

// NewLinkedInProvider creates a provider that redirects to origin +
// CallbackPath. Empty scopes fall back to DefaultLinkedInScopes.
func NewLinkedInProvider(clientID, origin string, scopes []string) *LinkedInProvider {
	if len(scopes) == 0 {
		scopes = DefaultLinkedInScopes
	}
	return &LinkedInProvider{
		config: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: origin + CallbackPath,
			Scopes:      scopes,
			Endpoint:    linkedin.Endpoint,
		},
	}
}

// AuthURL returns the authorization URL with state embedded. The caller must
// persist the same state value before opening it.
func (p *LinkedInProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// RedirectURL is the callback URL registered with LinkedIn.
func (p *LinkedInProvider) RedirectURL() string {
	return p.config.RedirectURL
}
