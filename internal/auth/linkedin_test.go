package auth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedInProvider_AuthURL(t *testing.T) {
	p := NewLinkedInProvider("li-client", "http://localhost:8765", nil)

	authURL := p.AuthURL("test-state-parameter")

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "www.linkedin.com", u.Host)
	assert.Equal(t, "/oauth/v2/authorization", u.Path)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "li-client", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8765/auth/linkedin/callback", q.Get("redirect_uri"))
	assert.Equal(t, "r_liteprofile r_emailaddress", q.Get("scope"))
	assert.Equal(t, "test-state-parameter", q.Get("state"))
}

func TestLinkedInProvider_CustomScopes(t *testing.T) {
	p := NewLinkedInProvider("li-client", "http://localhost:8765", []string{"openid", "profile", "email"})

	u, err := url.Parse(p.AuthURL("s"))
	require.NoError(t, err)
	assert.Equal(t, "openid profile email", u.Query().Get("scope"))
	assert.Equal(t, "http://localhost:8765/auth/linkedin/callback", p.RedirectURL())
}
