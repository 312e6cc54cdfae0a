package confluence

import (
	"fmt"
	"net/http"
	"net/url"
)

func NewAPI(instance string, username string, token string) (*API, error) {
	if instance == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence instance name --confluence-instance")
	}
	if username == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence username with --auth-username")
	}
	if token == "" {
		return nil, fmt.Errorf("confluence: auth token is empty, please check auth-token-cmd or CONFLUENCE_API_TOKEN")
	}

	u, err := url.ParseRequestURI(
		fmt.Sprintf("https://%s.atlassian.net/wiki",
			instance,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	return NewAPIWithBaseURI(u, username, token), nil
}

// NewAPIWithBaseURI skips the atlassian.net URL construction, e.g. for a self-hosted wiki or a
// test server.
func NewAPIWithBaseURI(base *url.URL, username string, token string) *API {
	return &API{
		BaseURI:  base,
		Client:   &http.Client{},
		token:    token,
		username: username,
	}
}

type API struct {
	// The base of the Confluence instance, e.g. https://INSTANCE.atlassian.net/wiki
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Auth info
	username, token string
}
