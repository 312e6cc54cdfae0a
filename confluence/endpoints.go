package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getPageByIDEndpoint returns the (v2) API endpoint to download one page:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-get
func (a *API) getPageByIDEndpoint(opts GetPageByIDQuery) (*url.URL, error) {
	if opts.ID < 1 {
		return nil, fmt.Errorf("confluence: please provide ID to get page by ID")
	}

	return a.endpointWithQuery(fmt.Sprintf("/wiki/api/v2/pages/%d", opts.ID), opts)
}

// getPagesEndpoint returns the (v2) API endpoint to list pages
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get
func (a *API) getPagesEndpoint(opts GetPagesQuery) (*url.URL, error) {
	return a.endpointWithQuery("/wiki/api/v2/pages", opts)
}

// getAttachmentsEndpoint returns the (v2) API endpoint to list a page's attachments
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/#api-pages-id-attachments-get
func (a *API) getAttachmentsEndpoint(opts GetAttachmentsQuery) (*url.URL, error) {
	if opts.PageID < 1 {
		return nil, fmt.Errorf("confluence: please provide page ID to list attachments")
	}

	return a.endpointWithQuery(fmt.Sprintf("/wiki/api/v2/pages/%d/attachments", opts.PageID), opts)
}

// getSpaceEndpoint returns the (v2) API endpoint to list spaces
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get
func (a *API) getSpaceEndpoint(opts SpacesQuery) (*url.URL, error) {
	return a.endpointWithQuery("/wiki/api/v2/spaces", opts)
}

// getCurrentUserEndpoint returns the (v1) API endpoint to query current user
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
//
// This API is supported.
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/wiki/rest/api/user/current")
}

// getDownloadEndpoint resolves an attachment's downloadLink, which is relative to the /wiki base.
func (a *API) getDownloadEndpoint(downloadLink string) (*url.URL, error) {
	if downloadLink == "" {
		return nil, fmt.Errorf("confluence: attachment has no download link")
	}

	u, err := url.Parse(a.BaseURI.String() + downloadLink)
	if err != nil {
		return nil, fmt.Errorf("confluence: download link is bunk: %w", err)
	}
	return u, nil
}

func (a *API) endpointWithQuery(endpoint string, opts any) (*url.URL, error) {
	ep, err := a.resolveEndpoint(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return a.BaseURI.ResolveReference(ref), nil
}
