package confluence

// SpacesQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get
type SpacesQuery struct {
	// Filter the results to spaces based on...
	IDs    []int    `url:"ids,omitempty,comma"`  // their IDs.
	Keys   []string `url:"keys,omitempty,comma"` // their keys.
	Type   string   `url:"type,omitempty"`       // their types. Valid values: "global" or "personal"
	Status string   `url:"status,omitempty"`     // their status: current, archived.

	Sort string `url:"sort,omitempty"` // Sort order: id, -id, key, -key, name, -name

	// 'Cursor' is used for pagination; this opaque cursor will be returned in the 'next' URL in the
	// 'Link' response header.  Use the relative URL in the 'Link' header to retrieve the next set
	// of results.
	Cursor string `url:"cursor,omitempty"`
	Limit  int    `url:"limit,omitempty"` // page limit; default 25, range 1-250
}

// GetPagesQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get
type GetPagesQuery struct {
	ID         []int    `url:"id,omitempty,comma"`       // ID of the pages
	SpaceID    []int    `url:"space-id,omitempty,comma"` // Limit to particular spaces (maximum 100 per query)
	Sort       string   `url:"sort,omitempty"`           // Sort order: id, -id, created-date, -created-date, modified-date, -modified-date, title, -title
	Status     []string `url:"status,omitempty,comma"`   // their status: current, archived, deleted, trashed
	Title      string   `url:"title,omitempty"`          // Filter by title
	BodyFormat string   `url:"body-format,omitempty"`    // storage, atlas_doc_format, view

	Cursor string `url:"cursor,omitempty"`
	Limit  int    `url:"limit,omitempty"` // page limit; default 25, range 1-250
}

// GetPageByIDQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-get
type GetPageByIDQuery struct {
	ID int `url:"-"` // ID of the page; required

	BodyFormat string `url:"body-format,omitempty"`
	GetDraft   bool   `url:"get-draft,omitempty"`
	Version    int    `url:"version,omitempty"` // Allows you to retrieve a previously published version.
}

// GetAttachmentsQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/#api-pages-id-attachments-get
type GetAttachmentsQuery struct {
	PageID    int    `url:"-"` // ID of the page; required
	MediaType string `url:"mediaType,omitempty"`
	Filename  string `url:"filename,omitempty"`

	Cursor string `url:"cursor,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}
