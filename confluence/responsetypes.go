package confluence

// Links carries the cursor for the next set of results.  It contains the relative URL for the next
// set of results, using a cursor query parameter, and is absent when there is no more data.
type Links struct {
	Next string `json:"next"`
}

// AllSpaces response type
type AllSpaces struct {
	Results []Space `json:"results"`
	Links   Links   `json:"_links"`
}

type MultiPageResponse struct {
	Results []Page `json:"results"`
	Links   Links  `json:"_links"`
}

type MultiAttachmentResponse struct {
	Results []Attachment `json:"results"`
	Links   Links        `json:"_links"`
}
