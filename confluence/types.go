package confluence

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-get
type User struct {
	Type        string `json:"type"`
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get. I'm
// embellishing that with the Org/"Confluence instance name" field for convenience.
type Space struct {
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	Org    string `json:"-"`
}

// Parent types a page can hang off.  Pages directly under a space are roots of the hierarchy.
const (
	ParentSpace = "space"
	ParentPage  = "page"
)

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get.
// Requested with body-format=storage, so Body.Storage holds the page's storage-format markup.
type Page struct {
	ID         string `json:"id,omitempty"`
	Status     string `json:"status,omitempty"` // current, archived, deleted, trashed
	Title      string `json:"title,omitempty"`
	SpaceID    string `json:"spaceId,omitempty"`
	ParentID   string `json:"parentId,omitempty"`
	ParentType string `json:"parentType,omitempty"`
	Position   int    `json:"position,omitempty"`
	AuthorID   string `json:"authorId,omitempty"`

	CreatedAt string   `json:"createdAt"`
	Version   *Version `json:"version,omitempty"`

	Body Body `json:"body"`

	Links struct {
		WebUI  string `json:"webui,omitempty"`
		TinyUI string `json:"tinyui,omitempty"`
	} `json:"_links"`
}

// IsRoot reports whether the page sits directly under its space.
func (p Page) IsRoot() bool {
	return p.ParentID == "" || p.ParentType == ParentSpace
}

// HasBody reports whether there is any storage markup to convert.
func (p Page) HasBody() bool {
	return p.Body.Storage.Value != ""
}

// Version defines the content version number
type Version struct {
	CreatedAt string `json:"createdAt"`
	Message   string `json:"message,omitempty"`
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit"`
	AuthorID  string `json:"authorId,omitempty"`
}

// Body holds the storage information
type Body struct {
	Storage Storage  `json:"storage"`
	View    *Storage `json:"view,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/#api-pages-id-attachments-get
type Attachment struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Title        string `json:"title"`
	MediaType    string `json:"mediaType"`
	FileSize     int64  `json:"fileSize"`
	PageID       string `json:"pageId"`
	DownloadLink string `json:"downloadLink"`
}
