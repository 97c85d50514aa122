package entity

// SourceReference identifies one document a retrieved chunk came from.
// The sources list of a query result holds one entry per filename,
// first-retrieval order preserved.
type SourceReference struct {
	Filename       string `json:"filename"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	PublishingYear *int   `json:"publishingYear,omitempty"`
	Type           string `json:"type"`
}
