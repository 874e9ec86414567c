package protocol

// FolderTarget is anything that resolves to a mail folder id: a raw id
// string, a well-known folder name, or a folder handle from a higher layer.
// Targets are resolved before any request is made.
type FolderTarget interface {
	FolderID() string
}

// RawFolderID wraps a plain folder id string.
type RawFolderID string

// FolderID returns the wrapped id.
func (r RawFolderID) FolderID() string {
	return string(r)
}

// WellKnownFolder is a symbolic folder name accepted by the API wherever a
// folder id is expected.
type WellKnownFolder string

// Well-known folder names.
const (
	Inbox        WellKnownFolder = "inbox"
	Drafts       WellKnownFolder = "drafts"
	SentItems    WellKnownFolder = "sentitems"
	DeletedItems WellKnownFolder = "deleteditems"
	Outbox       WellKnownFolder = "outbox"
	JunkEmail    WellKnownFolder = "junkemail"
)

// FolderID returns the symbolic name; the API resolves it server-side.
func (w WellKnownFolder) FolderID() string {
	return string(w)
}
