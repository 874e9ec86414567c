// Package protocol holds the API-version policy shared by every resource
// wrapper: field-name casing, endpoint URL construction and the well-known
// folder names.
package protocol

import "strings"

// defaultBaseURL is the Graph v1.0 service root.
const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Config describes how to build a Protocol.
type Config struct {
	// BaseURL is the service root. Empty means the Graph v1.0 default.
	BaseURL string
	// Mailbox scopes requests to a specific user. Empty means the
	// signed-in user ("me").
	Mailbox string
	// Casing selects the wire field-name strategy: "camel" or "pascal".
	Casing string
}

// Protocol carries the per-API-version policy: resource scope, service root
// and the field-name casing strategy.
type Protocol struct {
	baseURL      string
	mainResource string
	casing       CaseFunc
}

// New builds a Protocol from the given configuration.
func New(cfg Config) *Protocol {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	mainResource := "me"
	if cfg.Mailbox != "" {
		mainResource = "users/" + cfg.Mailbox
	}

	return &Protocol{
		baseURL:      baseURL,
		mainResource: mainResource,
		casing:       CaseFuncByName(cfg.Casing),
	}
}

// Casing returns the active field-name casing strategy.
func (p *Protocol) Casing() CaseFunc {
	return p.casing
}

// MainResource returns the resource scope requests are built against,
// e.g. "me" or "users/alice@contoso.com".
func (p *Protocol) MainResource() string {
	return p.mainResource
}

// BuildURL resolves a relative endpoint against the active resource scope.
// The endpoint must start with "/".
func (p *Protocol) BuildURL(endpoint string) string {
	return p.baseURL + "/" + p.mainResource + endpoint
}

// Endpoint is a relative URL template with an optional "{id}" placeholder.
type Endpoint string

// Format substitutes the "{id}" placeholder.
func (e Endpoint) Format(id string) string {
	return strings.ReplaceAll(string(e), "{id}", id)
}
