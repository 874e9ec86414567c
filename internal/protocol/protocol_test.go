package protocol

import "testing"

func TestPascalCase(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"toRecipients", "ToRecipients"},
		{"isRead", "IsRead"},
		{"id", "Id"},
		{"", ""},
	}

	for _, c := range cases {
		if got := PascalCase(c.in); got != c.want {
			t.Errorf("PascalCase(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCamelCase_IsIdentity(t *testing.T) {
	t.Parallel()

	if got := CamelCase("toRecipients"); got != "toRecipients" {
		t.Errorf("CamelCase: got %q, want %q", got, "toRecipients")
	}
}

func TestCaseFuncByName(t *testing.T) {
	t.Parallel()

	if got := CaseFuncByName("pascal")("isDraft"); got != "IsDraft" {
		t.Errorf("pascal strategy: got %q, want %q", got, "IsDraft")
	}
	if got := CaseFuncByName("camel")("isDraft"); got != "isDraft" {
		t.Errorf("camel strategy: got %q, want %q", got, "isDraft")
	}
	// Unknown names fall back to camelCase
	if got := CaseFuncByName("snake")("isDraft"); got != "isDraft" {
		t.Errorf("fallback strategy: got %q, want %q", got, "isDraft")
	}
}

func TestBuildURL_DefaultResource(t *testing.T) {
	t.Parallel()

	p := New(Config{})

	got := p.BuildURL("/messages")
	want := "https://graph.microsoft.com/v1.0/me/messages"
	if got != want {
		t.Errorf("BuildURL: got %q, want %q", got, want)
	}
}

func TestBuildURL_MailboxScope(t *testing.T) {
	t.Parallel()

	p := New(Config{
		BaseURL: "https://example.com/api/",
		Mailbox: "alice@contoso.com",
	})

	got := p.BuildURL("/sendMail")
	want := "https://example.com/api/users/alice@contoso.com/sendMail"
	if got != want {
		t.Errorf("BuildURL: got %q, want %q", got, want)
	}
}

func TestEndpointFormat(t *testing.T) {
	t.Parallel()

	e := Endpoint("/messages/{id}/move")
	if got := e.Format("abc123"); got != "/messages/abc123/move" {
		t.Errorf("Format: got %q, want %q", got, "/messages/abc123/move")
	}
}

func TestFolderTargets(t *testing.T) {
	t.Parallel()

	if got := RawFolderID("folder-9").FolderID(); got != "folder-9" {
		t.Errorf("RawFolderID: got %q, want %q", got, "folder-9")
	}
	if got := Drafts.FolderID(); got != "drafts" {
		t.Errorf("WellKnownFolder: got %q, want %q", got, "drafts")
	}
}
