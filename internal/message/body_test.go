package message

import "testing"

func TestBodyText_HTML(t *testing.T) {
	t.Parallel()

	msg := newTestMessage(t, &fakeConnector{}, nil)
	msg.Body = "<html><body>Hi <b>there</b></body></html>"
	msg.BodyType = BodyTypeHTML

	if got := msg.BodyText(); got != "Hi there" {
		t.Errorf("BodyText: got %q, want %q", got, "Hi there")
	}
}

func TestBodyText_PlainTextPassesThrough(t *testing.T) {
	t.Parallel()

	msg := newTestMessage(t, &fakeConnector{}, nil)
	msg.Body = "<p>not parsed</p>"
	msg.BodyType = BodyTypeText

	if got := msg.BodyText(); got != "<p>not parsed</p>" {
		t.Errorf("BodyText: got %q, want raw body", got)
	}
}

func TestBodySoup(t *testing.T) {
	t.Parallel()

	msg := newTestMessage(t, &fakeConnector{}, nil)
	msg.Body = "<html><body><p class=\"x\">hi</p></body></html>"
	msg.BodyType = BodyTypeHTML

	doc := msg.BodySoup()
	if doc == nil {
		t.Fatal("BodySoup: got nil, want document")
	}
	if got := doc.Find("p.x").Text(); got != "hi" {
		t.Errorf("Find(p.x): got %q, want %q", got, "hi")
	}
}

func TestBodySoup_NilForPlainText(t *testing.T) {
	t.Parallel()

	msg := newTestMessage(t, &fakeConnector{}, nil)
	msg.Body = "plain"
	msg.BodyType = BodyTypeText

	if doc := msg.BodySoup(); doc != nil {
		t.Error("BodySoup: got document for plain text body, want nil")
	}
}
