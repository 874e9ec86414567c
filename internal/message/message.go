// Package message models a single email message resource of a cloud mail
// API and the translation between its wire JSON shape and the local object
// model. Remote operations are plain blocking round trips through the
// connection capability; failures come back as values, never panics.
package message

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shineum/cloudmail/internal/connection"
	"github.com/shineum/cloudmail/internal/protocol"
)

// BodyType is the content type of a message body.
type BodyType string

// Body content types.
const (
	BodyTypeHTML BodyType = "HTML"
	BodyTypeText BodyType = "Text"
)

// Importance is the message importance flag.
type Importance string

// Importance levels. Anything else on the wire coerces to normal.
const (
	ImportanceNormal Importance = "normal"
	ImportanceLow    Importance = "low"
	ImportanceHigh   Importance = "high"
)

// Message resource endpoints, relative to the active resource scope.
const (
	createDraftEndpoint       protocol.Endpoint = "/messages"
	createDraftFolderEndpoint protocol.Endpoint = "/mailFolders/{id}/messages"
	sendMailEndpoint          protocol.Endpoint = "/sendMail"
	sendDraftEndpoint         protocol.Endpoint = "/messages/{id}/send"
	messageEndpoint           protocol.Endpoint = "/messages/{id}"
	moveMessageEndpoint       protocol.Endpoint = "/messages/{id}/move"
	copyMessageEndpoint       protocol.Endpoint = "/messages/{id}/copy"
	createReplyEndpoint       protocol.Endpoint = "/messages/{id}/createReply"
	createReplyAllEndpoint    protocol.Endpoint = "/messages/{id}/createReplyAll"
	forwardMessageEndpoint    protocol.Endpoint = "/messages/{id}/createForward"
)

// sentMessagePlaceholderID marks a message sent through the sendMail
// endpoint, which returns no body to take a real id from.
const sentMessagePlaceholderID = "sent_message"

// Parent supplies the connection and protocol scope to child resources, the
// way a mailbox or folder wrapper would.
type Parent interface {
	Connection() connection.Connector
	Protocol() *protocol.Protocol
}

// Config configures a new Message. Either Parent or the Con/Protocol pair
// must be set.
type Config struct {
	Parent   Parent
	Con      connection.Connector
	Protocol *protocol.Protocol

	// CloudData hydrates the message from a wire payload. Nil builds an
	// empty draft.
	CloudData map[string]any

	// DownloadAttachments makes construction fetch the attachment list when
	// the wire payload reports hasAttachments. This is the one place where
	// construction performs I/O.
	DownloadAttachments bool

	// Context bounds the attachment download during construction. Nil means
	// context.Background().
	Context context.Context
}

// Message is an email message resource. It owns its recipient lists and
// attachment collection exclusively; collections are created fresh per
// instance and never shared across messages.
type Message struct {
	con      connection.Connector
	protocol *protocol.Protocol
	cc       protocol.CaseFunc
	mapper   recipientMapper

	objectID string
	created  *time.Time
	received *time.Time
	sent     *time.Time

	Subject  string
	Body     string
	BodyType BodyType

	sender      Recipient
	to          *RecipientList
	ccList      *RecipientList
	bcc         *RecipientList
	replyTo     *RecipientList
	categories  []string
	Importance  Importance
	isRead      *bool
	isDraft     bool
	attachments *AttachmentCollection

	conversationID string
	folderID       string
}

// New builds a Message, either empty (a fresh draft) or hydrated from the
// wire payload in cfg.CloudData. It fails with ErrMissingConnection when
// neither a parent nor an explicit connection is supplied.
func New(cfg Config) (*Message, error) {
	con := cfg.Con
	proto := cfg.Protocol
	if cfg.Parent != nil {
		con = cfg.Parent.Connection()
		if proto == nil {
			proto = cfg.Parent.Protocol()
		}
	}
	if con == nil || proto == nil {
		return nil, ErrMissingConnection
	}

	cc := proto.Casing()
	m := &Message{
		con:      con,
		protocol: proto,
		cc:       cc,
		mapper:   recipientMapper{cc: cc},
	}
	m.attachments = &AttachmentCollection{parent: m}

	cloud := cfg.CloudData

	m.objectID = getString(cloud, cc("id"))
	m.created = parseWireTime(getString(cloud, cc("createdDateTime")))
	m.received = parseWireTime(getString(cloud, cc("receivedDateTime")))
	m.sent = parseWireTime(getString(cloud, cc("sentDateTime")))

	m.Subject = getString(cloud, cc("subject"))
	body, _ := cloud[cc("body")].(map[string]any)
	m.Body = getString(body, cc("content"))
	m.BodyType = normalizeBodyType(getString(body, cc("contentType")))

	m.sender = m.mapper.fromCloud(asObject(cloud[cc("from")]))
	m.to = m.mapper.fromCloudList(asList(cloud[cc("toRecipients")]))
	m.ccList = m.mapper.fromCloudList(asList(cloud[cc("ccRecipients")]))
	m.bcc = m.mapper.fromCloudList(asList(cloud[cc("bccRecipients")]))
	m.replyTo = m.mapper.fromCloudList(asList(cloud[cc("replyTo")]))

	m.categories = asStringList(cloud[cc("categories")])
	m.Importance = normalizeImportance(getString(cloud, cc("importance")))

	if v, ok := cloud[cc("isRead")].(bool); ok {
		m.isRead = &v
	}
	m.isDraft = getBool(cloud, cc("isDraft"), true)
	m.conversationID = getString(cloud, cc("conversationId"))
	m.folderID = getString(cloud, cc("parentFolderId"))

	hasAttachments := getBool(cloud, cc("hasAttachments"), false)
	if hasAttachments && cfg.DownloadAttachments {
		ctx := cfg.Context
		if ctx == nil {
			ctx = context.Background()
		}
		if err := m.attachments.Download(ctx); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// derive builds a new Message from a response body using this message's
// connection and protocol. Used by the operations that create derived
// messages (reply, forward, copy).
func (m *Message) derive(cloud map[string]any) (*Message, error) {
	return New(Config{Con: m.con, Protocol: m.protocol, CloudData: cloud})
}

// ObjectID returns the cloud id, empty until the message is persisted.
func (m *Message) ObjectID() string { return m.objectID }

// ConversationID returns the conversation this message belongs to.
func (m *Message) ConversationID() string { return m.conversationID }

// FolderID returns the id of the folder holding this message.
func (m *Message) FolderID() string { return m.folderID }

// IsDraft reports whether the message is still a draft.
func (m *Message) IsDraft() bool { return m.isDraft }

// IsRead reports whether the message has been read. Unknown counts as
// unread.
func (m *Message) IsRead() bool { return m.isRead != nil && *m.isRead }

// Created returns the creation instant in the local timezone, nil when the
// wire payload carried none.
func (m *Message) Created() *time.Time { return m.created }

// Received returns the received instant, nil when absent.
func (m *Message) Received() *time.Time { return m.received }

// Sent returns the sent instant, nil when absent.
func (m *Message) Sent() *time.Time { return m.sent }

// Sender returns the sender recipient.
func (m *Message) Sender() Recipient { return m.sender }

// SetSender replaces the sender.
func (m *Message) SetSender(r Recipient) { m.sender = r }

// SetSenderAddress updates the sender address, keeping the display name.
func (m *Message) SetSenderAddress(address string) { m.sender.Address = address }

// To returns the primary recipient list. The list itself is mutable through
// its methods; the reference is not replaceable.
func (m *Message) To() *RecipientList { return m.to }

// Cc returns the carbon-copy recipient list.
func (m *Message) Cc() *RecipientList { return m.ccList }

// Bcc returns the blind-carbon-copy recipient list.
func (m *Message) Bcc() *RecipientList { return m.bcc }

// ReplyTo returns the reply-to recipient list.
func (m *Message) ReplyTo() *RecipientList { return m.replyTo }

// Attachments returns the attachment collection owned by this message.
func (m *Message) Attachments() *AttachmentCollection { return m.attachments }

// Categories returns a copy of the message categories.
func (m *Message) Categories() []string {
	out := make([]string, len(m.categories))
	copy(out, m.categories)
	return out
}

// SetCategories replaces the message categories.
func (m *Message) SetCategories(categories []string) {
	m.categories = append([]string(nil), categories...)
}

// String renders the subject, mirroring how message lists are displayed.
func (m *Message) String() string {
	return "Subject: " + m.Subject
}

// ToAPIData returns the wire payload for this message. Persisted, sent
// messages serialize their full signature; new messages and drafts use the
// reduced create shape where "from" appears only when a sender address is
// set. The two shapes are distinct API contracts, not duplication.
func (m *Message) ToAPIData() map[string]any {
	cc := m.cc

	data := map[string]any{
		cc("subject"): m.Subject,
		cc("body"): map[string]any{
			cc("contentType"): string(m.BodyType),
			cc("content"):     m.Body,
		},
		cc("toRecipients"):  m.mapper.toCloudList(m.to),
		cc("ccRecipients"):  m.mapper.toCloudList(m.ccList),
		cc("bccRecipients"): m.mapper.toCloudList(m.bcc),
		cc("replyTo"):       m.mapper.toCloudList(m.replyTo),
		cc("attachments"):   m.attachments.ToAPIData(),
	}

	if m.objectID != "" && !m.isDraft {
		data[cc("id")] = m.objectID
		data[cc("createdDateTime")] = utcISO(m.created)
		data[cc("receivedDateTime")] = utcISO(m.received)
		data[cc("sentDateTime")] = utcISO(m.sent)
		data[cc("hasAttachments")] = m.attachments.Len() > 0
		data[cc("from")] = m.mapper.toCloud(m.sender)
		data[cc("categories")] = m.categories
		data[cc("importance")] = string(m.Importance)
		data[cc("isRead")] = m.isRead
		data[cc("isDraft")] = m.isDraft
		data[cc("conversationId")] = m.conversationID
		data[cc("parentFolderId")] = m.folderID
	} else if !m.sender.Empty() {
		data[cc("from")] = m.mapper.toCloud(m.sender)
	}

	return data
}

// Send sends this message. Drafts already saved to the cloud go through the
// send-draft endpoint without a body; everything else posts the full payload
// to the sendMail endpoint. saveToSentItems=false asks the API not to keep a
// copy in the sent folder.
func (m *Message) Send(ctx context.Context, saveToSentItems bool) error {
	if m.objectID != "" && !m.isDraft {
		return ErrNotDraft
	}

	var url string
	var data map[string]any
	if m.isDraft && m.objectID != "" {
		url = m.protocol.BuildURL(sendDraftEndpoint.Format(m.objectID))
	} else {
		url = m.protocol.BuildURL(string(sendMailEndpoint))
		data = map[string]any{m.cc("message"): m.ToAPIData()}
		if !saveToSentItems {
			data[m.cc("saveToSentItems")] = false
		}
	}

	resp, err := m.con.Post(ctx, url, data)
	if err != nil {
		slog.Error("message could not be sent", "error", err)
		return &RemoteError{Op: "send", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusAccepted {
		slog.Debug("message failed to be sent", "status", resp.StatusCode, "reason", resp.Reason)
		return &RemoteError{Op: "send", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	if m.objectID == "" {
		m.objectID = sentMessagePlaceholderID
	}
	m.isDraft = false

	return nil
}

// Reply creates a new message replying to this one. toAll addresses every
// recipient instead of just the sender. The returned message is a fresh
// instance hydrated from the response; the original is never mutated.
func (m *Message) Reply(ctx context.Context, toAll bool) (*Message, error) {
	if m.objectID == "" {
		return nil, ErrUnsavedMessage
	}
	if m.isDraft {
		return nil, ErrIsDraft
	}

	endpoint := createReplyEndpoint
	if toAll {
		endpoint = createReplyAllEndpoint
	}
	url := m.protocol.BuildURL(endpoint.Format(m.objectID))

	resp, err := m.con.Post(ctx, url, nil)
	if err != nil {
		slog.Error("message could not be replied", "message_id", m.objectID, "error", err)
		return nil, &RemoteError{Op: "reply", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		slog.Debug("message could not be replied", "message_id", m.objectID, "status", resp.StatusCode, "reason", resp.Reason)
		return nil, &RemoteError{Op: "reply", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	cloud, err := resp.JSON()
	if err != nil {
		return nil, &RemoteError{Op: "reply", Reason: err.Error(), Err: err}
	}

	return m.derive(cloud)
}

// Forward creates a new message forwarding this one.
func (m *Message) Forward(ctx context.Context) (*Message, error) {
	if m.objectID == "" {
		return nil, ErrUnsavedMessage
	}
	if m.isDraft {
		return nil, ErrIsDraft
	}

	url := m.protocol.BuildURL(forwardMessageEndpoint.Format(m.objectID))

	resp, err := m.con.Post(ctx, url, nil)
	if err != nil {
		slog.Error("message could not be forwarded", "message_id", m.objectID, "error", err)
		return nil, &RemoteError{Op: "forward", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		slog.Debug("message could not be forwarded", "message_id", m.objectID, "status", resp.StatusCode, "reason", resp.Reason)
		return nil, &RemoteError{Op: "forward", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	cloud, err := resp.JSON()
	if err != nil {
		return nil, &RemoteError{Op: "forward", Reason: err.Error(), Err: err}
	}

	return m.derive(cloud)
}

// Delete deletes the stored message.
func (m *Message) Delete(ctx context.Context) error {
	if m.objectID == "" {
		return ErrUnsavedMessage
	}

	url := m.protocol.BuildURL(messageEndpoint.Format(m.objectID))

	resp, err := m.con.Delete(ctx, url)
	if err != nil {
		slog.Error("message could not be deleted", "message_id", m.objectID, "error", err)
		return &RemoteError{Op: "delete", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusNoContent {
		slog.Debug("message could not be deleted", "message_id", m.objectID, "status", resp.StatusCode, "reason", resp.Reason)
		return &RemoteError{Op: "delete", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	return nil
}

// MarkAsRead marks this message as read in the cloud.
func (m *Message) MarkAsRead(ctx context.Context) error {
	if m.objectID == "" {
		return ErrUnsavedMessage
	}
	if m.isDraft {
		return ErrIsDraft
	}

	url := m.protocol.BuildURL(messageEndpoint.Format(m.objectID))
	data := map[string]any{m.cc("isRead"): true}

	resp, err := m.con.Patch(ctx, url, data)
	if err != nil {
		slog.Error("message could not be marked as read", "message_id", m.objectID, "error", err)
		return &RemoteError{Op: "mark as read", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("message could not be marked as read", "message_id", m.objectID, "status", resp.StatusCode, "reason", resp.Reason)
		return &RemoteError{Op: "mark as read", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	read := true
	m.isRead = &read

	return nil
}

// Move moves the message to the given folder.
func (m *Message) Move(ctx context.Context, folder protocol.FolderTarget) error {
	if m.objectID == "" {
		return ErrUnsavedMessage
	}
	folderID := resolveFolder(folder)
	if folderID == "" {
		return ErrInvalidFolder
	}

	url := m.protocol.BuildURL(moveMessageEndpoint.Format(m.objectID))
	data := map[string]any{m.cc("destinationId"): folderID}

	resp, err := m.con.Post(ctx, url, data)
	if err != nil {
		slog.Error("message could not be moved", "message_id", m.objectID, "folder_id", folderID, "error", err)
		return &RemoteError{Op: "move", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		slog.Debug("message could not be moved", "message_id", m.objectID, "folder_id", folderID, "status", resp.StatusCode, "reason", resp.Reason)
		return &RemoteError{Op: "move", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	m.folderID = folderID

	return nil
}

// Copy copies the message to the given folder and returns the copy.
func (m *Message) Copy(ctx context.Context, folder protocol.FolderTarget) (*Message, error) {
	if m.objectID == "" {
		return nil, ErrUnsavedMessage
	}
	folderID := resolveFolder(folder)
	if folderID == "" {
		return nil, ErrInvalidFolder
	}

	url := m.protocol.BuildURL(copyMessageEndpoint.Format(m.objectID))
	data := map[string]any{m.cc("destinationId"): folderID}

	resp, err := m.con.Post(ctx, url, data)
	if err != nil {
		slog.Error("message could not be copied", "message_id", m.objectID, "folder_id", folderID, "error", err)
		return nil, &RemoteError{Op: "copy", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		slog.Debug("message could not be copied", "message_id", m.objectID, "folder_id", folderID, "status", resp.StatusCode, "reason", resp.Reason)
		return nil, &RemoteError{Op: "copy", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	cloud, err := resp.JSON()
	if err != nil {
		return nil, &RemoteError{Op: "copy", Reason: err.Error(), Err: err}
	}

	return m.derive(cloud)
}

// UpdateCategories replaces the message categories in the cloud, then
// mirrors whatever the API stored locally.
func (m *Message) UpdateCategories(ctx context.Context, categories []string) error {
	if m.objectID == "" {
		return ErrUnsavedMessage
	}
	if categories == nil {
		categories = []string{}
	}

	url := m.protocol.BuildURL(messageEndpoint.Format(m.objectID))
	data := map[string]any{m.cc("categories"): categories}

	resp, err := m.con.Patch(ctx, url, data)
	if err != nil {
		slog.Error("categories not updated", "message_id", m.objectID, "error", err)
		return &RemoteError{Op: "update categories", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("categories not updated", "message_id", m.objectID, "status", resp.StatusCode, "reason", resp.Reason)
		return &RemoteError{Op: "update categories", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	cloud, err := resp.JSON()
	if err != nil {
		return &RemoteError{Op: "update categories", Reason: err.Error(), Err: err}
	}
	m.categories = asStringList(cloud[m.cc("categories")])

	return nil
}

// SaveDraft saves this message as a draft in the cloud. A nil target saves
// into the well-known drafts folder; any other target uses the folder-scoped
// drafts endpoint.
func (m *Message) SaveDraft(ctx context.Context, target protocol.FolderTarget) error {
	if !m.isDraft {
		return ErrNotDraft
	}
	if m.objectID != "" {
		return ErrAlreadySaved
	}

	var url string
	folderID := resolveFolder(target)
	if folderID != "" && folderID != protocol.Drafts.FolderID() {
		url = m.protocol.BuildURL(createDraftFolderEndpoint.Format(folderID))
	} else {
		url = m.protocol.BuildURL(string(createDraftEndpoint))
	}

	resp, err := m.con.Post(ctx, url, m.ToAPIData())
	if err != nil {
		slog.Error("error saving draft", "error", err)
		return &RemoteError{Op: "save draft", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusCreated {
		slog.Debug("saving draft request failed", "status", resp.StatusCode, "reason", resp.Reason)
		return &RemoteError{Op: "save draft", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	cloud, err := resp.JSON()
	if err != nil {
		return &RemoteError{Op: "save draft", Reason: err.Error(), Err: err}
	}
	m.objectID = getString(cloud, m.cc("id"))
	m.folderID = getString(cloud, m.cc("parentFolderId"))

	return nil
}

// resolveFolder turns a folder target into an id, empty when unresolvable.
func resolveFolder(folder protocol.FolderTarget) string {
	if folder == nil {
		return ""
	}
	return folder.FolderID()
}

// normalizeImportance coerces any unknown wire value to normal.
func normalizeImportance(value string) Importance {
	switch Importance(strings.ToLower(value)) {
	case ImportanceLow:
		return ImportanceLow
	case ImportanceHigh:
		return ImportanceHigh
	default:
		return ImportanceNormal
	}
}

// normalizeBodyType defaults to HTML; only an explicit text content type
// yields BodyTypeText.
func normalizeBodyType(value string) BodyType {
	if strings.EqualFold(value, string(BodyTypeText)) {
		return BodyTypeText
	}
	return BodyTypeHTML
}

// parseWireTime parses an ISO-8601 wire timestamp into the local timezone.
// Absent or unparseable values yield nil, never "now".
func parseWireTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Some API versions omit the offset on stored drafts; those
		// instants are UTC.
		t, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			return nil
		}
		t = t.UTC()
	}
	local := t.In(time.Local)
	return &local
}

// utcISO serializes an instant as UTC ISO-8601, nil staying nil.
func utcISO(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func getString(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func getBool(data map[string]any, key string, def bool) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return def
}

func asObject(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func asStringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
