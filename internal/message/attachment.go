package message

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/shineum/cloudmail/internal/protocol"
)

// fileAttachmentType is the OData type marker for plain file attachments.
const fileAttachmentType = "#microsoft.graph.fileAttachment"

// attachmentsEndpoint lists or creates attachments on a message.
const attachmentsEndpoint protocol.Endpoint = "/messages/{id}/attachments"

// Attachment is a file attached to a message.
type Attachment struct {
	// ObjectID is the cloud id, empty for attachments not yet uploaded.
	ObjectID    string
	Name        string
	ContentType string
	Content     []byte
}

// attachmentFromCloud hydrates an attachment from its wire object.
func attachmentFromCloud(cc protocol.CaseFunc, data map[string]any) Attachment {
	a := Attachment{}
	a.ObjectID, _ = data[cc("id")].(string)
	a.Name, _ = data[cc("name")].(string)
	a.ContentType, _ = data[cc("contentType")].(string)
	if encoded, ok := data[cc("contentBytes")].(string); ok {
		if raw, err := base64.StdEncoding.DecodeString(encoded); err == nil {
			a.Content = raw
		}
	}
	return a
}

// toAPIData returns the wire object for this attachment.
func (a Attachment) toAPIData(cc protocol.CaseFunc) map[string]any {
	return map[string]any{
		"@odata.type":      fileAttachmentType,
		cc("name"):         a.Name,
		cc("contentType"):  a.ContentType,
		cc("contentBytes"): base64.StdEncoding.EncodeToString(a.Content),
	}
}

// AttachmentCollection holds the attachments of a single message, in order.
// Each message owns its own collection; collections are never shared.
type AttachmentCollection struct {
	parent      *Message
	attachments []Attachment
}

// Add appends attachments to the collection.
func (c *AttachmentCollection) Add(attachments ...Attachment) {
	c.attachments = append(c.attachments, attachments...)
}

// Len returns the number of attachments.
func (c *AttachmentCollection) Len() int {
	return len(c.attachments)
}

// At returns the attachment at position i.
func (c *AttachmentCollection) At(i int) Attachment {
	return c.attachments[i]
}

// ToAPIData returns the wire array for every attachment in the collection.
func (c *AttachmentCollection) ToAPIData() []any {
	cc := c.parent.cc
	out := make([]any, 0, len(c.attachments))
	for _, a := range c.attachments {
		out = append(out, a.toAPIData(cc))
	}
	return out
}

// Download fetches the attachments of the parent message from the cloud and
// replaces the local collection. Messages without a cloud id have nothing to
// download, so the call is a no-op for them.
func (c *AttachmentCollection) Download(ctx context.Context) error {
	if c.parent.objectID == "" {
		return nil
	}

	url := c.parent.protocol.BuildURL(attachmentsEndpoint.Format(c.parent.objectID))

	resp, err := c.parent.con.Get(ctx, url)
	if err != nil {
		slog.Error("attachments could not be downloaded",
			"message_id", c.parent.objectID,
			"error", err,
		)
		return &RemoteError{Op: "download attachments", Reason: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("attachments could not be downloaded",
			"message_id", c.parent.objectID,
			"status", resp.StatusCode,
			"reason", resp.Reason,
		)
		return &RemoteError{Op: "download attachments", StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	data, err := resp.JSON()
	if err != nil {
		return &RemoteError{Op: "download attachments", Reason: err.Error(), Err: err}
	}

	values, _ := data["value"].([]any)
	c.attachments = c.attachments[:0]
	for _, v := range values {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		c.attachments = append(c.attachments, attachmentFromCloud(c.parent.cc, obj))
	}

	return nil
}
