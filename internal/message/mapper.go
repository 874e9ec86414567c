package message

import "github.com/shineum/cloudmail/internal/protocol"

// recipientMapper translates recipients between their wire JSON shape and
// the local model. The casing strategy comes from the active protocol and is
// applied to every wire key.
type recipientMapper struct {
	cc protocol.CaseFunc
}

// fromCloudList maps a wire recipient array into a RecipientList.
func (m recipientMapper) fromCloudList(values []any) *RecipientList {
	l := &RecipientList{}
	for _, v := range values {
		obj, _ := v.(map[string]any)
		l.recipients = append(l.recipients, m.fromCloud(obj))
	}
	return l
}

// fromCloud maps a single wire recipient. The usual shape nests the address
// under an "emailAddress" envelope; a flattened {address, name} object is
// accepted too. Missing fields default to empty strings, nil input yields an
// empty Recipient.
func (m recipientMapper) fromCloud(value map[string]any) Recipient {
	if value == nil {
		return Recipient{}
	}

	if inner, ok := value[m.cc("emailAddress")].(map[string]any); ok {
		value = inner
	}

	address, _ := value[m.cc("address")].(string)
	name, _ := value[m.cc("name")].(string)
	return Recipient{Address: address, Name: name}
}

// toCloud maps a recipient into its wire envelope. Empty recipients map to
// nil so callers can omit the key.
func (m recipientMapper) toCloud(r Recipient) map[string]any {
	if r.Empty() {
		return nil
	}

	inner := map[string]any{m.cc("address"): r.Address}
	if r.Name != "" {
		inner[m.cc("name")] = r.Name
	}
	return map[string]any{m.cc("emailAddress"): inner}
}

// toCloudList maps each recipient in the list, skipping empty ones.
func (m recipientMapper) toCloudList(l *RecipientList) []any {
	out := make([]any, 0, l.Len())
	for _, r := range l.recipients {
		if data := m.toCloud(r); data != nil {
			out = append(out, data)
		}
	}
	return out
}
