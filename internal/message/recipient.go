package message

import "fmt"

// Recipient is a single mail recipient: an address plus an optional display
// name. A Recipient with an empty address is considered empty.
type Recipient struct {
	Address string
	Name    string
}

// Empty reports whether the recipient has no address.
func (r Recipient) Empty() bool {
	return r.Address == ""
}

// String renders "name (address)" when a display name is present, otherwise
// the bare address.
func (r Recipient) String() string {
	if r.Name != "" {
		return fmt.Sprintf("%s (%s)", r.Name, r.Address)
	}
	return r.Address
}

// NamedAddress is a (name, address) pair accepted by RecipientList.Add.
// Pairs with an empty address are skipped silently on add; this differs from
// adding a bare Recipient, which is kept as-is.
type NamedAddress struct {
	Name    string
	Address string
}

// RecipientList is an ordered collection of recipients. The zero value is
// ready to use. Membership is decided by address only.
type RecipientList struct {
	recipients []Recipient
}

// NewRecipientList builds a list from any input Add accepts.
func NewRecipientList(recipients ...any) (*RecipientList, error) {
	l := &RecipientList{}
	if err := l.Add(recipients...); err != nil {
		return nil, err
	}
	return l, nil
}

// Add appends recipients. Each input may be an address string, a Recipient,
// a NamedAddress pair, or a slice of those (flattened recursively). A
// NamedAddress with an empty address is dropped without error. Any other
// type fails with ErrInvalidRecipient.
func (l *RecipientList) Add(recipients ...any) error {
	for _, r := range recipients {
		switch v := r.(type) {
		case string:
			l.recipients = append(l.recipients, Recipient{Address: v})
		case Recipient:
			l.recipients = append(l.recipients, v)
		case *Recipient:
			l.recipients = append(l.recipients, *v)
		case NamedAddress:
			if v.Address != "" {
				l.recipients = append(l.recipients, Recipient{Address: v.Address, Name: v.Name})
			}
		case []string:
			for _, s := range v {
				if err := l.Add(s); err != nil {
					return err
				}
			}
		case []Recipient:
			l.recipients = append(l.recipients, v...)
		case []NamedAddress:
			for _, na := range v {
				if err := l.Add(na); err != nil {
					return err
				}
			}
		case []any:
			if err := l.Add(v...); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: got %T", ErrInvalidRecipient, r)
		}
	}
	return nil
}

// Remove filters the list in place, dropping every recipient whose address
// matches one of the given addresses.
func (l *RecipientList) Remove(addresses ...string) {
	drop := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		drop[a] = struct{}{}
	}

	kept := l.recipients[:0]
	for _, r := range l.recipients {
		if _, ok := drop[r.Address]; !ok {
			kept = append(kept, r)
		}
	}
	l.recipients = kept
}

// Clear removes all recipients.
func (l *RecipientList) Clear() {
	l.recipients = nil
}

// Contains reports whether any recipient has the given address.
func (l *RecipientList) Contains(address string) bool {
	for _, r := range l.recipients {
		if r.Address == address {
			return true
		}
	}
	return false
}

// FirstWithAddress returns the first recipient with a non-empty address.
func (l *RecipientList) FirstWithAddress() (Recipient, bool) {
	for _, r := range l.recipients {
		if !r.Empty() {
			return r, true
		}
	}
	return Recipient{}, false
}

// Len returns the number of recipients.
func (l *RecipientList) Len() int {
	return len(l.recipients)
}

// At returns the recipient at position i.
func (l *RecipientList) At(i int) Recipient {
	return l.recipients[i]
}

// All returns a copy of the recipients in order.
func (l *RecipientList) All() []Recipient {
	out := make([]Recipient, len(l.recipients))
	copy(out, l.recipients)
	return out
}

// String reports the recipient count.
func (l *RecipientList) String() string {
	return fmt.Sprintf("recipients count: %d", len(l.recipients))
}
