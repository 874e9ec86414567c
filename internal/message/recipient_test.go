package message

import (
	"errors"
	"testing"
)

func TestRecipientString(t *testing.T) {
	t.Parallel()

	r := Recipient{Address: "a@b.com", Name: "Alice"}
	if got := r.String(); got != "Alice (a@b.com)" {
		t.Errorf("String: got %q, want %q", got, "Alice (a@b.com)")
	}

	r = Recipient{Address: "a@b.com"}
	if got := r.String(); got != "a@b.com" {
		t.Errorf("String without name: got %q, want %q", got, "a@b.com")
	}
}

func TestRecipientEmpty(t *testing.T) {
	t.Parallel()

	if !(Recipient{Name: "no address"}).Empty() {
		t.Error("recipient without address should be empty")
	}
	if (Recipient{Address: "a@b.com"}).Empty() {
		t.Error("recipient with address should not be empty")
	}
}

func TestRecipientListAdd_HeterogeneousInputs(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	err := l.Add(
		"plain@example.com",
		Recipient{Address: "rec@example.com", Name: "Rec"},
		NamedAddress{Name: "Pair", Address: "pair@example.com"},
		[]any{"nested@example.com", []string{"deeper@example.com"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"plain@example.com",
		"rec@example.com",
		"pair@example.com",
		"nested@example.com",
		"deeper@example.com",
	}
	if l.Len() != len(want) {
		t.Fatalf("Len: got %d, want %d", l.Len(), len(want))
	}
	for i, addr := range want {
		if got := l.At(i).Address; got != addr {
			t.Errorf("recipient %d: got %q, want %q", i, got, addr)
		}
	}
	if l.At(2).Name != "Pair" {
		t.Errorf("pair name: got %q, want %q", l.At(2).Name, "Pair")
	}
}

func TestRecipientListAdd_EmptyPairIsDropped(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	if err := l.Add(NamedAddress{Name: "Ghost", Address: ""}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len: got %d, want 0", l.Len())
	}

	// A bare Recipient with an empty address is kept; the pair form is the
	// only one that filters.
	if err := l.Add(Recipient{Name: "Ghost"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("Len after bare Recipient: got %d, want 1", l.Len())
	}
}

func TestRecipientListAdd_InvalidInput(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	err := l.Add(42)
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Errorf("Add(42): got %v, want ErrInvalidRecipient", err)
	}
}

func TestRecipientListRemove(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	if err := l.Add([]string{"a@x.com", "b@x.com", "c@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.Remove("a@x.com", "c@x.com")

	if l.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", l.Len())
	}
	if got := l.At(0).Address; got != "b@x.com" {
		t.Errorf("remaining address: got %q, want %q", got, "b@x.com")
	}
}

func TestRecipientListContains(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	if err := l.Add("a@x.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !l.Contains("a@x.com") {
		t.Error("Contains(a@x.com): got false, want true")
	}
	if l.Contains("missing@x.com") {
		t.Error("Contains(missing@x.com): got true, want false")
	}
}

func TestRecipientListFirstWithAddress(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	if err := l.Add(Recipient{Name: "blank"}, Recipient{Address: "real@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, ok := l.FirstWithAddress()
	if !ok {
		t.Fatal("FirstWithAddress: got none, want real@x.com")
	}
	if r.Address != "real@x.com" {
		t.Errorf("FirstWithAddress: got %q, want %q", r.Address, "real@x.com")
	}

	empty := &RecipientList{}
	if _, ok := empty.FirstWithAddress(); ok {
		t.Error("FirstWithAddress on empty list: got ok, want none")
	}
}

func TestRecipientListClear(t *testing.T) {
	t.Parallel()

	l := &RecipientList{}
	if err := l.Add("a@x.com", "b@x.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", l.Len())
	}
}
