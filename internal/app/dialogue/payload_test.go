package dialogue_test

import (
	"strings"
	"testing"

	"fireflybot/internal/app/dialogue"
	"fireflybot/internal/domain"
)

func TestAccountRefRoundTrip(t *testing.T) {
	ref := domain.AccountRef{ID: "3", Name: "Savings"}

	payload := dialogue.EncodeAccountRef(ref)
	if payload != `{"id":"3","name":"Savings"}` {
		t.Fatalf("payload = %q", payload)
	}

	got, err := dialogue.DecodeAccountRef(payload)
	if err != nil {
		t.Fatalf("DecodeAccountRef: %v", err)
	}
	if got != ref {
		t.Fatalf("round trip changed the ref: %+v", got)
	}
}

func TestEncodeAccountRefHonorsPayloadLimit(t *testing.T) {
	ref := domain.AccountRef{
		ID:   "123456",
		Name: strings.Repeat("very long account name ", 10),
	}

	payload := dialogue.EncodeAccountRef(ref)
	if len(payload) > 64 {
		t.Fatalf("payload is %d bytes, over the platform limit", len(payload))
	}

	got, err := dialogue.DecodeAccountRef(payload)
	if err != nil {
		t.Fatalf("DecodeAccountRef: %v", err)
	}
	// The name may be shortened but the id must survive intact.
	if got.ID != ref.ID {
		t.Fatalf("id mangled: %q", got.ID)
	}
	if got.Name == "" || !strings.HasPrefix(ref.Name, got.Name) {
		t.Fatalf("name is not a prefix of the original: %q", got.Name)
	}
}

func TestDecodeAccountRefErrors(t *testing.T) {
	for _, payload := range []string{"", "{broken", "{}", `{"id":"","name":""}`} {
		if _, err := dialogue.DecodeAccountRef(payload); err == nil {
			t.Errorf("payload %q: expected an error", payload)
		}
	}
}
