package dialogue

import (
	"encoding/json"
	"fmt"

	"fireflybot/internal/domain"
)

// Event is one inbound user turn: either free text (possibly a /command)
// or a button click carrying an opaque payload.
type Event struct {
	User    domain.UserID
	Text    string
	Command string // "start", "expense", ... without the slash; "" for plain text
	Args    string

	// Callback is the raw button payload, "" when the turn is a message.
	// CallbackMessageID identifies the prompt the button belonged to, so a
	// reply can edit it in place.
	Callback          string
	CallbackMessageID int64
}

// Reply is one outgoing prompt. When EditMessageID is set the platform
// adapter rewrites that message instead of sending a new one.
type Reply struct {
	Text          string
	Markdown      bool
	Keyboard      [][]Button
	EditMessageID int64
}

// Button is one inline keyboard button. Data is round-tripped verbatim by
// the platform and comes back as Event.Callback.
type Button struct {
	Label string
	Data  string
}

// maxPayloadBytes is the platform's limit on button payload size. Anything
// the handler needs to recover on click has to fit in it.
const maxPayloadBytes = 64

// EncodeAccountRef serializes an account ref into a button payload. The
// name is shortened as needed to honor the payload limit; the id always
// survives intact.
func EncodeAccountRef(ref domain.AccountRef) string {
	for {
		buf, err := json.Marshal(ref)
		if err == nil && len(buf) <= maxPayloadBytes {
			return string(buf)
		}
		if len(ref.Name) == 0 {
			// An id alone always fits.
			buf, _ = json.Marshal(domain.AccountRef{ID: ref.ID})
			return string(buf)
		}
		ref.Name = ref.Name[:len(ref.Name)-1]
	}
}

// DecodeAccountRef parses a button payload back into an account ref. A
// payload that does not parse, or carries neither id nor name, fails the
// turn locally; the caller re-prompts instead of crashing the session.
func DecodeAccountRef(payload string) (domain.AccountRef, error) {
	var ref domain.AccountRef
	if err := json.Unmarshal([]byte(payload), &ref); err != nil {
		return domain.AccountRef{}, fmt.Errorf("malformed account payload: %w", err)
	}
	if ref.ID == "" && ref.Name == "" {
		return domain.AccountRef{}, fmt.Errorf("account payload is missing id and name")
	}
	return ref, nil
}
