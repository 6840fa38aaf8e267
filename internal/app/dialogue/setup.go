package dialogue

import (
	"context"
	"fmt"
	"strings"

	"fireflybot/internal/domain"
)

type setupState int

const (
	setupAwaitingURL setupState = iota + 1
	setupAwaitingToken
	setupAwaitingDefaultAccount
)

// setupDialogue collects the user's Firefly URL, token and default source
// account. Nothing is persisted until the final choice, so an aborted
// setup leaves the previous session intact.
type setupDialogue struct {
	deps
	sess  *domain.Session
	state setupState

	url   string
	token string
}

func newSetup(d deps, sess *domain.Session) *setupDialogue {
	return &setupDialogue{deps: d, sess: sess}
}

func (s *setupDialogue) command() string { return "start" }

func (s *setupDialogue) start(context.Context, Event) (turn, error) {
	s.state = setupAwaitingURL
	return say("Please enter your Firefly III URL"), nil
}

func (s *setupDialogue) handle(ctx context.Context, ev Event) (turn, error) {
	switch s.state {
	case setupAwaitingURL:
		url := strings.TrimSpace(ev.Text)
		if ev.Callback != "" || url == "" {
			return say("Please enter your Firefly III URL"), nil
		}
		s.url = strings.TrimRight(url, "/")
		s.state = setupAwaitingToken
		return say(fmt.Sprintf(
			"Please enter your Firefly III user token.\nYou can generate one from the OAuth section here - %s/profile", s.url)), nil

	case setupAwaitingToken:
		token := strings.TrimSpace(ev.Text)
		if ev.Callback != "" || token == "" {
			return say("Please enter your Firefly III user token"), nil
		}
		s.token = token

		// Dial with the freshly supplied credentials; the session still
		// holds the previous ones, if any.
		accounts, err := s.dial(s.url, s.token).ListAccounts(ctx, domain.AccountAsset)
		if err != nil {
			return turn{}, err
		}
		if len(accounts) == 0 {
			return finish(Reply{Text: "No asset accounts found on that instance. Check the URL and token, then /start again."}), nil
		}

		s.state = setupAwaitingDefaultAccount
		return turn{replies: []Reply{{
			Text:     "Please choose the default source account:",
			Keyboard: allAccountsKeyboard(accounts),
		}}}, nil

	case setupAwaitingDefaultAccount:
		if ev.Callback == "" {
			return say("Please choose one of the accounts above."), nil
		}
		ref, err := DecodeAccountRef(ev.Callback)
		if err != nil || ref.ID == "" {
			return say("Please choose one of the accounts above."), nil
		}

		s.sess.FireflyURL = s.url
		s.sess.FireflyToken = s.token
		s.sess.DefaultAccountID = ref.ID
		if err := s.store.Put(s.sess); err != nil {
			return turn{}, err
		}

		return finish(Reply{
			Text:          "Setup complete. Happy spending!",
			EditMessageID: ev.CallbackMessageID,
		}), nil
	}

	return say("Please enter your Firefly III URL"), nil
}
