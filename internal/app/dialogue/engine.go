// Package dialogue drives each multi-turn command to completion. One state
// machine instance exists per user and command; users never share state.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fireflybot/internal/domain"
	"fireflybot/internal/observability"
)

// conversation is one in-flight state machine. start runs the entry turn;
// handle consumes every following one. done reports a terminal transition,
// after which the engine drops the instance.
type conversation interface {
	command() string
	start(ctx context.Context, ev Event) (turn, error)
	handle(ctx context.Context, ev Event) (turn, error)
}

type turn struct {
	replies []Reply
	done    bool
}

func say(text string) turn {
	return turn{replies: []Reply{{Text: text}}}
}

func finish(replies ...Reply) turn {
	return turn{replies: replies, done: true}
}

// deps is what every machine needs: the session store to flush durable
// changes and the dialer to reach the user's own ledger instance.
type deps struct {
	store domain.SessionStore
	dial  domain.LedgerDialer
}

func (d deps) ledger(sess *domain.Session) domain.LedgerClient {
	return d.dial(sess.FireflyURL, sess.FireflyToken)
}

// Engine routes inbound events to the active state machine of the sending
// user, or starts a new one on an entry command.
type Engine struct {
	deps

	mu     sync.Mutex
	active map[domain.UserID]conversation
}

func New(store domain.SessionStore, dial domain.LedgerDialer) *Engine {
	return &Engine{
		deps:   deps{store: store, dial: dial},
		active: make(map[domain.UserID]conversation),
	}
}

// Handle consumes one user turn and returns the outgoing prompts. It never
// fails upward: every error class ends up as a reply and a log line, so one
// user's bad turn cannot take the process down.
func (e *Engine) Handle(ctx context.Context, ev Event) []Reply {
	log := observability.LoggerFromContext(ctx).With(
		"user_id", ev.User,
		"command", ev.Command,
	)

	sess, err := e.store.Get(ev.User)
	if errors.Is(err, domain.ErrSessionNotFound) {
		sess = &domain.Session{UserID: ev.User}
	} else if err != nil {
		log.Error("loading session failed", "error", err)
		return []Reply{{Text: msgSomethingWrong}}
	}

	switch ev.Command {
	case "":
		return e.resume(ctx, log, sess, ev)
	case "cancel":
		e.abort(ev.User)
		return []Reply{{Text: "Cancelled"}}
	case "help":
		return helpReplies(sess)
	case "about":
		return e.aboutReplies(ctx, log, sess)
	case "start", "expense", "balance", "split", "list":
		return e.begin(ctx, log, sess, ev)
	default:
		return []Reply{{Text: "Unknown command. Type /help to see what I understand."}}
	}
}

// begin aborts whatever was active and starts the machine for an entry
// command. Everything except /start requires a completed setup.
func (e *Engine) begin(ctx context.Context, log *slog.Logger, sess *domain.Session, ev Event) []Reply {
	e.abort(ev.User)

	if ev.Command != "start" && !sess.Configured() {
		return []Reply{{Text: msgNeedSetup}}
	}

	var conv conversation
	switch ev.Command {
	case "start":
		conv = newSetup(e.deps, sess)
	case "expense":
		conv = newExpense(e.deps, sess)
	case "balance":
		conv = newBalance(e.deps, sess)
	case "split":
		conv = newSplit(e.deps, sess)
	case "list":
		conv = newList(e.deps, sess)
	}

	log.Info("dialogue started")

	t, err := conv.start(ctx, ev)
	if err != nil {
		return failureReplies(log.With("dialogue", conv.command()), err)
	}
	if !t.done {
		e.mu.Lock()
		e.active[ev.User] = conv
		e.mu.Unlock()
	}
	return t.replies
}

// resume routes plain text or a button click to the active machine. With
// nothing active, plain text is treated as a quick-expense line.
func (e *Engine) resume(ctx context.Context, log *slog.Logger, sess *domain.Session, ev Event) []Reply {
	e.mu.Lock()
	conv := e.active[ev.User]
	e.mu.Unlock()

	if conv == nil {
		if ev.Callback != "" {
			// A click on a stale keyboard from a finished dialogue.
			return nil
		}
		return e.quickExpense(ctx, log, sess, ev)
	}

	log = log.With("dialogue", conv.command())

	t, err := conv.handle(ctx, ev)
	if err != nil {
		// The machine's state may be inconsistent now; it must not resume
		// silently on the next message.
		e.abort(ev.User)
		return failureReplies(log, err)
	}
	if t.done {
		e.abort(ev.User)
		log.Info("dialogue finished")
	}
	return t.replies
}

// abort drops the user's transient dialogue state. The durable session is
// left untouched.
func (e *Engine) abort(id domain.UserID) {
	e.mu.Lock()
	delete(e.active, id)
	e.mu.Unlock()
}

const (
	msgSomethingWrong = "Something went wrong, check logs"
	msgCheckInput     = "Please check input values"
	msgNeedSetup      = "Type /start to initiate the setup process."
)

// failureReplies maps an error from a machine to the user-facing message of
// its class: a ledger validation failure surfaces verbatim, everything else
// is generic with the detail logged for operators.
func failureReplies(log *slog.Logger, err error) []Reply {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		log.Warn("ledger rejected input", "message", verr.Message)
		return []Reply{{Text: verr.Message}}
	}

	var serr *domain.StatusError
	if errors.As(err, &serr) {
		log.Error("ledger request failed", "status", serr.Code, "detail", serr.Detail)
		return []Reply{{Text: msgSomethingWrong}}
	}

	log.Error("dialogue turn failed", "error", err)
	return []Reply{{Text: msgCheckInput}}
}

func (e *Engine) aboutReplies(ctx context.Context, log *slog.Logger, sess *domain.Session) []Reply {
	if !sess.Configured() {
		return []Reply{{Text: msgNeedSetup}}
	}

	profile, err := e.ledger(sess).About(ctx)
	if err != nil {
		return failureReplies(log, err)
	}
	return []Reply{{
		Text:     fmt.Sprintf("```\nemail: %s\nrole: %s\n```", profile.Email, profile.Role),
		Markdown: true,
	}}
}

func helpReplies(sess *domain.Session) []Reply {
	if !sess.Configured() {
		return []Reply{{Text: msgNeedSetup}}
	}
	return []Reply{{Text: helpText, Markdown: true}}
}

const helpText = "Commands:\n" +
	"/expense - log an expense step by step\n" +
	"/balance - show an account balance\n" +
	"/split - split a transaction and move the remainder aside\n" +
	"/list - browse and delete recent transactions\n" +
	"/about - show the connected ledger user\n" +
	"/cancel - abort the current dialogue\n\n" +
	"You can also log an expense in one message:\n" +
	"`Amount, Description, Category, Budget, Source account, Destination account`\n\n" +
	"Only the first two values are needed. The rest are optional; the " +
	"description doubles as the destination account.\n\n" +
	"A simple one:\n" +
	"        `5, Starbucks`\n\n" +
	"One with all the fields being used:\n" +
	"        `5, Mocha with an extra shot for Steve, Coffee, Food Budget, UCO Bank, Starbucks`\n\n" +
	"You can skip specific fields by leaving them empty (except the first two):\n" +
	"        `5, Starbucks, , Food Budget, UCO Bank`"
