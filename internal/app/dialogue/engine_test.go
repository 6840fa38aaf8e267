package dialogue_test

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"testing"

	"fireflybot/internal/adapters/storage/memory"
	"fireflybot/internal/app/dialogue"
	"fireflybot/internal/domain"
)

const testUser domain.UserID = 42

// fakeLedger implements domain.LedgerClient against canned data and
// records every write, the way the dialogue machines see the real client.
type fakeLedger struct {
	baseURL string
	token   string

	accounts     []domain.Account
	transactions map[domain.TransactionID]domain.Transaction
	rules        []domain.Rule
	profile      domain.Profile

	nextID  int
	created []domain.Attributes
	updated map[domain.TransactionID]domain.Attributes
	deleted []domain.TransactionID

	createErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: []domain.Account{
			{ID: "7", Name: "Checking", Type: domain.AccountAsset, Role: "defaultAsset", CurrencyCode: "USD", CurrentBalance: "55.00", Active: true},
			{ID: "3", Name: "Savings", Type: domain.AccountAsset, Role: "defaultAsset", CurrencyCode: "USD", CurrentBalance: "120.00", Active: true},
			{ID: "9", Name: "Shared", Type: domain.AccountAsset, Role: "sharedAsset", CurrencyCode: "USD", CurrentBalance: "10.00", Active: true},
		},
		transactions: map[domain.TransactionID]domain.Transaction{},
		updated:      map[domain.TransactionID]domain.Attributes{},
		nextID:       900,
	}
}

func (f *fakeLedger) ListAccounts(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range f.accounts {
		if a.Type == accountType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeLedger) GetAccount(_ context.Context, id domain.AccountID) (domain.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Account{}, &domain.StatusError{Code: 404, Detail: "no such account"}
}

func (f *fakeLedger) ListTransactions(_ context.Context, txType domain.TransactionType) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range f.transactions {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLedger) GetTransaction(_ context.Context, id domain.TransactionID) (domain.Transaction, error) {
	tx, ok := f.transactions[id]
	if !ok {
		return domain.Transaction{}, &domain.StatusError{Code: 404, Detail: "no such transaction"}
	}
	return tx, nil
}

func (f *fakeLedger) CreateTransaction(_ context.Context, attrs domain.Attributes) (domain.TransactionID, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	f.created = append(f.created, attrs)
	return domain.TransactionID(strconv.Itoa(f.nextID)), nil
}

func (f *fakeLedger) UpdateTransaction(_ context.Context, id domain.TransactionID, attrs domain.Attributes) (domain.TransactionID, error) {
	if _, ok := f.transactions[id]; !ok {
		return "", &domain.StatusError{Code: 404, Detail: "no such transaction"}
	}
	f.updated[id] = attrs
	return id, nil
}

func (f *fakeLedger) DeleteTransaction(_ context.Context, id domain.TransactionID) error {
	f.deleted = append(f.deleted, id)
	delete(f.transactions, id)
	return nil
}

func (f *fakeLedger) ListRules(context.Context) ([]domain.Rule, error) {
	return f.rules, nil
}

func (f *fakeLedger) About(context.Context) (domain.Profile, error) {
	return f.profile, nil
}

func newTestEngine(t *testing.T, fl *fakeLedger) (*dialogue.Engine, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	engine := dialogue.New(store, func(baseURL, token string) domain.LedgerClient {
		fl.baseURL = baseURL
		fl.token = token
		return fl
	})
	return engine, store
}

func configure(t *testing.T, store *memory.SessionStore) {
	t.Helper()
	err := store.Put(&domain.Session{
		UserID:           testUser,
		FireflyURL:       "https://firefly.example.com",
		FireflyToken:     "secret",
		DefaultAccountID: "7",
	})
	if err != nil {
		t.Fatalf("seeding session: %v", err)
	}
}

func command(name string) dialogue.Event {
	return dialogue.Event{User: testUser, Command: name}
}

func text(s string) dialogue.Event {
	return dialogue.Event{User: testUser, Text: s}
}

func click(payload string) dialogue.Event {
	return dialogue.Event{User: testUser, Callback: payload, CallbackMessageID: 11}
}

func dialogueEventWithArgs(cmd, args string) dialogue.Event {
	return dialogue.Event{User: testUser, Command: cmd, Args: args}
}

func accountPayload(id, name string) string {
	return dialogue.EncodeAccountRef(domain.AccountRef{ID: domain.AccountID(id), Name: name})
}

func singleReply(t *testing.T, replies []dialogue.Reply) dialogue.Reply {
	t.Helper()
	if len(replies) != 1 {
		t.Fatalf("expected one reply, got %d: %+v", len(replies), replies)
	}
	return replies[0]
}

func TestCommandsRequireSetup(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, newFakeLedger())

	for _, cmd := range []string{"expense", "balance", "split", "list", "about", "help"} {
		t.Run(cmd, func(t *testing.T) {
			r := singleReply(t, engine.Handle(ctx, command(cmd)))
			if r.Text != "Type /start to initiate the setup process." {
				t.Fatalf("got %q", r.Text)
			}
		})
	}
}

func TestCancelDropsDialogueAndKeepsSession(t *testing.T) {
	ctx := context.Background()
	fl := newFakeLedger()
	engine, store := newTestEngine(t, fl)
	configure(t, store)

	before, err := store.Get(testUser)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	engine.Handle(ctx, command("expense"))
	engine.Handle(ctx, text("Coffee"))

	r := singleReply(t, engine.Handle(ctx, command("cancel")))
	if r.Text != "Cancelled" {
		t.Fatalf("got %q", r.Text)
	}

	after, err := store.Get(testUser)
	if err != nil {
		t.Fatalf("Get after cancel: %v", err)
	}
	if *after != *before {
		t.Fatalf("session changed by cancel: before %+v after %+v", before, after)
	}

	// The aborted dialogue must not resume: plain text now falls through to
	// the quick-expense path.
	r = singleReply(t, engine.Handle(ctx, text("not an amount")))
	if r.Text != "Just type in an expense with a description. Like this - '5, Starbucks'" {
		t.Fatalf("dialogue resumed after cancel: %q", r.Text)
	}
	if len(fl.created) != 0 {
		t.Fatalf("unexpected writes: %+v", fl.created)
	}
}

func TestCommandMidDialogueReplacesMachine(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t, newFakeLedger())
	configure(t, store)

	engine.Handle(ctx, command("expense"))
	r := singleReply(t, engine.Handle(ctx, command("balance")))
	if r.Text != "What balance do you want to know?" {
		t.Fatalf("got %q", r.Text)
	}

	// The click must land in the balance machine, not the expense one.
	r = singleReply(t, engine.Handle(ctx, click(`{"id":"3","name":"Savings"}`)))
	if r.Text != "The balance of Savings is USD 120.00" {
		t.Fatalf("got %q", r.Text)
	}
}

func TestStaleCallbackIsIgnored(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t, newFakeLedger())
	configure(t, store)

	if replies := engine.Handle(ctx, click(`{"id":"3","name":"Savings"}`)); len(replies) != 0 {
		t.Fatalf("expected no replies for a stale callback, got %+v", replies)
	}
}

func TestAboutShowsProfile(t *testing.T) {
	ctx := context.Background()
	fl := newFakeLedger()
	fl.profile = domain.Profile{Email: "user@example.com", Role: "owner"}
	engine, store := newTestEngine(t, fl)
	configure(t, store)

	r := singleReply(t, engine.Handle(ctx, command("about")))
	want := fmt.Sprintf("```\nemail: %s\nrole: %s\n```", "user@example.com", "owner")
	if r.Text != want || !r.Markdown {
		t.Fatalf("got %q (markdown=%v)", r.Text, r.Markdown)
	}
}

func TestUnknownCommand(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t, newFakeLedger())
	configure(t, store)

	r := singleReply(t, engine.Handle(ctx, command("frobnicate")))
	if r.Text != "Unknown command. Type /help to see what I understand." {
		t.Fatalf("got %q", r.Text)
	}
}
