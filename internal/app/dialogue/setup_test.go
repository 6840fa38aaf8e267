package dialogue_test

import (
	"context"
	"strings"
	"testing"

	"fireflybot/internal/domain"
)

func TestSetupFlow(t *testing.T) {
	ctx := context.Background()
	fl := newFakeLedger()
	engine, store := newTestEngine(t, fl)

	r := singleReply(t, engine.Handle(ctx, command("start")))
	if r.Text != "Please enter your Firefly III URL" {
		t.Fatalf("got %q", r.Text)
	}

	r = singleReply(t, engine.Handle(ctx, text("https://firefly.example.com/")))
	if !strings.Contains(r.Text, "https://firefly.example.com/profile") {
		t.Fatalf("token prompt should point at the profile page, got %q", r.Text)
	}

	r = singleReply(t, engine.Handle(ctx, text("tok-123")))
	if r.Text != "Please choose the default source account:" {
		t.Fatalf("got %q", r.Text)
	}
	if len(r.Keyboard) == 0 {
		t.Fatal("expected an account keyboard")
	}
	// All asset accounts are offered, not only defaultAsset ones.
	var labels []string
	for _, row := range r.Keyboard {
		for _, b := range row {
			labels = append(labels, b.Label)
		}
	}
	if len(labels) != 3 {
		t.Fatalf("expected 3 asset accounts on the keyboard, got %v", labels)
	}

	// The account listing must already use the fresh credentials.
	if fl.baseURL != "https://firefly.example.com" || fl.token != "tok-123" {
		t.Fatalf("dialled with %q / %q", fl.baseURL, fl.token)
	}

	r = singleReply(t, engine.Handle(ctx, click(accountPayload("7", "Checking"))))
	if r.Text != "Setup complete. Happy spending!" {
		t.Fatalf("got %q", r.Text)
	}
	if r.EditMessageID != 11 {
		t.Fatalf("completion should edit the prompt, got message id %d", r.EditMessageID)
	}

	sess, err := store.Get(testUser)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := domain.Session{
		UserID:           testUser,
		FireflyURL:       "https://firefly.example.com",
		FireflyToken:     "tok-123",
		DefaultAccountID: "7",
	}
	if *sess != want {
		t.Fatalf("persisted session %+v, want %+v", *sess, want)
	}
}

func TestSetupRepromptsOnBadInput(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t, newFakeLedger())

	engine.Handle(ctx, command("start"))

	// A button click is not a URL.
	r := singleReply(t, engine.Handle(ctx, click("whatever")))
	if r.Text != "Please enter your Firefly III URL" {
		t.Fatalf("got %q", r.Text)
	}

	engine.Handle(ctx, text("https://firefly.example.com"))
	engine.Handle(ctx, text("tok-123"))

	// Unparsable payload on the account choice keeps the prompt alive.
	r = singleReply(t, engine.Handle(ctx, click("{broken")))
	if r.Text != "Please choose one of the accounts above." {
		t.Fatalf("got %q", r.Text)
	}

	// Nothing was persisted yet.
	if _, err := store.Get(testUser); err != domain.ErrSessionNotFound {
		t.Fatalf("expected no session, got err=%v", err)
	}

	// A valid click still completes.
	r = singleReply(t, engine.Handle(ctx, click(accountPayload("3", "Savings"))))
	if r.Text != "Setup complete. Happy spending!" {
		t.Fatalf("got %q", r.Text)
	}
}

func TestSetupOverwritesPreviousSession(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t, newFakeLedger())
	configure(t, store)

	engine.Handle(ctx, command("start"))
	engine.Handle(ctx, text("https://other.example.com"))
	engine.Handle(ctx, text("tok-456"))
	engine.Handle(ctx, click(accountPayload("3", "Savings")))

	sess, err := store.Get(testUser)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.FireflyURL != "https://other.example.com" || sess.DefaultAccountID != "3" {
		t.Fatalf("session not overwritten: %+v", sess)
	}
}
