package telegram

import (
	"testing"

	"fireflybot/internal/app/dialogue"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text string
		cmd  string
		args string
		ok   bool
	}{
		{"/start", "start", "", true},
		{"/list 42", "list", "42", true},
		{"/list@fireflybot 42", "list", "42", true},
		{"/help  ", "help", "", true},
		{"5, Starbucks", "", "", false},
		{"/", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		cmd, args, ok := parseCommand(tc.text)
		if cmd != tc.cmd || args != tc.args || ok != tc.ok {
			t.Errorf("parseCommand(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.text, cmd, args, ok, tc.cmd, tc.args, tc.ok)
		}
	}
}

func TestEventFromUpdateMessage(t *testing.T) {
	u := Update{
		ID: 5,
		Message: &Message{
			MessageID: 100,
			From:      &User{ID: 42},
			Chat:      Chat{ID: 7000},
			Text:      "/expense",
		},
	}

	ev, chatID, ok := eventFromUpdate(u)
	if !ok {
		t.Fatal("expected an event")
	}
	if chatID != 7000 {
		t.Fatalf("chatID = %d", chatID)
	}
	want := dialogue.Event{User: 42, Text: "/expense", Command: "expense"}
	if ev != want {
		t.Fatalf("event = %+v, want %+v", ev, want)
	}
}

func TestEventFromUpdateCallback(t *testing.T) {
	u := Update{
		ID: 6,
		CallbackQuery: &CallbackQuery{
			ID:      "cb1",
			From:    User{ID: 42},
			Data:    `{"id":"3"}`,
			Message: &Message{MessageID: 11, Chat: Chat{ID: 7000}},
		},
	}

	ev, chatID, ok := eventFromUpdate(u)
	if !ok {
		t.Fatal("expected an event")
	}
	if chatID != 7000 {
		t.Fatalf("chatID = %d", chatID)
	}
	if ev.User != 42 || ev.Callback != `{"id":"3"}` || ev.CallbackMessageID != 11 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestEventFromUpdateSkipsMalformed(t *testing.T) {
	for name, u := range map[string]Update{
		"empty":                   {},
		"message without sender":  {Message: &Message{Chat: Chat{ID: 1}, Text: "hi"}},
		"callback without origin": {CallbackQuery: &CallbackQuery{From: User{ID: 42}, Data: "x"}},
	} {
		if _, _, ok := eventFromUpdate(u); ok {
			t.Errorf("%s: expected the update to be dropped", name)
		}
	}
}

func TestToMarkup(t *testing.T) {
	if toMarkup(nil) != nil {
		t.Fatal("empty keyboard should produce no markup")
	}

	markup := toMarkup([][]dialogue.Button{
		{{Label: "Checking", Data: "a"}, {Label: "Savings", Data: "b"}},
		{{Label: "Cancel", Data: "c"}},
	})
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][1]; got.Text != "Savings" || got.CallbackData != "b" {
		t.Fatalf("button = %+v", got)
	}
}
