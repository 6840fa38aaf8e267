package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	"fireflybot/internal/app/dialogue"
	"fireflybot/internal/domain"
	"fireflybot/internal/observability"
)

const (
	pollTimeout  = 30 * time.Second
	pollBackoff  = 3 * time.Second
	workerBuffer = 16
)

// Poller runs the long-poll loop and fans updates out to one worker per
// user. The platform delivers a user's events in order; the per-user
// channel keeps that order while distinct users are handled concurrently.
type Poller struct {
	client *Client
	engine *dialogue.Engine

	mu      sync.Mutex
	workers map[domain.UserID]chan Update
	wg      sync.WaitGroup
}

func NewPoller(client *Client, engine *dialogue.Engine) *Poller {
	return &Poller{
		client:  client,
		engine:  engine,
		workers: make(map[domain.UserID]chan Update),
	}
}

// Run polls until the context is cancelled, then waits for in-flight turns
// to drain.
func (p *Poller) Run(ctx context.Context) {
	log := observability.Logger()
	log.Info("poll loop started")

	var offset int64
	for ctx.Err() == nil {
		updates, err := p.client.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn("fetching updates failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(pollBackoff):
			}
			continue
		}

		for _, u := range updates {
			if u.ID >= offset {
				offset = u.ID + 1
			}
			p.dispatch(ctx, u)
		}
	}

	p.wg.Wait()
	log.Info("poll loop stopped")
}

func (p *Poller) dispatch(ctx context.Context, u Update) {
	user, ok := updateUser(u)
	if !ok {
		return
	}

	p.mu.Lock()
	ch, exists := p.workers[user]
	if !exists {
		ch = make(chan Update, workerBuffer)
		p.workers[user] = ch
		p.wg.Add(1)
		go p.worker(ctx, ch)
	}
	p.mu.Unlock()

	select {
	case ch <- u:
	case <-ctx.Done():
	}
}

func (p *Poller) worker(ctx context.Context, ch chan Update) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-ch:
			p.process(ctx, u)
		}
	}
}

func (p *Poller) process(ctx context.Context, u Update) {
	ctx = observability.WithUpdateID(ctx, u.ID)
	log := observability.LoggerFromContext(ctx)

	ev, chatID, ok := eventFromUpdate(u)
	if !ok {
		return
	}

	replies := p.engine.Handle(ctx, ev)

	if u.CallbackQuery != nil {
		if err := p.client.AnswerCallbackQuery(ctx, u.CallbackQuery.ID); err != nil {
			log.Warn("answering callback failed", "error", err)
		}
	}

	for _, r := range replies {
		if err := p.deliver(ctx, chatID, r); err != nil {
			log.Error("sending reply failed", "chat_id", chatID, "error", err)
		}
	}
}

func (p *Poller) deliver(ctx context.Context, chatID int64, r dialogue.Reply) error {
	markup := toMarkup(r.Keyboard)
	if r.EditMessageID != 0 {
		return p.client.EditMessageText(ctx, chatID, r.EditMessageID, r.Text, r.Markdown, markup)
	}
	return p.client.SendMessage(ctx, chatID, r.Text, r.Markdown, markup)
}

func toMarkup(keyboard [][]dialogue.Button) *InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}
	markup := &InlineKeyboardMarkup{}
	for _, row := range keyboard {
		var wire []InlineKeyboardButton
		for _, b := range row {
			wire = append(wire, InlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, wire)
	}
	return markup
}

// updateUser extracts the identity all state is keyed by.
func updateUser(u Update) (domain.UserID, bool) {
	switch {
	case u.CallbackQuery != nil:
		return domain.UserID(u.CallbackQuery.From.ID), true
	case u.Message != nil && u.Message.From != nil:
		return domain.UserID(u.Message.From.ID), true
	}
	return 0, false
}

// eventFromUpdate translates an update into the engine's vocabulary and
// the chat the replies go to.
func eventFromUpdate(u Update) (dialogue.Event, int64, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.Message == nil {
			return dialogue.Event{}, 0, false
		}
		return dialogue.Event{
			User:              domain.UserID(cq.From.ID),
			Callback:          cq.Data,
			CallbackMessageID: cq.Message.MessageID,
		}, cq.Message.Chat.ID, true

	case u.Message != nil && u.Message.From != nil:
		ev := dialogue.Event{
			User: domain.UserID(u.Message.From.ID),
			Text: u.Message.Text,
		}
		if cmd, args, ok := parseCommand(u.Message.Text); ok {
			ev.Command = cmd
			ev.Args = args
		}
		return ev, u.Message.Chat.ID, true
	}
	return dialogue.Event{}, 0, false
}

// parseCommand splits "/list 42" or "/list@somebot 42" into ("list", "42").
func parseCommand(text string) (cmd, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, tail, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return head, strings.TrimSpace(tail), true
}
