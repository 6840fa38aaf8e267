package dialogue

import (
	"context"
	"fmt"

	"fireflybot/internal/domain"
)

type balanceState int

const balanceAwaitingAccount balanceState = iota + 1

// balanceDialogue is a single round: pick an account, see its balance.
type balanceDialogue struct {
	deps
	sess  *domain.Session
	state balanceState
}

func newBalance(d deps, sess *domain.Session) *balanceDialogue {
	return &balanceDialogue{deps: d, sess: sess}
}

func (b *balanceDialogue) command() string { return "balance" }

func (b *balanceDialogue) start(ctx context.Context, _ Event) (turn, error) {
	accounts, err := b.ledger(b.sess).ListAccounts(ctx, domain.AccountAsset)
	if err != nil {
		return turn{}, err
	}

	b.state = balanceAwaitingAccount
	return turn{replies: []Reply{{
		Text:     "What balance do you want to know?",
		Keyboard: spendingKeyboard(accounts),
	}}}, nil
}

func (b *balanceDialogue) handle(ctx context.Context, ev Event) (turn, error) {
	if ev.Callback == "" {
		return say("Please pick one of the accounts above."), nil
	}
	ref, err := DecodeAccountRef(ev.Callback)
	if err != nil || ref.ID == "" {
		return say("Please pick one of the accounts above."), nil
	}

	account, err := b.ledger(b.sess).GetAccount(ctx, ref.ID)
	if err != nil {
		return turn{}, err
	}

	return finish(Reply{
		Text: fmt.Sprintf("The balance of %s is %s %s",
			account.Name, account.CurrencyCode, account.CurrentBalance),
		EditMessageID: ev.CallbackMessageID,
	}), nil
}
