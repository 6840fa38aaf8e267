package dialogue

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fireflybot/internal/domain"
)

type splitState int

const (
	splitAwaitingBalanceAccount splitState = iota + 1
	splitAwaitingTransaction
	splitAwaitingRatio
	splitAwaitingCustomAmount
)

// splitRatios are the offered divisors. The zero entry is the free-amount
// path: the user types how much to move aside instead of dividing.
var splitRatios = []int64{2, 3, 4, 5}

// splitDialogue divides a withdrawal by a chosen ratio, rewrites the
// original in place and moves the remainder to the designated balance
// account as a transfer.
type splitDialogue struct {
	deps
	sess  *domain.Session
	state splitState

	tx domain.Transaction
}

func newSplit(d deps, sess *domain.Session) *splitDialogue {
	return &splitDialogue{deps: d, sess: sess}
}

func (s *splitDialogue) command() string { return "split" }

func (s *splitDialogue) start(ctx context.Context, _ Event) (turn, error) {
	if s.sess.BalanceAccountID == "" {
		accounts, err := s.ledger(s.sess).ListAccounts(ctx, domain.AccountAsset)
		if err != nil {
			return turn{}, err
		}
		s.state = splitAwaitingBalanceAccount
		return turn{replies: []Reply{{
			Text:     "Choose the account that collects split remainders:",
			Keyboard: spendingKeyboard(accounts),
		}}}, nil
	}
	return s.promptTransaction(ctx)
}

func (s *splitDialogue) handle(ctx context.Context, ev Event) (turn, error) {
	switch s.state {
	case splitAwaitingBalanceAccount:
		return s.onBalanceAccount(ctx, ev)
	case splitAwaitingTransaction:
		return s.onTransaction(ctx, ev)
	case splitAwaitingRatio:
		return s.onRatio(ctx, ev)
	case splitAwaitingCustomAmount:
		return s.onCustomAmount(ctx, ev)
	}
	return say("Please pick one of the options above."), nil
}

func (s *splitDialogue) onBalanceAccount(ctx context.Context, ev Event) (turn, error) {
	if ev.Callback == "" {
		return say("Please pick one of the accounts above."), nil
	}
	ref, err := DecodeAccountRef(ev.Callback)
	if err != nil || ref.ID == "" {
		return say("Please pick one of the accounts above."), nil
	}

	s.sess.BalanceAccountID = ref.ID
	if err := s.store.Put(s.sess); err != nil {
		return turn{}, err
	}
	return s.promptTransaction(ctx)
}

func (s *splitDialogue) promptTransaction(ctx context.Context) (turn, error) {
	txs, err := s.ledger(s.sess).ListTransactions(ctx, domain.TransactionWithdrawal)
	if err != nil {
		return turn{}, err
	}
	if len(txs) == 0 {
		return finish(Reply{Text: "No transactions to split."}), nil
	}

	s.state = splitAwaitingTransaction
	return turn{replies: []Reply{{
		Text:     "Which transaction do you want to split?",
		Keyboard: transactionKeyboard(txs),
	}}}, nil
}

func (s *splitDialogue) onTransaction(ctx context.Context, ev Event) (turn, error) {
	if ev.Callback == "" {
		return say("Please pick one of the transactions above."), nil
	}

	tx, err := s.ledger(s.sess).GetTransaction(ctx, domain.TransactionID(ev.Callback))
	if err != nil {
		return turn{}, err
	}
	s.tx = tx

	row := make([]Button, 0, len(splitRatios))
	for _, r := range splitRatios {
		row = append(row, Button{Label: strconv.FormatInt(r, 10), Data: strconv.FormatInt(r, 10)})
	}

	s.state = splitAwaitingRatio
	return turn{replies: []Reply{{
		Text:     fmt.Sprintf("Split %q (%s) by:", tx.Description, tx.Amount),
		Keyboard: [][]Button{row, {{Label: "Specify amount", Data: "0"}}},
	}}}, nil
}

func (s *splitDialogue) onRatio(ctx context.Context, ev Event) (turn, error) {
	if ev.Callback == "" {
		return say("Please pick one of the ratios above."), nil
	}
	ratio, err := strconv.ParseInt(ev.Callback, 10, 64)
	if err != nil || ratio < 0 {
		return say("Please pick one of the ratios above."), nil
	}

	if ratio == 0 {
		s.state = splitAwaitingCustomAmount
		return say("Enter the amount to move aside:"), nil
	}

	total, err := decimal.NewFromString(s.tx.Amount)
	if err != nil {
		return turn{}, fmt.Errorf("parsing amount of transaction %s: %w", s.tx.ID, err)
	}

	keep := total.DivRound(decimal.NewFromInt(ratio), 2)
	remainder := total.Sub(keep)

	return s.submit(ctx, keep, remainder, fmt.Sprintf("%s (1/%d)", s.tx.Description, ratio))
}

func (s *splitDialogue) onCustomAmount(ctx context.Context, ev Event) (turn, error) {
	remainder, err := decimal.NewFromString(strings.TrimSpace(ev.Text))
	if err != nil || !remainder.IsPositive() {
		return say("That doesn't look like an amount. Try something like 4.50"), nil
	}

	total, err := decimal.NewFromString(s.tx.Amount)
	if err != nil {
		return turn{}, fmt.Errorf("parsing amount of transaction %s: %w", s.tx.ID, err)
	}
	if remainder.GreaterThanOrEqual(total) {
		return say(fmt.Sprintf("The amount has to stay below the original %s.", s.tx.Amount)), nil
	}

	return s.submit(ctx, total.Sub(remainder), remainder, fmt.Sprintf("%s (split)", s.tx.Description))
}

// submit rewrites the original transaction to the kept amount and creates
// the transfer carrying the remainder to the balance account.
func (s *splitDialogue) submit(ctx context.Context, keep, remainder decimal.Decimal, description string) (turn, error) {
	if s.sess.BalanceAccountID == "" || s.tx.ID == "" {
		return turn{}, fmt.Errorf("split dialogue reached submission without transaction or balance account")
	}

	client := s.ledger(s.sess)

	if _, err := client.UpdateTransaction(ctx, s.tx.ID, domain.Attributes{
		"amount":      keep.String(),
		"description": description,
	}); err != nil {
		return turn{}, err
	}

	source := domain.AccountRef{ID: s.tx.SourceID, Name: s.tx.SourceName}
	transferID, err := client.CreateTransaction(ctx, domain.TransferAttributes(
		remainder.String(),
		fmt.Sprintf("%s (split remainder)", s.tx.Description),
		source,
		domain.AccountRef{ID: s.sess.BalanceAccountID},
	))
	if err != nil {
		return turn{}, err
	}

	return finish(Reply{
		Text: fmt.Sprintf("Kept %s on %q and moved %s aside (transfer %s).",
			keep.String(), description, remainder.String(), transferID),
	}), nil
}
