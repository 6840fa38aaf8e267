package dialogue

import (
	"context"
	"fmt"
	"strings"

	"fireflybot/internal/domain"
)

type listState int

const (
	listAwaitingTransaction listState = iota + 1
	listShowingDetails
)

// Detail-view actions, round-tripped as button payloads.
const (
	listActionDelete  = "delete"
	listActionAnother = "another"
	listActionClose   = "close"
)

// listDialogue browses recent withdrawals one at a time; the detail view
// offers delete, browse-another and cancel.
type listDialogue struct {
	deps
	sess  *domain.Session
	state listState

	tx domain.Transaction
}

func newList(d deps, sess *domain.Session) *listDialogue {
	return &listDialogue{deps: d, sess: sess}
}

func (l *listDialogue) command() string { return "list" }

func (l *listDialogue) start(ctx context.Context, ev Event) (turn, error) {
	// "/list 42" jumps straight to the details of transaction 42.
	if id := strings.TrimSpace(ev.Args); id != "" {
		return l.showDetails(ctx, domain.TransactionID(id), 0)
	}
	return l.promptTransaction(ctx)
}

func (l *listDialogue) handle(ctx context.Context, ev Event) (turn, error) {
	switch l.state {
	case listAwaitingTransaction:
		if ev.Callback == "" {
			return say("Please pick one of the transactions above."), nil
		}
		return l.showDetails(ctx, domain.TransactionID(ev.Callback), ev.CallbackMessageID)

	case listShowingDetails:
		return l.onAction(ctx, ev)
	}
	return say("Please pick one of the transactions above."), nil
}

func (l *listDialogue) promptTransaction(ctx context.Context) (turn, error) {
	txs, err := l.ledger(l.sess).ListTransactions(ctx, domain.TransactionWithdrawal)
	if err != nil {
		return turn{}, err
	}
	if len(txs) == 0 {
		return finish(Reply{Text: "No transactions to show."}), nil
	}

	l.state = listAwaitingTransaction
	return turn{replies: []Reply{{
		Text:     "Which transaction do you want to see?",
		Keyboard: transactionKeyboard(txs),
	}}}, nil
}

func (l *listDialogue) showDetails(ctx context.Context, id domain.TransactionID, editID int64) (turn, error) {
	tx, err := l.ledger(l.sess).GetTransaction(ctx, id)
	if err != nil {
		return turn{}, err
	}
	l.tx = tx

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", tx.Description)
	fmt.Fprintf(&b, "Amount: %s %s\n", tx.CurrencyCode, tx.Amount)
	fmt.Fprintf(&b, "Date: %s\n", tx.Date)
	fmt.Fprintf(&b, "From %s to %s", tx.SourceName, tx.DestinationName)
	if tx.CategoryName != "" {
		fmt.Fprintf(&b, "\nCategory: %s", tx.CategoryName)
	}
	if tx.BudgetName != "" {
		fmt.Fprintf(&b, "\nBudget: %s", tx.BudgetName)
	}

	l.state = listShowingDetails
	return turn{replies: []Reply{{
		Text:          b.String(),
		EditMessageID: editID,
		Keyboard: [][]Button{{
			{Label: "Delete", Data: listActionDelete},
			{Label: "Show another", Data: listActionAnother},
			{Label: "Cancel", Data: listActionClose},
		}},
	}}}, nil
}

func (l *listDialogue) onAction(ctx context.Context, ev Event) (turn, error) {
	switch ev.Callback {
	case listActionDelete:
		if err := l.ledger(l.sess).DeleteTransaction(ctx, l.tx.ID); err != nil {
			return turn{}, err
		}
		return finish(Reply{
			Text:          fmt.Sprintf("Deleted %q.", l.tx.Description),
			EditMessageID: ev.CallbackMessageID,
		}), nil

	case listActionAnother:
		return l.promptTransaction(ctx)

	case listActionClose:
		return finish(Reply{Text: "Okay, nothing touched.", EditMessageID: ev.CallbackMessageID}), nil

	default:
		return say("Please use the buttons above."), nil
	}
}
