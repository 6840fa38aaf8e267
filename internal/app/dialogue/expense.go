package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fireflybot/internal/app/rules"
	"fireflybot/internal/domain"
)

type expenseState int

const (
	expenseAwaitingDescription expenseState = iota + 1
	expenseAwaitingSource
	expenseAwaitingExpenseAccount
	expenseAwaitingAmount
)

// expenseDialogue logs one withdrawal: description, source account,
// expense account, amount. A single matching automation rule short-circuits
// the two account prompts.
type expenseDialogue struct {
	deps
	sess  *domain.Session
	state expenseState

	description string
	source      domain.AccountRef
	destination string
}

func newExpense(d deps, sess *domain.Session) *expenseDialogue {
	return &expenseDialogue{deps: d, sess: sess}
}

func (e *expenseDialogue) command() string { return "expense" }

func (e *expenseDialogue) start(context.Context, Event) (turn, error) {
	e.state = expenseAwaitingDescription
	return say("Enter a description"), nil
}

func (e *expenseDialogue) handle(ctx context.Context, ev Event) (turn, error) {
	switch e.state {
	case expenseAwaitingDescription:
		return e.onDescription(ctx, ev)
	case expenseAwaitingSource:
		return e.onSource(ctx, ev)
	case expenseAwaitingExpenseAccount:
		return e.onExpenseAccount(ev)
	case expenseAwaitingAmount:
		return e.onAmount(ctx, ev)
	}
	return say("Enter a description"), nil
}

func (e *expenseDialogue) onDescription(ctx context.Context, ev Event) (turn, error) {
	description := strings.TrimSpace(ev.Text)
	if ev.Callback != "" || description == "" {
		return say("Enter a description"), nil
	}
	e.description = description

	client := e.ledger(e.sess)

	serverRules, err := client.ListRules(ctx)
	if err != nil {
		return turn{}, err
	}

	// Exactly one applicable rule lets us skip the account prompts.
	if matched := rules.Match(description, serverRules); len(matched) == 1 {
		if source, destination, ok := rules.AutoFill(matched[0]); ok {
			e.source = source
			e.destination = destination
			e.state = expenseAwaitingAmount
			return turn{replies: []Reply{{
				Text:     fmt.Sprintf("*%s*\nPlease enter the amount:", matched[0].Title),
				Markdown: true,
			}}}, nil
		}
	}

	accounts, err := client.ListAccounts(ctx, domain.AccountAsset)
	if err != nil {
		return turn{}, err
	}

	e.state = expenseAwaitingSource
	return turn{replies: []Reply{{
		Text:     "Choose from which account to spend",
		Keyboard: spendingKeyboard(accounts),
	}}}, nil
}

func (e *expenseDialogue) onSource(ctx context.Context, ev Event) (turn, error) {
	if ev.Callback == "" {
		return say("Please pick one of the accounts above."), nil
	}
	ref, err := DecodeAccountRef(ev.Callback)
	if err != nil {
		return say("Please pick one of the accounts above."), nil
	}
	e.source = ref

	accounts, err := e.ledger(e.sess).ListAccounts(ctx, domain.AccountExpense)
	if err != nil {
		return turn{}, err
	}

	e.state = expenseAwaitingExpenseAccount
	return turn{replies: []Reply{
		{Text: fmt.Sprintf("Spending from %s", ref.Name), EditMessageID: ev.CallbackMessageID},
		{Text: "Choose an expense account, or type a name", Keyboard: expenseKeyboard(accounts)},
	}}, nil
}

func (e *expenseDialogue) onExpenseAccount(ev Event) (turn, error) {
	switch {
	case ev.Callback != "":
		ref, err := DecodeAccountRef(ev.Callback)
		if err != nil || ref.Name == "" {
			return say("Please pick an expense account or type a name."), nil
		}
		e.destination = ref.Name
	case strings.TrimSpace(ev.Text) != "":
		e.destination = strings.TrimSpace(ev.Text)
	default:
		return say("Please pick an expense account or type a name."), nil
	}

	e.state = expenseAwaitingAmount
	return say("Now, please enter the amount:"), nil
}

func (e *expenseDialogue) onAmount(ctx context.Context, ev Event) (turn, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(ev.Text))
	if err != nil || !amount.IsPositive() {
		return say("That doesn't look like an amount. Try something like 4.50"), nil
	}

	// Never submit a malformed withdrawal, whatever path led here.
	if e.description == "" || (e.source.ID == "" && e.source.Name == "") {
		return turn{}, fmt.Errorf("expense dialogue reached submission without description or source account")
	}

	attrs := domain.WithdrawalAttributes(amount.String(), e.description, e.source, e.destination, "", "")
	id, err := e.ledger(e.sess).CreateTransaction(ctx, attrs)
	if err != nil {
		return turn{}, err
	}

	return finish(
		Reply{Text: fmt.Sprintf("Withdraw from %s to %s, amount %s, description: %s",
			e.source.Name, e.destination, amount.String(), e.description)},
		Reply{
			Text:     expenseLoggedText(e.sess.FireflyURL, id),
			Markdown: true,
		},
	), nil
}

func expenseLoggedText(fireflyURL string, id domain.TransactionID) string {
	return fmt.Sprintf("[Expense logged successfully](%s/transactions/show/%s)", fireflyURL, id)
}
