package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"fireflybot/internal/domain"
)

// quickLine is a one-message expense:
// amount, description[, category[, budget[, source[, destination]]]].
// Comma-separated; a line without commas is split on spaces instead.
type quickLine struct {
	amount      decimal.Decimal
	description string
	category    string
	budget      string
	source      string
	destination string
}

const quickUsage = "Just type in an expense with a description. Like this - '5, Starbucks'"

func parseQuickLine(text string) (quickLine, error) {
	sep := ","
	if !strings.Contains(text, ",") {
		sep = " "
	}

	var fields []string
	for _, f := range strings.Split(text, sep) {
		fields = append(fields, strings.TrimSpace(f))
	}
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return quickLine{}, fmt.Errorf("need at least an amount and a description")
	}

	amount, err := decimal.NewFromString(fields[0])
	if err != nil || !amount.IsPositive() {
		return quickLine{}, fmt.Errorf("invalid amount %q", fields[0])
	}

	line := quickLine{amount: amount, description: fields[1]}
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	line.category = get(2)
	line.budget = get(3)
	line.source = get(4)
	line.destination = get(5)
	return line, nil
}

// quickExpense handles a plain message while no dialogue is active. The
// source falls back to the default account, the destination to the
// description, matching what the step-by-step flow would do.
func (e *Engine) quickExpense(ctx context.Context, log *slog.Logger, sess *domain.Session, ev Event) []Reply {
	if !sess.Configured() {
		return []Reply{{Text: msgNeedSetup}}
	}

	line, err := parseQuickLine(ev.Text)
	if err != nil {
		return []Reply{{Text: quickUsage}}
	}

	source := domain.AccountRef{ID: sess.DefaultAccountID}
	if line.source != "" {
		if isNumeric(line.source) {
			source = domain.AccountRef{ID: domain.AccountID(line.source)}
		} else {
			source = domain.AccountRef{Name: line.source}
		}
	}

	destination := line.destination
	if destination == "" {
		destination = line.description
	}

	attrs := domain.WithdrawalAttributes(
		line.amount.String(), line.description, source, destination, line.category, line.budget)

	id, err := e.ledger(sess).CreateTransaction(ctx, attrs)
	if err != nil {
		return failureReplies(log.With("dialogue", "quick-expense"), err)
	}

	log.Info("quick expense logged", "transaction_id", id)
	return []Reply{{
		Text:     expenseLoggedText(sess.FireflyURL, id),
		Markdown: true,
	}}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
