package ledger

import (
	"github.com/pkg/errors"

	"fireflybot/internal/domain"
)

// Firefly wraps every resource in a {"data": ...} envelope with the
// interesting fields nested under "attributes". Transactions come as
// groups holding one or more splits; the bot only ever works with the
// first split of a group.

type accountPayload struct {
	ID         string `json:"id"`
	Attributes struct {
		Name           string `json:"name"`
		Type           string `json:"type"`
		AccountRole    string `json:"account_role"`
		CurrencyCode   string `json:"currency_code"`
		CurrentBalance string `json:"current_balance"`
		Active         bool   `json:"active"`
	} `json:"attributes"`
}

func (p accountPayload) toDomain() domain.Account {
	return domain.Account{
		ID:             domain.AccountID(p.ID),
		Name:           p.Attributes.Name,
		Type:           domain.AccountType(p.Attributes.Type),
		Role:           p.Attributes.AccountRole,
		CurrencyCode:   p.Attributes.CurrencyCode,
		CurrentBalance: p.Attributes.CurrentBalance,
		Active:         p.Attributes.Active,
	}
}

type transactionSplit struct {
	Type            string `json:"type"`
	Date            string `json:"date"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	CurrencyCode    string `json:"currency_code"`
	SourceID        string `json:"source_id"`
	SourceName      string `json:"source_name"`
	DestinationID   string `json:"destination_id"`
	DestinationName string `json:"destination_name"`
	CategoryName    string `json:"category_name"`
	BudgetName      string `json:"budget_name"`
}

type transactionGroup struct {
	ID         string `json:"id"`
	Attributes struct {
		Transactions []transactionSplit `json:"transactions"`
	} `json:"attributes"`
}

func (g transactionGroup) toDomain() (domain.Transaction, error) {
	if len(g.Attributes.Transactions) == 0 {
		return domain.Transaction{}, errors.Errorf("transaction group %s has no splits", g.ID)
	}
	s := g.Attributes.Transactions[0]
	return domain.Transaction{
		ID:              domain.TransactionID(g.ID),
		Type:            domain.TransactionType(s.Type),
		Description:     s.Description,
		Amount:          s.Amount,
		Date:            s.Date,
		CurrencyCode:    s.CurrencyCode,
		SourceID:        domain.AccountID(s.SourceID),
		SourceName:      s.SourceName,
		DestinationID:   domain.AccountID(s.DestinationID),
		DestinationName: s.DestinationName,
		CategoryName:    s.CategoryName,
		BudgetName:      s.BudgetName,
	}, nil
}

type rulePayload struct {
	ID         string `json:"id"`
	Attributes struct {
		Title    string `json:"title"`
		Triggers []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"triggers"`
		Actions []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"actions"`
	} `json:"attributes"`
}

func (p rulePayload) toDomain() domain.Rule {
	rule := domain.Rule{
		ID:    p.ID,
		Title: p.Attributes.Title,
	}
	for _, t := range p.Attributes.Triggers {
		rule.Triggers = append(rule.Triggers, domain.RuleCondition{Type: t.Type, Value: t.Value})
	}
	for _, a := range p.Attributes.Actions {
		rule.Actions = append(rule.Actions, domain.RuleCondition{Type: a.Type, Value: a.Value})
	}
	return rule
}

func decodeError(resource string, err error) error {
	return errors.Wrapf(err, "decoding %s response", resource)
}
