package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"fireflybot/internal/domain"
)

// allowedTxAttrs is the fixed set of attribute names Firefly accepts on a
// transaction split. Anything else is rejected locally, before a request
// is attempted.
var allowedTxAttrs = map[string]struct{}{}

func init() {
	for _, k := range []string{
		"type", "date", "amount", "description", "order", "currency_id",
		"currency_code", "foreign_amount", "foreign_currency_id",
		"foreign_currency_code", "budget_id", "budget_name", "category_id",
		"category_name", "source_id", "source_name", "destination_id",
		"destination_name", "reconciled", "piggy_bank_id", "piggy_bank_name",
		"bill_id", "bill_name", "tags", "notes", "internal_reference",
		"external_id", "interest_date", "book_date", "process_date",
		"due_date", "payment_date", "invoice_date",
	} {
		allowedTxAttrs[k] = struct{}{}
	}
}

func validateAttributes(attrs domain.Attributes) error {
	for k := range attrs {
		if _, ok := allowedTxAttrs[k]; !ok {
			return &domain.ValidationError{Message: fmt.Sprintf("cannot set key %q on a transaction", k)}
		}
	}
	return nil
}

func (c *Client) ListTransactions(ctx context.Context, txType domain.TransactionType) ([]domain.Transaction, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("type", string(txType)).
		Get("/transactions")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	var env struct {
		Data []transactionGroup `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, decodeError("transactions", err)
	}

	txs := make([]domain.Transaction, 0, len(env.Data))
	for _, g := range env.Data {
		tx, err := g.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (c *Client) GetTransaction(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", string(id)).
		Get("/transactions/{id}")
	if err := c.check(resp, err); err != nil {
		return domain.Transaction{}, err
	}

	var env struct {
		Data transactionGroup `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return domain.Transaction{}, decodeError("transaction", err)
	}
	return env.Data.toDomain()
}

// CreateTransaction posts a new transaction. The type attribute is
// required; a missing date is stamped with the current day.
func (c *Client) CreateTransaction(ctx context.Context, attrs domain.Attributes) (domain.TransactionID, error) {
	if err := validateAttributes(attrs); err != nil {
		return "", err
	}
	if v, ok := attrs["type"]; !ok || v == "" {
		return "", &domain.ValidationError{Message: "transaction type is required"}
	}

	split := make(domain.Attributes, len(attrs)+1)
	for k, v := range attrs {
		split[k] = v
	}
	if v, ok := split["date"]; !ok || v == "" {
		split["date"] = time.Now().Format("2006-01-02")
	}

	return c.submitTransaction(ctx, "", split)
}

// UpdateTransaction patches an existing transaction. Only the supplied
// attributes change.
func (c *Client) UpdateTransaction(ctx context.Context, id domain.TransactionID, attrs domain.Attributes) (domain.TransactionID, error) {
	if err := validateAttributes(attrs); err != nil {
		return "", err
	}
	return c.submitTransaction(ctx, id, attrs)
}

func (c *Client) submitTransaction(ctx context.Context, id domain.TransactionID, split domain.Attributes) (domain.TransactionID, error) {
	body := map[string]any{
		"transactions": []domain.Attributes{split},
	}

	req := c.http.R().SetContext(ctx).SetBody(body)

	var resp *resty.Response
	var err error
	if id == "" {
		resp, err = req.Post("/transactions")
	} else {
		resp, err = req.SetPathParam("id", string(id)).Put("/transactions/{id}")
	}
	if err := c.check(resp, err); err != nil {
		return "", err
	}

	var env struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return "", decodeError("transaction write", err)
	}
	return domain.TransactionID(env.Data.ID), nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id domain.TransactionID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", string(id)).
		Delete("/transactions/{id}")
	return c.check(resp, err)
}
