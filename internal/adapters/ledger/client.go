// Package ledger translates domain operations into Firefly III API
// requests and structured results.
package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"fireflybot/internal/domain"
)

// Client talks to one Firefly III instance on behalf of one user. It is
// stateless beyond the base URL and token, and safe for concurrent use.
type Client struct {
	http *resty.Client
}

// New creates a client for the instance at baseURL. The token is the
// user's personal access token, sent as a bearer header on every request.
func New(baseURL, token string, timeout time.Duration) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/") + "/api/v1").
		SetAuthToken(token).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: hc}
}

// Dialer adapts New to the domain.LedgerDialer port with a fixed timeout.
func Dialer(timeout time.Duration) domain.LedgerDialer {
	return func(baseURL, token string) domain.LedgerClient {
		return New(baseURL, token, timeout)
	}
}

func (c *Client) ListAccounts(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("type", string(accountType)).
		Get("/accounts")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	var env struct {
		Data []accountPayload `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, decodeError("accounts", err)
	}

	accounts := make([]domain.Account, 0, len(env.Data))
	for _, p := range env.Data {
		accounts = append(accounts, p.toDomain())
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", string(id)).
		Get("/accounts/{id}")
	if err := c.check(resp, err); err != nil {
		return domain.Account{}, err
	}

	var env struct {
		Data accountPayload `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return domain.Account{}, decodeError("account", err)
	}
	return env.Data.toDomain(), nil
}

func (c *Client) ListRules(ctx context.Context) ([]domain.Rule, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/rules")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}

	var env struct {
		Data []rulePayload `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, decodeError("rules", err)
	}

	rules := make([]domain.Rule, 0, len(env.Data))
	for _, p := range env.Data {
		rules = append(rules, p.toDomain())
	}
	return rules, nil
}

func (c *Client) About(ctx context.Context) (domain.Profile, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/about/user")
	if err := c.check(resp, err); err != nil {
		return domain.Profile{}, err
	}

	var env struct {
		Data struct {
			Attributes struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return domain.Profile{}, decodeError("profile", err)
	}
	return domain.Profile{
		Email: env.Data.Attributes.Email,
		Role:  env.Data.Attributes.Role,
	}, nil
}

// check maps a response to nil on success, *ValidationError for an
// unprocessable entity, and *StatusError for everything else including
// transport errors and timeouts.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return &domain.StatusError{Detail: err.Error()}
	}
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == http.StatusUnprocessableEntity {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Body(), &body) == nil && body.Message != "" {
			return &domain.ValidationError{Message: body.Message}
		}
		return &domain.ValidationError{Message: "the service rejected the request"}
	}
	return &domain.StatusError{Code: resp.StatusCode(), Detail: string(resp.Body())}
}
