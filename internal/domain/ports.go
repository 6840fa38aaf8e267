package domain

import "context"

// Attributes is the attribute set of a transaction create or update. Keys
// are validated against the ledger's allow-list at the client boundary
// before any request is sent.
type Attributes map[string]any

// LedgerClient defines how the bot talks to the budgeting service. Pure
// request/response, no state. Write operations return the created or
// updated transaction id; failures are reported as *ValidationError (the
// service refused the input) or *StatusError (anything else).
type LedgerClient interface {
	ListAccounts(ctx context.Context, accountType AccountType) ([]Account, error)
	GetAccount(ctx context.Context, id AccountID) (Account, error)
	ListTransactions(ctx context.Context, txType TransactionType) ([]Transaction, error)
	GetTransaction(ctx context.Context, id TransactionID) (Transaction, error)
	CreateTransaction(ctx context.Context, attrs Attributes) (TransactionID, error)
	UpdateTransaction(ctx context.Context, id TransactionID, attrs Attributes) (TransactionID, error)
	DeleteTransaction(ctx context.Context, id TransactionID) error
	ListRules(ctx context.Context) ([]Rule, error)
	About(ctx context.Context) (Profile, error)
}

// LedgerDialer builds a client bound to one user's service URL and token.
// The URL and token live in the Session, so clients are constructed per
// turn rather than per process.
type LedgerDialer func(baseURL, token string) LedgerClient

// SessionStore defines session persistence. Implementations must be safe
// for concurrent use; writes for a given user are already serialized by
// the per-user dispatch upstream.
type SessionStore interface {
	Get(id UserID) (*Session, error)
	Put(session *Session) error
	Close() error
}
