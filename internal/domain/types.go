package domain

// UserID is the chat platform's numeric user identity. Every piece of
// mutable state in the bot is keyed by it.
type UserID int64

// AccountID and TransactionID are Firefly III resource ids. The service
// hands them out as decimal strings.
type AccountID string

type TransactionID string

type AccountType string

const (
	AccountAsset   AccountType = "asset"
	AccountExpense AccountType = "expense"
)

type TransactionType string

const (
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionDeposit    TransactionType = "deposit"
	TransactionTransfer   TransactionType = "transfer"
)
