package domain

// Account is a read-only view of a ledger account. It is re-fetched on
// every prompt so keyboards always reflect the current ledger state.
type Account struct {
	ID             AccountID
	Name           string
	Type           AccountType
	Role           string
	CurrencyCode   string
	CurrentBalance string
	Active         bool
}

// IsDefaultAsset reports whether the account shows up on the spending
// keyboards. Firefly marks those with the "defaultAsset" role.
func (a Account) IsDefaultAsset() bool {
	return a.Role == "defaultAsset"
}

// Transaction is ledger-owned. Amounts stay opaque decimal strings; the bot
// only parses them where it has to do split arithmetic.
type Transaction struct {
	ID              TransactionID
	Type            TransactionType
	Description     string
	Amount          string
	Date            string
	CurrencyCode    string
	SourceID        AccountID
	SourceName      string
	DestinationID   AccountID
	DestinationName string
	CategoryName    string
	BudgetName      string
}

// RuleCondition is one trigger or action of an automation rule.
type RuleCondition struct {
	Type  string
	Value string
}

// Rule is a server-defined automation rule, fetched per invocation.
type Rule struct {
	ID       string
	Title    string
	Triggers []RuleCondition
	Actions  []RuleCondition
}

// Profile is the authenticated user as reported by GET about/user.
type Profile struct {
	Email string
	Role  string
}

// AccountRef is the token round-tripped through a button payload. The chat
// platform keeps no server-side state between prompt and click, so the
// payload has to carry everything the handler needs to recover. Either
// field may be empty: rule-derived refs only carry a name.
type AccountRef struct {
	ID   AccountID `json:"id,omitempty"`
	Name string    `json:"name,omitempty"`
}
