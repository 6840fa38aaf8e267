package domain

// Session is the durable per-user record. It is created on the first
// /start, overwritten by a re-setup and never deleted. The Firefly URL and
// token are user-specific: each user points the bot at their own instance.
type Session struct {
	UserID       UserID `json:"user_id"`
	FireflyURL   string `json:"firefly_url"`
	FireflyToken string `json:"firefly_token"`

	// DefaultAccountID is the asset account withdrawals are taken from
	// when the user does not pick one explicitly.
	DefaultAccountID AccountID `json:"default_account_id"`

	// BalanceAccountID is the account that collects the remainder of a
	// split transaction. Empty until the first /split asks for it.
	BalanceAccountID AccountID `json:"balance_account_id,omitempty"`
}

// Configured reports whether the setup dialogue has been completed.
func (s *Session) Configured() bool {
	return s.FireflyURL != "" && s.FireflyToken != "" && s.DefaultAccountID != ""
}
