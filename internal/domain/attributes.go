package domain

// WithdrawalAttributes builds the attribute set for a withdrawal. The
// source is referenced by id when the ref carries one (button payloads do)
// and by name otherwise (rule-derived refs and free text). The destination
// is always a name: Firefly creates expense accounts on the fly.
func WithdrawalAttributes(amount, description string, source AccountRef, destination, category, budget string) Attributes {
	attrs := Attributes{
		"type":             string(TransactionWithdrawal),
		"amount":           amount,
		"description":      description,
		"destination_name": destination,
	}
	setSource(attrs, source)
	if category != "" {
		attrs["category_name"] = category
	}
	if budget != "" {
		attrs["budget_name"] = budget
	}
	return attrs
}

// TransferAttributes builds the attribute set for a transfer between two
// asset accounts.
func TransferAttributes(amount, description string, source, destination AccountRef) Attributes {
	attrs := Attributes{
		"type":        string(TransactionTransfer),
		"amount":      amount,
		"description": description,
	}
	setSource(attrs, source)
	if destination.ID != "" {
		attrs["destination_id"] = string(destination.ID)
	} else {
		attrs["destination_name"] = destination.Name
	}
	return attrs
}

func setSource(attrs Attributes, source AccountRef) {
	if source.ID != "" {
		attrs["source_id"] = string(source.ID)
	} else {
		attrs["source_name"] = source.Name
	}
}
