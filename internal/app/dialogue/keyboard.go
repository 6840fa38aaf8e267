package dialogue

import (
	"fmt"

	"fireflybot/internal/domain"
)

const buttonsPerRow = 3

// spendingKeyboard renders the accounts a user can spend from: asset
// accounts carrying the defaultAsset role, three per row.
func spendingKeyboard(accounts []domain.Account) [][]Button {
	var rows [][]Button
	for _, a := range accounts {
		if !a.IsDefaultAsset() {
			continue
		}
		rows = appendButton(rows, Button{
			Label: a.Name,
			Data:  EncodeAccountRef(domain.AccountRef{ID: a.ID, Name: a.Name}),
		})
	}
	return rows
}

// expenseKeyboard renders active expense accounts as shortcuts. Typing a
// name the keyboard does not show is still accepted.
func expenseKeyboard(accounts []domain.Account) [][]Button {
	var rows [][]Button
	for _, a := range accounts {
		if !a.Active {
			continue
		}
		rows = appendButton(rows, Button{
			Label: a.Name,
			Data:  EncodeAccountRef(domain.AccountRef{ID: a.ID, Name: a.Name}),
		})
	}
	return rows
}

// allAccountsKeyboard renders every fetched account, three per row. Setup
// uses it so the default account can be any asset account.
func allAccountsKeyboard(accounts []domain.Account) [][]Button {
	var rows [][]Button
	for _, a := range accounts {
		rows = appendButton(rows, Button{
			Label: a.Name,
			Data:  EncodeAccountRef(domain.AccountRef{ID: a.ID, Name: a.Name}),
		})
	}
	return rows
}

// transactionKeyboard renders one transaction per row, labelled by
// description and amount; the payload is the transaction id.
func transactionKeyboard(txs []domain.Transaction) [][]Button {
	var rows [][]Button
	for _, tx := range txs {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("%s (%s)", tx.Description, tx.Amount),
			Data:  string(tx.ID),
		}})
	}
	return rows
}

func appendButton(rows [][]Button, b Button) [][]Button {
	if len(rows) == 0 || len(rows[len(rows)-1]) == buttonsPerRow {
		rows = append(rows, nil)
	}
	rows[len(rows)-1] = append(rows[len(rows)-1], b)
	return rows
}
