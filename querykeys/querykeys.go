// Package querykeys is the registry of canonical cache keys. Every reader and
// writer of a dataset builds its key here so they agree on the address.
package querykeys

import "github.com/goliatone/go-finance-cache/cache"

// Scope tokens. Each logical dataset starts with its own scope token.
const (
	Account                  = "account"
	Category                 = "category"
	Description              = "description"
	Parameter                = "parameter"
	Payment                  = "payment"
	PaymentRequired          = "paymentRequired"
	Transfer                 = "transfer"
	Transaction              = "transaction"
	TransactionByCategory    = "transactionByCategory"
	TransactionByDescription = "transactionByDescription"
	Totals                   = "totals"
	ValidationAmount         = "validationAmount"
	PendingTransaction       = "pendingTransaction"
	MedicalExpense           = "medicalExpense"
	FamilyMember             = "familyMember"
)

// Scopes lists every scope token, in a stable order.
func Scopes() []string {
	return []string{
		Account,
		Category,
		Description,
		Parameter,
		Payment,
		PaymentRequired,
		Transfer,
		Transaction,
		TransactionByCategory,
		TransactionByDescription,
		Totals,
		ValidationAmount,
		PendingTransaction,
		MedicalExpense,
		FamilyMember,
	}
}

// Accounts addresses the active account list.
func Accounts() cache.Key { return cache.NewKey(Account) }

// Categories addresses the active category list.
func Categories() cache.Key { return cache.NewKey(Category) }

// Descriptions addresses the active description list.
func Descriptions() cache.Key { return cache.NewKey(Description) }

// Parameters addresses the active parameter list.
func Parameters() cache.Key { return cache.NewKey(Parameter) }

// Payments addresses the active payment list.
func Payments() cache.Key { return cache.NewKey(Payment) }

// Transfers addresses the active transfer list.
func Transfers() cache.Key { return cache.NewKey(Transfer) }

// Transactions is the prefix shared by every per account transaction list.
func Transactions() cache.Key { return cache.NewKey(Transaction) }

// PaymentsRequired addresses the accounts that need a payment.
func PaymentsRequired() cache.Key { return cache.NewKey(PaymentRequired) }

// PendingTransactions addresses the pending transaction list.
func PendingTransactions() cache.Key { return cache.NewKey(PendingTransaction) }

// MedicalExpenses addresses the medical expense list.
func MedicalExpenses() cache.Key { return cache.NewKey(MedicalExpense) }

// FamilyMembers addresses the family member list.
func FamilyMembers() cache.Key { return cache.NewKey(FamilyMember) }

// AccountByName addresses the single account record for name.
func AccountByName(name string) cache.Key {
	return cache.NewKey(Account, name)
}

// TransactionByAccount addresses the transactions of one account.
func TransactionByAccount(accountNameOwner string) cache.Key {
	return cache.NewKey(Transaction, accountNameOwner)
}

// TransactionsByCategory addresses the transactions filed under one category.
func TransactionsByCategory(categoryName string) cache.Key {
	return cache.NewKey(TransactionByCategory, categoryName)
}

// TransactionsByDescription addresses the transactions sharing one description.
func TransactionsByDescription(descriptionName string) cache.Key {
	return cache.NewKey(TransactionByDescription, descriptionName)
}

// TotalsFor addresses the totals aggregate of one account.
func TotalsFor(accountNameOwner string) cache.Key {
	return cache.NewKey(Totals, accountNameOwner)
}

// AllTotals is the prefix shared by every totals aggregate.
func AllTotals() cache.Key {
	return cache.NewKey(Totals)
}

// ValidationAmountFor addresses the latest validation amount of one account.
func ValidationAmountFor(accountNameOwner string) cache.Key {
	return cache.NewKey(ValidationAmount, accountNameOwner)
}

// GetAccountKey is the key the account screen reads its transactions from.
// It always equals TransactionByAccount(accountNameOwner).
func GetAccountKey(accountNameOwner string) cache.Key {
	return TransactionByAccount(accountNameOwner)
}
