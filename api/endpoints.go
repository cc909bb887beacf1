package api

// Collection endpoints. Path segments passed to the builders below must
// already be sanitized and escaped.
const (
	AccountPath            = "/api/account"
	CategoryPath           = "/api/category"
	CategoryMergePath      = "/api/category/merge"
	DescriptionPath        = "/api/description"
	DescriptionMergePath   = "/api/description/merge"
	ParameterPath          = "/api/parameter"
	PaymentPath            = "/api/payment"
	TransferPath           = "/api/transfer"
	TransactionPath        = "/api/transaction"
	PendingTransactionPath = "/api/pending/transaction"
	MedicalExpensePath     = "/api/medical-expenses"
	FamilyMemberPath       = "/api/family-members"
	ValidationAmountPath   = "/api/validation/amount"
)

// ActiveList is the listing endpoint of a collection.
func ActiveList(collection string) string {
	return collection + "/select/active"
}

// Item addresses one record of a collection.
func Item(collection, id string) string {
	return collection + "/" + id
}

func TransactionsByAccountPath(accountNameOwner string) string {
	return TransactionPath + "/account/select/" + accountNameOwner
}

func TransactionsByCategoryPath(categoryName string) string {
	return TransactionPath + "/category/" + categoryName
}

func TransactionsByDescriptionPath(descriptionName string) string {
	return TransactionPath + "/description/" + descriptionName
}

func TotalsPath(accountNameOwner string) string {
	return AccountPath + "/totals/" + accountNameOwner
}

func ValidationAmountSelectPath(accountNameOwner, state string) string {
	return ValidationAmountPath + "/select/" + accountNameOwner + "/" + state
}

func PaymentsRequiredPath() string {
	return AccountPath + "/payment/required"
}

func ValidationAmountInsertPath(accountNameOwner string) string {
	return ValidationAmountPath + "/insert/" + accountNameOwner
}
