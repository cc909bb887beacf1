package finance

// Identity names the field that identifies a record inside a cached list.
// Field is the wire name, used in logs; Of extracts the value compared by the
// list strategies.
type Identity[T any, K comparable] struct {
	Field string
	Of    func(T) K
}

var (
	AccountName = Identity[Account, string]{
		Field: "accountNameOwner",
		Of:    func(a Account) string { return a.AccountNameOwner },
	}
	CategoryName = Identity[Category, string]{
		Field: "categoryName",
		Of:    func(c Category) string { return c.CategoryName },
	}
	DescriptionName = Identity[Description, string]{
		Field: "descriptionName",
		Of:    func(d Description) string { return d.DescriptionName },
	}
	ParameterID = Identity[Parameter, int64]{
		Field: "parameterId",
		Of:    func(p Parameter) int64 { return p.ParameterID },
	}
	PaymentID = Identity[Payment, int64]{
		Field: "paymentId",
		Of:    func(p Payment) int64 { return p.PaymentID },
	}
	TransferID = Identity[Transfer, int64]{
		Field: "transferId",
		Of:    func(t Transfer) int64 { return t.TransferID },
	}
	TransactionGUID = Identity[Transaction, string]{
		Field: "guid",
		Of:    func(t Transaction) string { return t.Guid },
	}
	PendingTransactionID = Identity[PendingTransaction, int64]{
		Field: "pendingTransactionId",
		Of:    func(p PendingTransaction) int64 { return p.PendingTransactionID },
	}
	MedicalExpenseID = Identity[MedicalExpense, int64]{
		Field: "medicalExpenseId",
		Of:    func(m MedicalExpense) int64 { return m.MedicalExpenseID },
	}
	FamilyMemberID = Identity[FamilyMember, int64]{
		Field: "familyMemberId",
		Of:    func(f FamilyMember) int64 { return f.FamilyMemberID },
	}
	ValidationAmountID = Identity[ValidationAmount, int64]{
		Field: "validationId",
		Of:    func(v ValidationAmount) int64 { return v.ValidationID },
	}
)
