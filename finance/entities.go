// Package finance holds the records exchanged with the finance REST API.
// Field names follow the API's JSON; optional fields are pointers.
package finance

import "time"

// Transaction states.
const (
	StateCleared     = "cleared"
	StateOutstanding = "outstanding"
	StateFuture      = "future"
)

// Account types.
const (
	AccountTypeDebit  = "debit"
	AccountTypeCredit = "credit"
)

type Account struct {
	AccountID        int64      `json:"accountId,omitempty"`
	AccountNameOwner string     `json:"accountNameOwner"`
	AccountType      string     `json:"accountType"`
	ActiveStatus     bool       `json:"activeStatus"`
	Moniker          string     `json:"moniker"`
	Outstanding      float64    `json:"outstanding"`
	Future           float64    `json:"future"`
	Cleared          float64    `json:"cleared"`
	DateClosed       *time.Time `json:"dateClosed,omitempty"`
	ValidationDate   *time.Time `json:"validationDate,omitempty"`
	DateAdded        *time.Time `json:"dateAdded,omitempty"`
	DateUpdated      *time.Time `json:"dateUpdated,omitempty"`
}

type Category struct {
	CategoryID    int64  `json:"categoryId,omitempty"`
	CategoryName  string `json:"categoryName"`
	ActiveStatus  bool   `json:"activeStatus"`
	CategoryCount int64  `json:"categoryCount,omitempty"`
}

type Description struct {
	DescriptionID    int64  `json:"descriptionId,omitempty"`
	DescriptionName  string `json:"descriptionName"`
	ActiveStatus     bool   `json:"activeStatus"`
	DescriptionCount int64  `json:"descriptionCount,omitempty"`
}

type Parameter struct {
	ParameterID    int64  `json:"parameterId,omitempty"`
	ParameterName  string `json:"parameterName"`
	ParameterValue string `json:"parameterValue"`
	ActiveStatus   bool   `json:"activeStatus"`
}

// Payment moves money from a source account to a destination account. The
// server records it as one transaction on each side.
type Payment struct {
	PaymentID          int64   `json:"paymentId,omitempty"`
	SourceAccount      string  `json:"sourceAccount"`
	DestinationAccount string  `json:"destinationAccount"`
	TransactionDate    string  `json:"transactionDate"`
	Amount             float64 `json:"amount"`
	GuidSource         *string `json:"guidSource,omitempty"`
	GuidDestination    *string `json:"guidDestination,omitempty"`
	ActiveStatus       bool    `json:"activeStatus"`
}

type Transfer struct {
	TransferID         int64   `json:"transferId,omitempty"`
	SourceAccount      string  `json:"sourceAccount"`
	DestinationAccount string  `json:"destinationAccount"`
	TransactionDate    string  `json:"transactionDate"`
	Amount             float64 `json:"amount"`
	GuidSource         *string `json:"guidSource,omitempty"`
	GuidDestination    *string `json:"guidDestination,omitempty"`
	ActiveStatus       bool    `json:"activeStatus"`
}

type Transaction struct {
	TransactionID    int64   `json:"transactionId,omitempty"`
	Guid             string  `json:"guid"`
	AccountID        int64   `json:"accountId,omitempty"`
	AccountType      string  `json:"accountType"`
	TransactionType  string  `json:"transactionType,omitempty"`
	AccountNameOwner string  `json:"accountNameOwner"`
	TransactionDate  string  `json:"transactionDate"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Amount           float64 `json:"amount"`
	TransactionState string  `json:"transactionState"`
	ActiveStatus     bool    `json:"activeStatus"`
	ReoccurringType  string  `json:"reoccurringType,omitempty"`
	Notes            string  `json:"notes"`
	DueDate          *string `json:"dueDate,omitempty"`
	ReceiptImageID   *int64  `json:"receiptImageId,omitempty"`

	// SourcePaymentID links a transaction to the payment that generated it.
	SourcePaymentID *int64 `json:"sourcePaymentId,omitempty"`
}

// Totals is the per account aggregate shown next to the transaction list.
type Totals struct {
	TotalsFuture      float64 `json:"totalsFuture"`
	TotalsCleared     float64 `json:"totalsCleared"`
	Totals            float64 `json:"totals"`
	TotalsOutstanding float64 `json:"totalsOutstanding"`
}

type PendingTransaction struct {
	PendingTransactionID int64   `json:"pendingTransactionId,omitempty"`
	AccountNameOwner     string  `json:"accountNameOwner"`
	TransactionDate      string  `json:"transactionDate"`
	Description          string  `json:"description"`
	Amount               float64 `json:"amount"`
	ReviewStatus         string  `json:"reviewStatus"`
}

type MedicalExpense struct {
	MedicalExpenseID      int64   `json:"medicalExpenseId,omitempty"`
	TransactionID         *int64  `json:"transactionId,omitempty"`
	ProviderID            *int64  `json:"providerId,omitempty"`
	FamilyMemberID        *int64  `json:"familyMemberId,omitempty"`
	ServiceDate           string  `json:"serviceDate"`
	ServiceDescription    string  `json:"serviceDescription"`
	BilledAmount          float64 `json:"billedAmount"`
	InsurancePaidAmount   float64 `json:"insurancePaidAmount"`
	PatientResponsibility float64 `json:"patientResponsibility"`
	ClaimStatus           string  `json:"claimStatus"`
	ActiveStatus          bool    `json:"activeStatus"`
}

type FamilyMember struct {
	FamilyMemberID int64  `json:"familyMemberId,omitempty"`
	Owner          string `json:"owner"`
	MemberName     string `json:"memberName"`
	Relationship   string `json:"relationship"`
	ActiveStatus   bool   `json:"activeStatus"`
}

type ValidationAmount struct {
	ValidationID     int64   `json:"validationId,omitempty"`
	AccountID        int64   `json:"accountId,omitempty"`
	ValidationDate   string  `json:"validationDate"`
	ActiveStatus     bool    `json:"activeStatus"`
	TransactionState string  `json:"transactionState"`
	Amount           float64 `json:"amount"`
}

// MergeRequest folds the named source categories or descriptions into target.
type MergeRequest struct {
	SourceNames []string `json:"sourceNames"`
	TargetName  string   `json:"targetName"`
}
