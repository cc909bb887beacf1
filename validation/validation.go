// Package validation checks entity payloads before they are sent to the API
// and sanitizes values that end up in request paths. Failures short-circuit
// the mutation before any network call.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-finance-cache/finance"
)

const dateLayout = "2006-01-02"

var (
	accountNamePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
	labelPattern       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.&'\-]*$`)
	parameterPattern   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	guidPattern        = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

var (
	accountNameRules = []ozzo.Rule{ozzo.Required, ozzo.Length(3, 40), ozzo.Match(accountNamePattern).Error("must be lowercase words joined by underscores")}
	labelRules       = []ozzo.Rule{ozzo.Required, ozzo.Length(1, 50), ozzo.Match(labelPattern)}
	dateRules        = []ozzo.Rule{ozzo.Required, ozzo.Date(dateLayout)}
	stateRule        = ozzo.In(finance.StateCleared, finance.StateOutstanding, finance.StateFuture)
)

func Account(a finance.Account) error {
	err := ozzo.ValidateStruct(&a,
		ozzo.Field(&a.AccountNameOwner, accountNameRules...),
		ozzo.Field(&a.AccountType, ozzo.Required, ozzo.In(finance.AccountTypeDebit, finance.AccountTypeCredit)),
		ozzo.Field(&a.Moniker, ozzo.Length(0, 4)),
	)
	return payloadError("account", err)
}

func Category(c finance.Category) error {
	err := ozzo.ValidateStruct(&c,
		ozzo.Field(&c.CategoryName, labelRules...),
	)
	return payloadError("category", err)
}

func Description(d finance.Description) error {
	err := ozzo.ValidateStruct(&d,
		ozzo.Field(&d.DescriptionName, labelRules...),
	)
	return payloadError("description", err)
}

func Parameter(p finance.Parameter) error {
	err := ozzo.ValidateStruct(&p,
		ozzo.Field(&p.ParameterName, ozzo.Required, ozzo.Length(1, 50), ozzo.Match(parameterPattern)),
		ozzo.Field(&p.ParameterValue, ozzo.Required, ozzo.Length(1, 50)),
	)
	return payloadError("parameter", err)
}

// Payment checks a payment payload. Source and destination must differ and
// the amount must be positive; the server applies the sign per side.
func Payment(p finance.Payment) error {
	err := ozzo.ValidateStruct(&p,
		ozzo.Field(&p.SourceAccount, accountNameRules...),
		ozzo.Field(&p.DestinationAccount, append(accountNameRules, ozzo.NotIn(p.SourceAccount).Error("must differ from the source account"))...),
		ozzo.Field(&p.TransactionDate, dateRules...),
		ozzo.Field(&p.Amount, ozzo.Required, ozzo.Min(0.01)),
	)
	return payloadError("payment", err)
}

func Transfer(tr finance.Transfer) error {
	err := ozzo.ValidateStruct(&tr,
		ozzo.Field(&tr.SourceAccount, accountNameRules...),
		ozzo.Field(&tr.DestinationAccount, append(accountNameRules, ozzo.NotIn(tr.SourceAccount).Error("must differ from the source account"))...),
		ozzo.Field(&tr.TransactionDate, dateRules...),
		ozzo.Field(&tr.Amount, ozzo.Required, ozzo.Min(0.01)),
	)
	return payloadError("transfer", err)
}

// Transaction checks a transaction payload. The guid may be empty on insert;
// when present it must be a canonical UUID.
func Transaction(tx finance.Transaction) error {
	err := ozzo.ValidateStruct(&tx,
		ozzo.Field(&tx.Guid, ozzo.Match(guidPattern)),
		ozzo.Field(&tx.AccountNameOwner, accountNameRules...),
		ozzo.Field(&tx.AccountType, ozzo.Required, ozzo.In(finance.AccountTypeDebit, finance.AccountTypeCredit)),
		ozzo.Field(&tx.TransactionDate, dateRules...),
		ozzo.Field(&tx.Description, labelRules...),
		ozzo.Field(&tx.Category, ozzo.Length(0, 50)),
		ozzo.Field(&tx.TransactionState, ozzo.Required, stateRule),
		ozzo.Field(&tx.Notes, ozzo.Length(0, 100)),
		ozzo.Field(&tx.Amount, ozzo.By(cents)),
	)
	return payloadError("transaction", err)
}

func PendingTransaction(p finance.PendingTransaction) error {
	err := ozzo.ValidateStruct(&p,
		ozzo.Field(&p.AccountNameOwner, accountNameRules...),
		ozzo.Field(&p.TransactionDate, dateRules...),
		ozzo.Field(&p.Description, labelRules...),
		ozzo.Field(&p.Amount, ozzo.By(cents)),
	)
	return payloadError("pendingTransaction", err)
}

func MedicalExpense(m finance.MedicalExpense) error {
	err := ozzo.ValidateStruct(&m,
		ozzo.Field(&m.ServiceDate, dateRules...),
		ozzo.Field(&m.ServiceDescription, ozzo.Length(0, 200)),
		ozzo.Field(&m.BilledAmount, ozzo.Min(0.0)),
		ozzo.Field(&m.InsurancePaidAmount, ozzo.Min(0.0), ozzo.Max(m.BilledAmount).Error("cannot exceed the billed amount")),
		ozzo.Field(&m.PatientResponsibility, ozzo.Min(0.0)),
	)
	return payloadError("medicalExpense", err)
}

func FamilyMember(f finance.FamilyMember) error {
	err := ozzo.ValidateStruct(&f,
		ozzo.Field(&f.Owner, ozzo.Required, ozzo.Length(1, 100)),
		ozzo.Field(&f.MemberName, labelRules...),
		ozzo.Field(&f.Relationship, ozzo.Required, ozzo.In("self", "spouse", "child", "dependent", "other")),
	)
	return payloadError("familyMember", err)
}

func ValidationAmount(v finance.ValidationAmount) error {
	err := ozzo.ValidateStruct(&v,
		ozzo.Field(&v.TransactionState, ozzo.Required, stateRule),
		ozzo.Field(&v.ValidationDate, ozzo.Required),
		ozzo.Field(&v.Amount, ozzo.By(cents)),
	)
	return payloadError("validationAmount", err)
}

// Merge checks a category or description merge request.
func Merge(entity string, m finance.MergeRequest) error {
	err := ozzo.ValidateStruct(&m,
		ozzo.Field(&m.SourceNames, ozzo.Required, ozzo.Each(labelRules...), ozzo.Each(ozzo.NotIn(m.TargetName).Error("cannot merge into itself"))),
		ozzo.Field(&m.TargetName, labelRules...),
	)
	return payloadError(entity+"Merge", err)
}

// cents rejects amounts with more than two decimal places.
func cents(value any) error {
	v, ok := value.(float64)
	if !ok {
		return errors.New("must be a number")
	}
	if finance.RoundAmount(v) != v {
		return errors.New("must have at most two decimal places")
	}
	return nil
}

// payloadError converts ozzo errors into a categorized validation error that
// keeps the per field messages in its metadata.
func payloadError(entity string, err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("validating %s", entity))
	}

	fields := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for name, fe := range fieldErrs {
		fields[name] = fe.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	return goerrors.New(fmt.Sprintf("invalid %s: %v", entity, fieldErrs), goerrors.CategoryValidation).
		WithTextCode("INVALID_PAYLOAD").
		WithMetadata(map[string]any{
			"entity":  entity,
			"fields":  fields,
			"invalid": names,
		})
}

// IsValidation reports whether err is a payload or path validation failure.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation) ||
		goerrors.IsCategory(err, goerrors.CategoryBadInput)
}
