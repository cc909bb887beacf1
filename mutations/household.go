package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/querykeys"
	"github.com/goliatone/go-finance-cache/strategies"
	"github.com/goliatone/go-finance-cache/validation"
)

// InsertMedicalExpense records a medical expense and prepends it to the cached list.
func (s *Service) InsertMedicalExpense(ctx context.Context, m finance.MedicalExpense) (finance.MedicalExpense, error) {
	if err := validation.MedicalExpense(m); err != nil {
		return finance.MedicalExpense{}, err
	}

	created, err := send(ctx, s, "medicalExpenseInsert", http.MethodPost, api.MedicalExpensePath, m)
	if err != nil {
		return finance.MedicalExpense{}, err
	}

	strategies.AddToList(s.cache, querykeys.MedicalExpenses(), created, strategies.Start)
	s.settle(ctx)
	return created, nil
}

// UpdateMedicalExpense updates a medical expense in place in the cached list.
func (s *Service) UpdateMedicalExpense(ctx context.Context, m finance.MedicalExpense) (finance.MedicalExpense, error) {
	id, err := validation.ID(m.MedicalExpenseID)
	if err != nil {
		return finance.MedicalExpense{}, err
	}
	if err := validation.MedicalExpense(m); err != nil {
		return finance.MedicalExpense{}, err
	}

	updated, err := send(ctx, s, "medicalExpenseUpdate", http.MethodPut, api.Item(api.MedicalExpensePath, id), m)
	if err != nil {
		return finance.MedicalExpense{}, err
	}

	strategies.UpdateInList(s.cache, querykeys.MedicalExpenses(), updated, finance.MedicalExpenseID)
	s.settle(ctx)
	return updated, nil
}

// DeleteMedicalExpense deletes a medical expense and drops it from the cached list.
func (s *Service) DeleteMedicalExpense(ctx context.Context, m finance.MedicalExpense) error {
	id, err := validation.ID(m.MedicalExpenseID)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "medicalExpenseDelete", api.Item(api.MedicalExpensePath, id)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.MedicalExpenses(), m, finance.MedicalExpenseID)
	s.settle(ctx)
	return nil
}

// InsertFamilyMember adds a family member at the end of the cached list.
func (s *Service) InsertFamilyMember(ctx context.Context, f finance.FamilyMember) (finance.FamilyMember, error) {
	if err := validation.FamilyMember(f); err != nil {
		return finance.FamilyMember{}, err
	}

	created, err := send(ctx, s, "familyMemberInsert", http.MethodPost, api.FamilyMemberPath, f)
	if err != nil {
		return finance.FamilyMember{}, err
	}

	strategies.AddToList(s.cache, querykeys.FamilyMembers(), created, strategies.End)
	s.settle(ctx)
	return created, nil
}

// DeleteFamilyMember deletes a family member and drops it from the cached list.
func (s *Service) DeleteFamilyMember(ctx context.Context, f finance.FamilyMember) error {
	id, err := validation.ID(f.FamilyMemberID)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "familyMemberDelete", api.Item(api.FamilyMemberPath, id)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.FamilyMembers(), f, finance.FamilyMemberID)
	s.settle(ctx)
	return nil
}

// InsertValidationAmount records a reconciled balance for an account and
// makes it the cached validation amount of that account.
func (s *Service) InsertValidationAmount(ctx context.Context, accountNameOwner string, v finance.ValidationAmount) (finance.ValidationAmount, error) {
	name, err := validation.AccountName(accountNameOwner)
	if err != nil {
		return finance.ValidationAmount{}, err
	}
	if err := validation.ValidationAmount(v); err != nil {
		return finance.ValidationAmount{}, err
	}

	created, err := send(ctx, s, "validationAmountInsert", http.MethodPost, api.ValidationAmountInsertPath(name), v)
	if err != nil {
		return finance.ValidationAmount{}, err
	}

	s.cache.SetQueryData(querykeys.ValidationAmountFor(accountNameOwner), created)
	strategies.InvalidateRelated(s.cache, querykeys.Accounts())
	s.settle(ctx)
	return created, nil
}

// Logout drops every cached partition, and with them their observers, so
// nothing of the previous session is served or refetched.
func (s *Service) Logout() {
	strategies.ClearCaches(s.cache, querykeys.Scopes()...)
	s.hook("logout").Info("caches cleared")
}
