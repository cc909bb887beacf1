package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/querykeys"
	"github.com/goliatone/go-finance-cache/strategies"
	"github.com/goliatone/go-finance-cache/validation"
)

// InsertCategory creates a category and appends it to the cached list.
func (s *Service) InsertCategory(ctx context.Context, c finance.Category) (finance.Category, error) {
	if err := validation.Category(c); err != nil {
		return finance.Category{}, err
	}

	created, err := send(ctx, s, "categoryInsert", http.MethodPost, api.CategoryPath, c)
	if err != nil {
		return finance.Category{}, err
	}

	strategies.AddToList(s.cache, querykeys.Categories(), created, strategies.End)
	s.settle(ctx)
	return created, nil
}

// UpdateCategory replaces old with next. A rename marks the transactions filed under the old name stale.
func (s *Service) UpdateCategory(ctx context.Context, old, next finance.Category) (finance.Category, error) {
	name, err := validation.CategoryName(old.CategoryName)
	if err != nil {
		return finance.Category{}, err
	}
	if err := validation.Category(next); err != nil {
		return finance.Category{}, err
	}

	updated, err := send(ctx, s, "categoryUpdate", http.MethodPut, api.Item(api.CategoryPath, name), next)
	if err != nil {
		return finance.Category{}, err
	}

	strategies.ReplaceInList(s.cache, querykeys.Categories(), old, updated, finance.CategoryName)
	if old.CategoryName != updated.CategoryName {
		strategies.InvalidateRelated(s.cache,
			querykeys.Transactions(),
			querykeys.TransactionsByCategory(old.CategoryName),
		)
	}
	s.settle(ctx)
	return updated, nil
}

// DeleteCategory deletes a category and drops it from the cached list.
func (s *Service) DeleteCategory(ctx context.Context, c finance.Category) error {
	name, err := validation.CategoryName(c.CategoryName)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "categoryDelete", api.Item(api.CategoryPath, name)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.Categories(), c, finance.CategoryName)
	s.cache.RemoveQueries(querykeys.TransactionsByCategory(c.CategoryName))
	s.settle(ctx)
	return nil
}

// MergeCategories folds the source categories into the target. Every cached
// transaction list may carry one of the merged names, so all are invalidated.
func (s *Service) MergeCategories(ctx context.Context, m finance.MergeRequest) error {
	if err := validation.Merge("category", m); err != nil {
		return err
	}

	if _, err := send(ctx, s, "categoryMerge", http.MethodPost, api.CategoryMergePath, m); err != nil {
		return err
	}

	strategies.InvalidateRelated(s.cache,
		querykeys.Categories(),
		querykeys.Transactions(),
		cache.NewKey(querykeys.TransactionByCategory),
	)
	s.settle(ctx)
	return nil
}

// InsertDescription creates a description and appends it to the cached list.
func (s *Service) InsertDescription(ctx context.Context, d finance.Description) (finance.Description, error) {
	if err := validation.Description(d); err != nil {
		return finance.Description{}, err
	}

	created, err := send(ctx, s, "descriptionInsert", http.MethodPost, api.DescriptionPath, d)
	if err != nil {
		return finance.Description{}, err
	}

	strategies.AddToList(s.cache, querykeys.Descriptions(), created, strategies.End)
	s.settle(ctx)
	return created, nil
}

// UpdateDescription replaces old with next. A rename marks the transactions under the old name stale.
func (s *Service) UpdateDescription(ctx context.Context, old, next finance.Description) (finance.Description, error) {
	name, err := validation.DescriptionName(old.DescriptionName)
	if err != nil {
		return finance.Description{}, err
	}
	if err := validation.Description(next); err != nil {
		return finance.Description{}, err
	}

	updated, err := send(ctx, s, "descriptionUpdate", http.MethodPut, api.Item(api.DescriptionPath, name), next)
	if err != nil {
		return finance.Description{}, err
	}

	strategies.ReplaceInList(s.cache, querykeys.Descriptions(), old, updated, finance.DescriptionName)
	if old.DescriptionName != updated.DescriptionName {
		strategies.InvalidateRelated(s.cache,
			querykeys.Transactions(),
			querykeys.TransactionsByDescription(old.DescriptionName),
		)
	}
	s.settle(ctx)
	return updated, nil
}

// DeleteDescription deletes a description and drops it from the cached list.
func (s *Service) DeleteDescription(ctx context.Context, d finance.Description) error {
	name, err := validation.DescriptionName(d.DescriptionName)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "descriptionDelete", api.Item(api.DescriptionPath, name)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.Descriptions(), d, finance.DescriptionName)
	s.cache.RemoveQueries(querykeys.TransactionsByDescription(d.DescriptionName))
	s.settle(ctx)
	return nil
}

// MergeDescriptions folds the source descriptions into the target.
func (s *Service) MergeDescriptions(ctx context.Context, m finance.MergeRequest) error {
	if err := validation.Merge("description", m); err != nil {
		return err
	}

	if _, err := send(ctx, s, "descriptionMerge", http.MethodPost, api.DescriptionMergePath, m); err != nil {
		return err
	}

	strategies.InvalidateRelated(s.cache,
		querykeys.Descriptions(),
		querykeys.Transactions(),
		cache.NewKey(querykeys.TransactionByDescription),
	)
	s.settle(ctx)
	return nil
}

// InsertParameter creates a parameter and appends it to the cached list.
func (s *Service) InsertParameter(ctx context.Context, p finance.Parameter) (finance.Parameter, error) {
	if err := validation.Parameter(p); err != nil {
		return finance.Parameter{}, err
	}

	created, err := send(ctx, s, "parameterInsert", http.MethodPost, api.ParameterPath, p)
	if err != nil {
		return finance.Parameter{}, err
	}

	strategies.AddToList(s.cache, querykeys.Parameters(), created, strategies.End)
	s.settle(ctx)
	return created, nil
}

// UpdateParameter updates a parameter in place in the cached list.
func (s *Service) UpdateParameter(ctx context.Context, p finance.Parameter) (finance.Parameter, error) {
	id, err := validation.ID(p.ParameterID)
	if err != nil {
		return finance.Parameter{}, err
	}
	if err := validation.Parameter(p); err != nil {
		return finance.Parameter{}, err
	}

	updated, err := send(ctx, s, "parameterUpdate", http.MethodPut, api.Item(api.ParameterPath, id), p)
	if err != nil {
		return finance.Parameter{}, err
	}

	strategies.UpdateInList(s.cache, querykeys.Parameters(), updated, finance.ParameterID)
	s.settle(ctx)
	return updated, nil
}

// DeleteParameter deletes a parameter and drops it from the cached list.
func (s *Service) DeleteParameter(ctx context.Context, p finance.Parameter) error {
	id, err := validation.ID(p.ParameterID)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "parameterDelete", api.Item(api.ParameterPath, id)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.Parameters(), p, finance.ParameterID)
	s.settle(ctx)
	return nil
}
