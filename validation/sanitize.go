package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ID returns the path segment for a numeric record id.
func ID(id int64) (string, error) {
	if err := ozzo.Validate(id, ozzo.Required, ozzo.Min(int64(1))); err != nil {
		return "", pathError("id", strconv.FormatInt(id, 10), err)
	}
	return strconv.FormatInt(id, 10), nil
}

// AccountName returns the path segment for an account name.
func AccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := ozzo.Validate(name, accountNameRules...); err != nil {
		return "", pathError("accountNameOwner", name, err)
	}
	return url.PathEscape(name), nil
}

// CategoryName returns the path segment for a category name.
func CategoryName(name string) (string, error) {
	return label("categoryName", name)
}

// DescriptionName returns the path segment for a description name.
func DescriptionName(name string) (string, error) {
	return label("descriptionName", name)
}

// GUID returns the canonical lowercase form of a transaction guid.
func GUID(guid string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(guid))
	if err != nil || !guidPattern.MatchString(strings.TrimSpace(guid)) {
		if err == nil {
			err = fmt.Errorf("not in canonical form")
		}
		return "", pathError("guid", guid, err)
	}
	return parsed.String(), nil
}

func label(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if err := ozzo.Validate(value, labelRules...); err != nil {
		return "", pathError(field, value, err)
	}
	return url.PathEscape(value), nil
}

func pathError(field, value string, err error) error {
	return goerrors.New(fmt.Sprintf("invalid path parameter %s: %v", field, err), goerrors.CategoryBadInput).
		WithTextCode("INVALID_PATH_PARAMETER").
		WithMetadata(map[string]any{
			"field": field,
			"value": value,
		})
}
