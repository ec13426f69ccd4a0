package salesforce

import (
	"errors"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// UnknownFieldError reports that a SOQL query referenced a field the org's
// schema does not carry. Callers use this to retry with a reduced field set
// instead of failing the whole fetch.
type UnknownFieldError struct {
	Field string
	Err   error
}

func (e *UnknownFieldError) Error() string {
	if e.Field != "" {
		return "sf: unknown field " + e.Field
	}
	return "sf: unknown field: " + e.Err.Error()
}

func (e *UnknownFieldError) Unwrap() error { return e.Err }

// IsUnknownField reports whether err (or anything in its chain) is an
// UnknownFieldError.
func IsUnknownField(err error) bool {
	var ufe *UnknownFieldError
	return errors.As(err, &ufe)
}

// invalidFieldRe matches the field name Salesforce quotes in INVALID_FIELD
// responses ("No such column 'Intent_Score__c' on entity 'Account'").
var invalidFieldRe = regexp.MustCompile(`[Nn]o such column '([A-Za-z0-9_]+)'`)

// classifyQueryError distinguishes schema drift (INVALID_FIELD) from other
// query failures. The go-salesforce library surfaces the API error code in
// the message text, so classification is string-based.
func classifyQueryError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "INVALID_FIELD") || strings.Contains(msg, "No such column") {
		field := ""
		if m := invalidFieldRe.FindStringSubmatch(msg); len(m) == 2 {
			field = m[1]
		}
		return &UnknownFieldError{Field: field, Err: err}
	}
	return eris.Wrap(err, "sf: query")
}
