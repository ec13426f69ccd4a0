package salesforce

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyQueryError_UnknownField(t *testing.T) {
	raw := errors.New(`INVALID_FIELD: No such column 'Intent_Score__c' on entity 'Account'`)

	err := classifyQueryError(raw)
	require.True(t, IsUnknownField(err))

	var ufe *UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "Intent_Score__c", ufe.Field)
}

func TestClassifyQueryError_Other(t *testing.T) {
	raw := errors.New("MALFORMED_QUERY: unexpected token")

	err := classifyQueryError(raw)
	assert.False(t, IsUnknownField(err))
	assert.Contains(t, err.Error(), "sf: query")
}

func TestIsUnknownField_WrappedDeep(t *testing.T) {
	inner := &UnknownFieldError{Field: "Champion__c", Err: errors.New("no such column")}
	wrapped := eris.Wrap(inner, "fetch: pipeline")

	assert.True(t, IsUnknownField(wrapped))
}
