package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIsType(t *testing.T) {
	err := New(ErrorTypeSchemaMismatch, "shape does not match")

	assert.True(t, IsType(err, ErrorTypeSchemaMismatch))
	assert.False(t, IsType(err, ErrorTypeBatchIntegrity))
	assert.Contains(t, err.Error(), "shape does not match")
	assert.Contains(t, err.Error(), "schema_mismatch")
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeIndex, "row %d out of range [0, %d)", 7, 3)
	assert.Contains(t, err.Error(), "row 7 out of range [0, 3)")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrorTypeData, "failed to write snapshot")

	require.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrorTypeData))
	assert.Contains(t, err.Error(), "failed to write snapshot")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeData, "nothing"))
}

func TestIsTypeNonStrataError(t *testing.T) {
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeInternal))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeBatchIntegrity, "lengths disagree").
		WithDetail("field", "floats:lengths").
		WithDetail("expected", 3)

	assert.Equal(t, "floats:lengths", err.Details["field"])
	assert.Equal(t, 3, err.Details["expected"])
}

func TestStackCaptured(t *testing.T) {
	err := New(ErrorTypeInternal, "boom")
	assert.NotEmpty(t, err.Stack)
}
