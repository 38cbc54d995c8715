package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	errDuplicate := NewInvariant("duplicate trade")
	errFunds := NewBusiness("insufficient available")
	errLog := NewTransient("log unavailable")

	testCases := []struct {
		name     string
		err      error
		expected Category
	}{
		{name: "nil", err: nil, expected: CategoryUnknown},
		{name: "plain error", err: fmt.Errorf("boom"), expected: CategoryUnknown},
		{name: "invariant sentinel", err: errDuplicate, expected: CategoryInvariant},
		{name: "wrapped invariant", err: fmt.Errorf("apply: %w", errDuplicate), expected: CategoryInvariant},
		{name: "traced business", err: NewTracer("reserve").Wrap(errFunds), expected: CategoryBusiness},
		{name: "transient", err: errLog, expected: CategoryTransient},
		{name: "validation base error", err: NewBaseError(NewErrorDetails("bad", OrderInvalidPrice.String(), "price")), expected: CategoryValidation},
		{name: "traced validation details", err: TracerFromError(NewErrorDetails("bad", OrderInvalidQuantity.String(), "quantity")), expected: CategoryValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.err))
		})
	}

	assert.True(t, IsInvariant(errDuplicate))
	assert.True(t, IsTransient(errLog))
	assert.False(t, IsTransient(errFunds))
}

func TestBaseError(t *testing.T) {
	verr := NewBaseError()
	assert.Nil(t, verr.ErrOrNil())

	verr.Add(OrderInvalidPrice, "price", "price must be positive")
	verr.Add(OrderInvalidQuantity, "quantity", "quantity must be positive")
	verr.PrependFields("data.")

	err := verr.ErrOrNil()
	assert.Error(t, err)
	assert.True(t, ErrorCodeEquals(err, OrderInvalidPrice.String()))
	assert.False(t, ErrorCodeEquals(err, OrderInvalidSide.String()))
	assert.Equal(t, map[string][]string{
		"data.price":    {"price must be positive"},
		"data.quantity": {"quantity must be positive"},
	}, verr.Fields())
	assert.Contains(t, err.Error(), "code: order_invalid_price; error: price must be positive; field: data.price")
}

func TestErrorTracer(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	tracer := NewTracer("append to shard log").Wrap(cause)

	assert.Equal(t, "append to shard log: connection refused", tracer.Error())
	assert.ErrorIs(t, tracer, cause)
	assert.NotNil(t, tracer.StackTrace())

	same := TracerFromError(cause)
	assert.Equal(t, "connection refused", same.Error())
}
