package errors

import stderrors "errors"

// Category tells the engine and the API how an error must be handled.
type Category string

const (
	// CategoryValidation marks malformed commands, rejected before the order log.
	CategoryValidation Category = "validation"
	// CategoryBusiness marks rejections that end the order in a terminal state without side effects.
	CategoryBusiness Category = "business"
	// CategoryInvariant marks corrupted state. The owning symbol is halted and the error is never retried.
	CategoryInvariant Category = "invariant"
	// CategoryTransient marks infrastructure failures that may succeed on retry.
	CategoryTransient Category = "transient"
	// CategoryUnknown is returned for errors that carry no category.
	CategoryUnknown Category = "unknown"
)

// ClassifiedError is a sentinel error tagged with a Category.
type ClassifiedError struct {
	category Category
	message  string
}

func (e *ClassifiedError) Error() string {
	return e.message
}

// Category returns the category the sentinel was declared with.
func (e *ClassifiedError) Category() Category {
	return e.category
}

// NewBusiness declares a business rejection sentinel.
func NewBusiness(message string) *ClassifiedError {
	return &ClassifiedError{category: CategoryBusiness, message: message}
}

// NewInvariant declares an invariant violation sentinel.
func NewInvariant(message string) *ClassifiedError {
	return &ClassifiedError{category: CategoryInvariant, message: message}
}

// NewTransient declares a transient infrastructure sentinel.
func NewTransient(message string) *ClassifiedError {
	return &ClassifiedError{category: CategoryTransient, message: message}
}

// Classify walks the error chain and returns the first category found.
// Validation details and tracers around them count as validation.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.category
	}

	var base *BaseError
	if stderrors.As(err, &base) {
		return CategoryValidation
	}

	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return CategoryValidation
	}

	return CategoryUnknown
}

// IsInvariant reports whether err must halt the symbol.
func IsInvariant(err error) bool {
	return Classify(err) == CategoryInvariant
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return Classify(err) == CategoryTransient
}
