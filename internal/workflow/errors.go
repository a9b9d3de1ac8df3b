package workflow

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/po-workflow/internal/domain/schema"
)

var (
	// ErrValidation submitni tarmoqqa chiqishdan oldin to'xtatadi
	ErrValidation = errors.New("validation failed")
	// ErrIneligible qator bu bosqich uchun yaroqsiz (masalan remaining = 0)
	ErrIneligible = errors.New("not eligible")
	// ErrWrite store ga yozish muvaffaqiyatsiz
	ErrWrite = errors.New("write failed")
)

// FieldError bitta maydon bo'yicha validatsiya xatosi
type FieldError struct {
	Field  schema.Field
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// MismatchError tanlangan qatorlarning guruhlash kaliti mos emas
type MismatchError struct {
	Expected GroupingKey
	Actual   GroupingKey
	Position int // tanlovdagi 0-based pozitsiya
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("grouping mismatch at selection %d: expected %s, got %s", e.Position, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error { return ErrValidation }

// IneligibleError lift yoki bosqich uchun yaroqsiz qator
type IneligibleError struct {
	Key       string
	Remaining decimal.Decimal
	Reason    string
}

func (e *IneligibleError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("not eligible: %s", e.Reason)
	}
	return fmt.Sprintf("%s not eligible: %s", e.Key, e.Reason)
}

func (e *IneligibleError) Unwrap() error { return ErrIneligible }

// WriteError faqat bitta qatorni to'xtatadi, batch davom etadi
type WriteError struct {
	Sheet    string
	RowIndex int
	Key      string
	Err      error
}

func (e *WriteError) Error() string {
	if e.RowIndex > 0 {
		return fmt.Sprintf("write %s row %d (%s): %v", e.Sheet, e.RowIndex, e.Key, e.Err)
	}
	return fmt.Sprintf("write %s (%s): %v", e.Sheet, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is errors.Is(err, ErrWrite) uchun
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// Invalid ErrValidation ga o'ralgan oddiy xabar
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
