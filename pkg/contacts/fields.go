package contacts

import (
	"fmt"
	"time"
)

// BirthdayLayout is the only accepted text format for birthdays (YYYY-MM-DD).
const BirthdayLayout = time.DateOnly

// phoneLength is the exact number of digits of a phone number.
const phoneLength = 10

// Field holds a single value without any validation. The typed fields below wrap it and validate
// on construction and on every change.
type Field[T any] struct {
	value T
}

// NewField returns a field holding the value as-is.
func NewField[T any](value T) Field[T] {
	return Field[T]{value: value}
}

// Value returns the stored value.
func (f Field[T]) Value() T {
	return f.value
}

// Set replaces the stored value.
func (f *Field[T]) Set(value T) {
	f.value = value
}

// String formats the stored value.
func (f Field[T]) String() string {
	return fmt.Sprint(f.value)
}

// Name is the mandatory, non-empty name of a contact.
type Name struct {
	field Field[string]
}

// NewName validates the value and returns a Name.
func NewName(value string) (Name, error) {
	if value == "" {
		return Name{}, fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}
	return Name{field: NewField(value)}, nil
}

// Value returns the name as a string.
func (n Name) Value() string {
	return n.field.Value()
}

// WithValue returns a new Name holding value, validated the same way as NewName.
func (n Name) WithValue(value string) (Name, error) {
	return NewName(value)
}

// Equal reports whether both names hold the same string.
func (n Name) Equal(other Name) bool {
	return n.Value() == other.Value()
}

func (n Name) String() string {
	return n.field.String()
}

// Phone is a phone number consisting of exactly ten decimal digits.
type Phone struct {
	field Field[string]
}

// NewPhone validates the value and returns a Phone.
func NewPhone(value string) (Phone, error) {
	if !isPhoneNumber(value) {
		return Phone{}, fmt.Errorf("phone number %q should be a %d-digit number: %w",
			value, phoneLength, ErrValidation)
	}
	return Phone{field: NewField(value)}, nil
}

// isPhoneNumber returns true if the value has exactly ten characters and all of them are ASCII
// digits.
func isPhoneNumber(value string) bool {
	if len(value) != phoneLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// Value returns the phone number as a string.
func (p Phone) Value() string {
	return p.field.Value()
}

// WithValue returns a new Phone holding value, validated the same way as NewPhone.
func (p Phone) WithValue(value string) (Phone, error) {
	return NewPhone(value)
}

// Equal reports whether both phones hold the same number.
func (p Phone) Equal(other Phone) bool {
	return p.Value() == other.Value()
}

func (p Phone) String() string {
	return p.field.String()
}

// Birthday is a calendar date. Only year, month and day are kept; the time of day is always
// midnight UTC.
type Birthday struct {
	field Field[time.Time]
}

// ParseBirthday parses a date in BirthdayLayout and returns a Birthday.
func ParseBirthday(value string) (Birthday, error) {
	date, err := time.Parse(BirthdayLayout, value)
	if err != nil {
		return Birthday{}, fmt.Errorf("birthday %q is not a valid YYYY-MM-DD date: %w",
			value, ErrValidation)
	}
	return Birthday{field: NewField(date)}, nil
}

// NewBirthday returns the Birthday for the calendar date of t, ignoring its time and location.
func NewBirthday(t time.Time) Birthday {
	return Birthday{field: NewField(dateOf(t))}
}

// Value returns the date at midnight UTC.
func (b Birthday) Value() time.Time {
	return b.field.Value()
}

// WithValue returns a new Birthday parsed from value, validated the same way as ParseBirthday.
func (b Birthday) WithValue(value string) (Birthday, error) {
	return ParseBirthday(value)
}

// Equal reports whether both birthdays are on the same date.
func (b Birthday) Equal(other Birthday) bool {
	return b.Value().Equal(other.Value())
}

// String formats the birthday in BirthdayLayout.
func (b Birthday) String() string {
	return b.Value().Format(BirthdayLayout)
}

// DaysUntil returns the number of days from the calendar date of now to the next occurrence of
// the birthday's month and day. The result is 0 if the birthday is today. A birthday on
// 29 February falls on 1 March in years that are not leap years.
func (b Birthday) DaysUntil(now time.Time) int {
	today := dateOf(now)
	bday := b.Value()
	next := time.Date(today.Year(), bday.Month(), bday.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, bday.Month(), bday.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(today).Hours() / 24)
}

// dateOf returns the calendar date of t, in t's own location, as midnight UTC.
func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
