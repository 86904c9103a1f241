package contacts

import (
	"fmt"
	"strings"
	"time"
)

// Record is one contact: a name, an ordered list of phone numbers and an optional birthday.
//
// The list of phones may contain the same number more than once. Callers that want unique numbers
// check with FindPhone before adding.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record without phones. The birthday is optional; pass an empty string to
// leave it unset.
func NewRecord(name string, birthday string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	r := &Record{name: n}
	if birthday != "" {
		if err := r.SetBirthday(birthday); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Clone returns a deep copy of the record. Changes to the copy do not affect the original.
func (r *Record) Clone() *Record {
	clone := &Record{name: r.name, phones: r.Phones()}
	if r.birthday != nil {
		b := *r.birthday
		clone.birthday = &b
	}
	return clone
}

// Name returns the record's name. It never changes after the record is created.
func (r *Record) Name() Name {
	return r.name
}

// Phones returns a copy of the phone list in insertion order.
func (r *Record) Phones() []Phone {
	phones := make([]Phone, len(r.phones))
	copy(phones, r.phones)
	return phones
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// SetBirthday parses the value and sets it as the record's birthday, replacing any previous one.
func (r *Record) SetBirthday(value string) error {
	b, err := ParseBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// AddPhone validates the number and appends it to the phone list.
func (r *Record) AddPhone(number string) error {
	phone, err := NewPhone(number)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, phone)
	return nil
}

// RemovePhone removes the first phone equal to number. Nothing happens if there is no such phone.
func (r *Record) RemovePhone(number string) {
	if i := r.indexOfPhone(number); i >= 0 {
		r.phones = append(r.phones[:i], r.phones[i+1:]...)
	}
}

// FindPhone returns the first phone equal to number and true, or false if the record has no such
// phone. A malformed number is reported as ErrValidation.
func (r *Record) FindPhone(number string) (Phone, bool, error) {
	wanted, err := NewPhone(number)
	if err != nil {
		return Phone{}, false, err
	}
	for _, phone := range r.phones {
		if phone.Equal(wanted) {
			return phone, true, nil
		}
	}
	return Phone{}, false, nil
}

// EditPhone replaces the first phone equal to oldNumber with newNumber. The new number must be a
// valid phone number. If oldNumber is not among the phones, ErrNotFound is returned and the list
// is left untouched.
func (r *Record) EditPhone(oldNumber string, newNumber string) error {
	i := r.indexOfPhone(oldNumber)
	if i < 0 {
		return fmt.Errorf("phone number %q of %s: %w", oldNumber, r.name, ErrNotFound)
	}
	phone, err := r.phones[i].WithValue(newNumber)
	if err != nil {
		return err
	}
	r.phones[i] = phone
	return nil
}

// DaysToBirthday returns the number of days until the next birthday, counted from today. The
// second return value is false if the record has no birthday.
func (r *Record) DaysToBirthday() (int, bool) {
	return r.DaysToBirthdayFrom(time.Now())
}

// DaysToBirthdayFrom is like DaysToBirthday but counts from the calendar date of now.
func (r *Record) DaysToBirthdayFrom(now time.Time) (int, bool) {
	if r.birthday == nil {
		return 0, false
	}
	return r.birthday.DaysUntil(now), true
}

// Matches returns true if query is a substring of the name or of any phone number. The match is
// case-sensitive.
func (r *Record) Matches(query string) bool {
	if strings.Contains(r.name.Value(), query) {
		return true
	}
	for _, phone := range r.phones {
		if strings.Contains(phone.Value(), query) {
			return true
		}
	}
	return false
}

func (r *Record) indexOfPhone(number string) int {
	for i, phone := range r.phones {
		if phone.Value() == number {
			return i
		}
	}
	return -1
}

// String renders the record on a single line, e.g.
// "Contact name: Ann, phones: 0123456789; 0987654321, birthday: 1990-05-01".
func (r *Record) String() string {
	numbers := make([]string, 0, len(r.phones))
	for _, phone := range r.phones {
		numbers = append(numbers, phone.Value())
	}
	s := fmt.Sprintf("Contact name: %s, phones: %s", r.name, strings.Join(numbers, "; "))
	if r.birthday != nil {
		s += ", birthday: " + r.birthday.String()
	}
	return s
}
