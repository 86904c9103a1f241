package model

import (
	"fmt"

	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
)

// Contact is the JSON representation of a record. It is used both in the address book file and
// in the bodies of the REST API.
type Contact struct {
	Name           string   `json:"name"                     binding:"required"`
	Phones         []string `json:"phones"`
	Birthday       *string  `json:"birthday,omitempty"`
	DaysToBirthday *int     `json:"daysToBirthday,omitempty"`
}

// FromRecord converts a record into its JSON representation. DaysToBirthday is left unset.
func FromRecord(r *contacts.Record) Contact {
	c := Contact{
		Name:   r.Name().Value(),
		Phones: make([]string, 0, len(r.Phones())),
	}
	for _, phone := range r.Phones() {
		c.Phones = append(c.Phones, phone.Value())
	}
	if b, ok := r.Birthday(); ok {
		s := b.String()
		c.Birthday = &s
	}
	return c
}

// ToRecord validates the contact and converts it into a record. Phones keep their order.
func (c Contact) ToRecord() (*contacts.Record, error) {
	var birthday string
	if c.Birthday != nil {
		birthday = *c.Birthday
		if birthday == "" {
			return nil, fmt.Errorf("birthday cannot be empty: %w", contacts.ErrValidation)
		}
	}
	r, err := contacts.NewRecord(c.Name, birthday)
	if err != nil {
		return nil, err
	}
	for _, number := range c.Phones {
		if err := r.AddPhone(number); err != nil {
			return nil, err
		}
	}
	return r, nil
}
