package model

import "time"

// ContactRow is one contact in the contacts table. Position keeps the order of the address book.
type ContactRow struct {
	Name     string     `db:"name"`
	Position int        `db:"position"`
	Birthday *time.Time `db:"birthday"`
}

// PhoneRow is one phone number in the phones table. Position keeps the order of the numbers
// within a contact.
type PhoneRow struct {
	ContactName string `db:"contact_name"`
	Position    int    `db:"position"`
	Number      string `db:"number"`
}
