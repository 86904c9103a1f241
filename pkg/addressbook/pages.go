package addressbook

import (
	"fmt"

	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
)

// Pages is a single-pass cursor over an address book that hands out records in batches. It works
// on the names the book held when the cursor was created. Changing the book while paging has
// undefined effect on the content of later pages.
type Pages struct {
	book  *AddressBook
	names []string
	size  int
}

// Pages returns a cursor that yields pages of at most size records. Size must be at least one.
func (b *AddressBook) Pages(size int) (*Pages, error) {
	if size < 1 {
		return nil, fmt.Errorf("page size %d is not positive: %w", size, contacts.ErrInvalidArgument)
	}
	return &Pages{book: b, names: b.Names(), size: size}, nil
}

// Next returns the next page and true, or false once all records have been handed out. Only the
// last page may hold fewer than size records.
func (p *Pages) Next() ([]*contacts.Record, bool) {
	var page []*contacts.Record
	for len(p.names) > 0 && len(page) < p.size {
		name := p.names[0]
		p.names = p.names[1:]
		if r, ok := p.book.Find(name); ok {
			page = append(page, r)
		}
	}
	if len(page) == 0 {
		return nil, false
	}
	return page, true
}

// Skip discards the next n pages. It returns false if there were fewer than n pages left.
func (p *Pages) Skip(n int) bool {
	for i := 0; i < n; i++ {
		if _, ok := p.Next(); !ok {
			return false
		}
	}
	return true
}
