// Package addressbook keeps contact records under their names and offers paging, searching and
// persistence to a file.
//
// An AddressBook is not safe for concurrent use.
package addressbook

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
)

// DefaultPageSize is the number of records per page if the caller has no preference.
const DefaultPageSize = 5

// AddressBook maps contact names to records. Every key equals the name of its record. Records
// are iterated in the order their names were first added.
type AddressBook struct {
	names   []string
	records map[string]*contacts.Record
}

// New returns an empty address book.
func New() *AddressBook {
	return &AddressBook{records: make(map[string]*contacts.Record)}
}

// Clone returns a deep copy of the address book, records included.
func (b *AddressBook) Clone() *AddressBook {
	clone := &AddressBook{
		names:   slices.Clone(b.names),
		records: make(map[string]*contacts.Record, len(b.records)),
	}
	for name, r := range b.records {
		clone.records[name] = r.Clone()
	}
	return clone
}

// AddRecord stores the record under its name. A record already stored under that name is
// replaced and keeps its position in the iteration order.
func (b *AddressBook) AddRecord(r *contacts.Record) {
	name := r.Name().Value()
	if _, ok := b.records[name]; !ok {
		b.names = append(b.names, name)
	}
	b.records[name] = r
}

// Find returns the record stored under exactly this name.
func (b *AddressBook) Find(name string) (*contacts.Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under this name. Nothing happens if there is none.
func (b *AddressBook) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	b.names = slices.DeleteFunc(b.names, func(n string) bool { return n == name })
}

// Len returns the number of records.
func (b *AddressBook) Len() int {
	return len(b.names)
}

// Names returns the names of all records in iteration order.
func (b *AddressBook) Names() []string {
	return slices.Clone(b.names)
}

// Records returns all records in iteration order.
func (b *AddressBook) Records() []*contacts.Record {
	records := make([]*contacts.Record, 0, len(b.names))
	for _, name := range b.names {
		records = append(records, b.records[name])
	}
	return records
}

// Search returns all records whose name or any of whose phone numbers contains query. The match
// is case-sensitive. The result is empty, never nil, when nothing matches.
func (b *AddressBook) Search(query string) []*contacts.Record {
	return b.filter(func(r *contacts.Record) bool { return r.Matches(query) })
}

// BirthdaysOn returns all records whose birthday falls on the given month and day, regardless of
// the year.
func (b *AddressBook) BirthdaysOn(month time.Month, day int) []*contacts.Record {
	return b.filter(func(r *contacts.Record) bool {
		bday, ok := r.Birthday()
		return ok && bday.Value().Month() == month && bday.Value().Day() == day
	})
}

// UpcomingBirthdays returns the records whose next birthday is at most days days after the
// calendar date of now. The closest birthday comes first; ties are ordered by name.
func (b *AddressBook) UpcomingBirthdays(now time.Time, days int) ([]*contacts.Record, error) {
	if days < 0 {
		return nil, fmt.Errorf("number of days %d is negative: %w", days, contacts.ErrInvalidArgument)
	}
	remaining := make(map[string]int)
	upcoming := b.filter(func(r *contacts.Record) bool {
		d, ok := r.DaysToBirthdayFrom(now)
		if ok && d <= days {
			remaining[r.Name().Value()] = d
			return true
		}
		return false
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		di, dj := remaining[upcoming[i].Name().Value()], remaining[upcoming[j].Name().Value()]
		if di != dj {
			return di < dj
		}
		return upcoming[i].Name().Value() < upcoming[j].Name().Value()
	})
	return upcoming, nil
}

// filter returns the records in iteration order for which keep returns true.
func (b *AddressBook) filter(keep func(*contacts.Record) bool) []*contacts.Record {
	result := []*contacts.Record{}
	for _, name := range b.names {
		if r := b.records[name]; keep(r) {
			result = append(result, r)
		}
	}
	return result
}
