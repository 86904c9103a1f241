package addressbook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
	"gitlab.com/dirk.krummacker/addressbook/pkg/model"
)

// document is the content of an address book file. Contacts are listed in iteration order.
//
// Example:
//
//	{"contacts": [{"name": "Ann", "phones": ["0123456789"], "birthday": "1990-05-01"}]}
type document struct {
	Contacts *[]model.Contact `json:"contacts"`
}

// WriteTo encodes the whole address book as JSON.
func (b *AddressBook) WriteTo(w io.Writer) (int64, error) {
	list := make([]model.Contact, 0, b.Len())
	for _, r := range b.Records() {
		list = append(list, model.FromRecord(r))
	}
	doc := document{Contacts: &list}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// Decode reads an address book written by WriteTo. Any problem with the data is reported as
// ErrCorruptData: a missing "contacts" list, unknown keys, trailing data after the document, or
// two contacts with the same name.
func Decode(r io.Reader) (*AddressBook, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", contacts.ErrCorruptData, err)
	}
	if doc.Contacts == nil {
		return nil, fmt.Errorf("%w: no contacts list", contacts.ErrCorruptData)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the contacts list", contacts.ErrCorruptData)
	}
	book := New()
	for i, c := range *doc.Contacts {
		record, err := c.ToRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: contact %d: %w", contacts.ErrCorruptData, i, err)
		}
		if _, exists := book.Find(c.Name); exists {
			return nil, fmt.Errorf("%w: contact %q is listed twice", contacts.ErrCorruptData, c.Name)
		}
		book.AddRecord(record)
	}
	return book, nil
}

// WriteToFile stores the whole address book in the file at path, replacing any existing file.
// The data is written to a temporary file in the same directory first and then renamed, so the
// file at path is either the old or the new version.
func (b *AddressBook) WriteToFile(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = b.WriteTo(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFromFile restores an address book from a file written by WriteToFile. A file that cannot be
// opened or decoded is reported as ErrCorruptData; the underlying error stays available to
// errors.Is, e.g. for os.ErrNotExist.
func ReadFromFile(path string) (*AddressBook, error) {
	file, err := os.Open(path) // nosemgrep
	if err != nil {
		return nil, fmt.Errorf("%w: %w", contacts.ErrCorruptData, err)
	}
	defer file.Close()
	return Decode(file)
}
