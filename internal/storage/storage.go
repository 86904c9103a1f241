// Package storage mirrors a whole address book into a MySQL database.
package storage

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
	"gitlab.com/dirk.krummacker/addressbook/pkg/addressbook"
	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
)

// maxNameLength is the number of characters the name columns can hold.
const maxNameLength = 255

// Schema creates the tables used by Store. Names are compared byte by byte, like the keys of an
// address book, so "Ann" and "ann" are different contacts.
var Schema = []string{`
	CREATE TABLE IF NOT EXISTS contacts (
		name     VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
		position INT          NOT NULL,
		birthday DATE         NULL
	)`, `
	CREATE TABLE IF NOT EXISTS phones (
		contact_name VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		position     INT          NOT NULL,
		number       CHAR(10)     NOT NULL,
		PRIMARY KEY (contact_name, position),
		FOREIGN KEY (contact_name) REFERENCES contacts (name) ON DELETE CASCADE
	)`,
}

// Store saves and loads address books.
type Store struct {
	db *sqlx.DB
}

// DSN builds the connection string for the MySQL server at host.
func DSN(host string, user string, password string, dbName string) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.User = user
	cfg.Passwd = password
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// Open connects to the MySQL database described by dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return New(db), nil
}

// New wraps an existing database handle. The handle can be a real database for production use or a
// mock database within unit tests.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}
	return nil
}

// Save replaces the stored address book with book in a single transaction. Names longer than the
// name columns allow are rejected with ErrInvalidArgument before anything is changed.
func (s *Store) Save(ctx context.Context, book *addressbook.AddressBook) error {
	for _, name := range book.Names() {
		if utf8.RuneCountInString(name) > maxNameLength {
			return fmt.Errorf("name starting with %.20q is longer than %d characters: %w",
				name, maxNameLength, contacts.ErrInvalidArgument)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Phones go first because of the foreign key.
	if _, err := tx.ExecContext(ctx, "DELETE FROM phones"); err != nil {
		return fmt.Errorf("deleting phones: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return fmt.Errorf("deleting contacts: %w", err)
	}
	for i, record := range book.Records() {
		row := model.ContactRow{Name: record.Name().Value(), Position: i}
		if b, ok := record.Birthday(); ok {
			date := b.Value()
			row.Birthday = &date
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO contacts (name, position, birthday)
			VALUES (:name, :position, :birthday)
		`, row); err != nil {
			return fmt.Errorf("inserting contact %q: %w", row.Name, err)
		}
		for j, phone := range record.Phones() {
			phoneRow := model.PhoneRow{ContactName: row.Name, Position: j, Number: phone.Value()}
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO phones (contact_name, position, number)
				VALUES (:contact_name, :position, :number)
			`, phoneRow); err != nil {
				return fmt.Errorf("inserting phone of %q: %w", row.Name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Load reads the stored address book. Rows that do not form valid records are reported as
// ErrCorruptData.
func (s *Store) Load(ctx context.Context) (*addressbook.AddressBook, error) {
	var contactRows []model.ContactRow
	err := s.db.SelectContext(ctx, &contactRows,
		"SELECT name, position, birthday FROM contacts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("selecting contacts: %w", err)
	}
	var phoneRows []model.PhoneRow
	err = s.db.SelectContext(ctx, &phoneRows,
		"SELECT contact_name, position, number FROM phones ORDER BY contact_name, position")
	if err != nil {
		return nil, fmt.Errorf("selecting phones: %w", err)
	}

	book := addressbook.New()
	for _, row := range contactRows {
		record, err := contacts.NewRecord(row.Name, "")
		if err != nil {
			return nil, fmt.Errorf("%w: contact %q: %w", contacts.ErrCorruptData, row.Name, err)
		}
		if row.Birthday != nil {
			if err := record.SetBirthday(row.Birthday.Format(contacts.BirthdayLayout)); err != nil {
				return nil, fmt.Errorf("%w: contact %q: %w", contacts.ErrCorruptData, row.Name, err)
			}
		}
		book.AddRecord(record)
	}
	for _, row := range phoneRows {
		record, ok := book.Find(row.ContactName)
		if !ok {
			return nil, fmt.Errorf("%w: phone %q belongs to unknown contact %q",
				contacts.ErrCorruptData, row.Number, row.ContactName)
		}
		if err := record.AddPhone(row.Number); err != nil {
			return nil, fmt.Errorf("%w: contact %q: %w", contacts.ErrCorruptData, row.ContactName, err)
		}
	}
	return book, nil
}
