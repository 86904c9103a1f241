package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/addressbook/pkg/addressbook"
	"gitlab.com/dirk.krummacker/addressbook/pkg/contacts"
)

// createMockStore builds a store on top of a mock database and a mock object for defining our
// expected SQL calls.
func createMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return New(sqlx.NewDb(db, "mysql")), mock
}

// createBook builds an address book with two contacts, one of them without birthday.
func createBook(t *testing.T) *addressbook.AddressBook {
	book := addressbook.New()
	erika, err := contacts.NewRecord("Erika Mustermann", "1969-03-02")
	require.NoError(t, err)
	require.NoError(t, erika.AddPhone("0815471100"))
	require.NoError(t, erika.AddPhone("0815471101"))
	book.AddRecord(erika)
	rudi, err := contacts.NewRecord("Rudi Völler", "")
	require.NoError(t, err)
	require.NoError(t, rudi.AddPhone("1234567890"))
	book.AddRecord(rudi)
	return book
}

// TestDSN checks the connection string for a MySQL server.
func TestDSN(t *testing.T) {
	dsn := DSN("localhost:3306", "dirk", "secret", "test")
	assert.Equal(t, "dirk:secret@tcp(localhost:3306)/test?parseTime=true", dsn)
}

// TestMigrate expects that both tables are created.
func TestMigrate(t *testing.T) {
	store, mock := createMockStore(t)
	defer store.Close()

	// Define expectations on SQL statements
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts .*name +VARCHAR\\(255\\) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS phones .*contact_name +VARCHAR\\(255\\) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSave expects that the tables are emptied and every contact and phone is inserted with its
// position in one transaction.
func TestSave(t *testing.T) {
	store, mock := createMockStore(t)
	defer store.Close()

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM phones").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM contacts").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Erika Mustermann", 0, time.Date(1969, time.March, 2, 0, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO phones").
		WithArgs("Erika Mustermann", 0, "0815471100").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO phones").
		WithArgs("Erika Mustermann", 1, "0815471101").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Rudi Völler", 1, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO phones").
		WithArgs("Rudi Völler", 0, "1234567890").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), createBook(t)))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSaveNamesDifferingInCase expects that names which differ only in case or accents are
// stored as separate contacts.
func TestSaveNamesDifferingInCase(t *testing.T) {
	store, mock := createMockStore(t)
	defer store.Close()

	book := addressbook.New()
	for _, name := range []string{"Ann", "ann", "Rudi Völler", "Rudi Voller"} {
		record, err := contacts.NewRecord(name, "")
		require.NoError(t, err)
		book.AddRecord(record)
	}

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM phones").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	for i, name := range book.Names() {
		mock.ExpectExec("INSERT INTO contacts").
			WithArgs(name, i, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), book))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSaveNameTooLong expects that a name longer than the name column is rejected before the
// database is touched.
func TestSaveNameTooLong(t *testing.T) {
	store, mock := createMockStore(t)
	defer store.Close()

	book := addressbook.New()
	record, err := contacts.NewRecord(strings.Repeat("ö", 256), "")
	require.NoError(t, err)
	book.AddRecord(record)

	err = store.Save(context.Background(), book)
	assert.ErrorIs(t, err, contacts.ErrInvalidArgument)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}

	// exactly 255 characters fit
	store, mock = createMockStore(t)
	defer store.Close()
	book = addressbook.New()
	record, err = contacts.NewRecord(strings.Repeat("ö", 255), "")
	require.NoError(t, err)
	book.AddRecord(record)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM phones").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, store.Save(context.Background(), book))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestSaveRollback expects that a failing insert rolls the transaction back.
func TestSaveRollback(t *testing.T) {
	store, mock := createMockStore(t)
	defer store.Close()

	// Define expectations on SQL statements
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM phones").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.Save(context.Background(), createBook(t))
	assert.ErrorContains(t, err, "disk full")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestLoad expects that contacts and phones are read back in their stored order.
func TestLoad(t *testing.T) {
	store, mock := createMockStore(t)
	defer store.Close()

	// Define expectations on SQL statements
	mock.ExpectQuery("SELECT name, position, birthday FROM contacts").
		WillReturnRows(mock.NewRows([]string{"name", "position", "birthday"}).
			AddRow("Erika Mustermann", 0, time.Date(1969, time.March, 2, 0, 0, 0, 0, time.UTC)).
			AddRow("Rudi Völler", 1, nil))
	mock.ExpectQuery("SELECT contact_name, position, number FROM phones").
		WillReturnRows(mock.NewRows([]string{"contact_name", "position", "number"}).
			AddRow("Erika Mustermann", 0, "0815471100").
			AddRow("Erika Mustermann", 1, "0815471101").
			AddRow("Rudi Völler", 0, "1234567890"))

	book, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Erika Mustermann", "Rudi Völler"}, book.Names())
	erika, _ := book.Find("Erika Mustermann")
	assert.Equal(t, "Contact name: Erika Mustermann, phones: 0815471100; 0815471101, birthday: 1969-03-02",
		erika.String())
	rudi, _ := book.Find("Rudi Völler")
	assert.Equal(t, "Contact name: Rudi Völler, phones: 1234567890", rudi.String())
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestLoadCorruptRows expects that rows which do not form valid records are rejected.
func TestLoadCorruptRows(t *testing.T) {
	tests := []struct {
		name     string
		contacts *sqlmock.Rows
		phones   *sqlmock.Rows
	}{
		{
			name: "empty name",
			contacts: sqlmock.NewRows([]string{"name", "position", "birthday"}).
				AddRow("", 0, nil),
			phones: sqlmock.NewRows([]string{"contact_name", "position", "number"}),
		},
		{
			name: "invalid phone",
			contacts: sqlmock.NewRows([]string{"name", "position", "birthday"}).
				AddRow("Erika", 0, nil),
			phones: sqlmock.NewRows([]string{"contact_name", "position", "number"}).
				AddRow("Erika", 0, "+49 0815 4711"),
		},
		{
			name: "unknown contact",
			contacts: sqlmock.NewRows([]string{"name", "position", "birthday"}).
				AddRow("Erika", 0, nil),
			phones: sqlmock.NewRows([]string{"contact_name", "position", "number"}).
				AddRow("Rudi", 0, "1234567890"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := createMockStore(t)
			defer store.Close()

			// Define expectations on SQL statements
			mock.ExpectQuery("SELECT name, position, birthday FROM contacts").WillReturnRows(tt.contacts)
			mock.ExpectQuery("SELECT contact_name, position, number FROM phones").WillReturnRows(tt.phones)

			_, err := store.Load(context.Background())
			assert.ErrorIs(t, err, contacts.ErrCorruptData)
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}
