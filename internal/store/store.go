// Package store persists contacts in a single relational table.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/abook/internal/model"
)

// ErrNotFound is returned when no contact has the requested id.
var ErrNotFound = errors.New("contact not found")

// columns is the select list shared by all queries.
const columns = `id, first_name, last_name, dob, home_phone, cell_phone, email, address`

// Store is the sole owner of the database handle and the statements prepared on it.
type Store struct {
	db      *sqlx.DB
	dialect dialect

	// insert is a prepared statement for creating a contact.
	insert *sqlx.NamedStmt
	// update is a prepared statement for overwriting all fields of a contact.
	update *sqlx.NamedStmt
	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt
	// selectWhereName matches the first or the last name.
	selectWhereName *sqlx.Stmt
	// selectWherePhone matches the home or the cell phone number.
	selectWherePhone *sqlx.Stmt
	// selectWhereEmail matches the email address.
	selectWhereEmail *sqlx.Stmt
	// deleteWhereId is a prepared statement for deleting the contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// New initializes the sqlx database wrapper with the specified sql database, creates the schema
// and prepares all statements. The database argument can be a real database for production use
// or a mock database within unit tests. The driver is one of the names in package config.
func New(sqlDB *sql.DB, driver string) (*Store, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	db := sqlx.NewDb(sqlDB, d.bindName)
	if err := applySchema(db, d); err != nil {
		return nil, err
	}

	s := &Store{db: db, dialect: d}
	if err := s.prepare(); err != nil {
		s.closeStatements()
		return nil, err
	}
	return s, nil
}

// prepare prepares every statement the store executes.
func (s *Store) prepare() error {
	var err error
	insertSQL := `
		INSERT INTO contacts (first_name, last_name, dob, home_phone, cell_phone, email, address)
		VALUES (:first_name, :last_name, :dob, :home_phone, :cell_phone, :email, :address)`
	if s.dialect.returning {
		insertSQL += ` RETURNING id`
	}
	if s.insert, err = s.db.PrepareNamed(insertSQL); err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	if s.update, err = s.db.PrepareNamed(`
		UPDATE contacts SET
			first_name = :first_name,
			last_name = :last_name,
			dob = :dob,
			home_phone = :home_phone,
			cell_phone = :cell_phone,
			email = :email,
			address = :address
		WHERE id = :id`); err != nil {
		return fmt.Errorf("preparing update: %w", err)
	}
	if s.selectWhereId, err = s.preparex(`
		SELECT ` + columns + ` FROM contacts WHERE id = ?`); err != nil {
		return fmt.Errorf("preparing select by id: %w", err)
	}
	if s.selectWhereName, err = s.preparex(`
		SELECT ` + columns + ` FROM contacts WHERE first_name = ? OR last_name = ? ORDER BY id`); err != nil {
		return fmt.Errorf("preparing name search: %w", err)
	}
	if s.selectWherePhone, err = s.preparex(`
		SELECT ` + columns + ` FROM contacts WHERE home_phone = ? OR cell_phone = ? ORDER BY id`); err != nil {
		return fmt.Errorf("preparing phone search: %w", err)
	}
	if s.selectWhereEmail, err = s.preparex(`
		SELECT ` + columns + ` FROM contacts WHERE email = ? ORDER BY id`); err != nil {
		return fmt.Errorf("preparing email search: %w", err)
	}
	if s.deleteWhereId, err = s.preparex(`
		DELETE FROM contacts WHERE id = ?`); err != nil {
		return fmt.Errorf("preparing delete: %w", err)
	}
	return nil
}

// preparex rebinds the query to the dialect's bindvar style and prepares it.
func (s *Store) preparex(query string) (*sqlx.Stmt, error) {
	return s.db.Preparex(s.db.Rebind(query))
}

// Search returns all contacts whose field equals value, in insertion order. The name field
// matches the first or the last name, the phone field the home or the cell phone. Matching is
// exact and case-sensitive. No match is not an error; the result is then empty.
func (s *Store) Search(field Field, value string) ([]model.Contact, error) {
	var stmt *sqlx.Stmt
	var args []interface{}
	switch field {
	case FieldName:
		stmt, args = s.selectWhereName, []interface{}{value, value}
	case FieldPhone:
		stmt, args = s.selectWherePhone, []interface{}{value, value}
	case FieldEmail:
		stmt, args = s.selectWhereEmail, []interface{}{value}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedField, field)
	}

	var contacts []model.Contact
	if err := stmt.Select(&contacts, args...); err != nil {
		return nil, fmt.Errorf("searching contacts by %s: %w", field, err)
	}
	return contacts, nil
}

// Get returns the contact with the given id.
func (s *Store) Get(id int64) (model.Contact, error) {
	var contacts []model.Contact
	if err := s.selectWhereId.Select(&contacts, id); err != nil {
		return model.Contact{}, fmt.Errorf("finding contact %d: %w", id, err)
	}
	if len(contacts) == 0 {
		return model.Contact{}, fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	return contacts[0], nil
}

// Add inserts the contact and returns the id the database assigned to it. The Id field of the
// argument is ignored. The store does not require any field to be set.
func (s *Store) Add(c model.Contact) (int64, error) {
	if s.dialect.returning {
		var id int64
		if err := s.insert.QueryRowx(&c).Scan(&id); err != nil {
			return 0, fmt.Errorf("adding contact: %w", err)
		}
		return id, nil
	}
	result, err := s.insert.Exec(&c)
	if err != nil {
		return 0, fmt.Errorf("adding contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new contact id: %w", err)
	}
	return id, nil
}

// Modify replaces all fields of the contact with the given id by the fields of c. Fields that are
// nil in c become NULL; nothing is kept from the previous version. The Id field of c is ignored.
func (s *Store) Modify(id int64, c model.Contact) error {
	c.Id = id
	result, err := s.update.Exec(&c)
	if err != nil {
		return fmt.Errorf("modifying contact %d: %w", id, err)
	}
	return checkAffected(result, id)
}

// Delete removes the contact with the given id.
func (s *Store) Delete(id int64) error {
	result, err := s.deleteWhereId.Exec(id)
	if err != nil {
		return fmt.Errorf("deleting contact %d: %w", id, err)
	}
	return checkAffected(result, id)
}

// checkAffected turns a statement that touched no row into ErrNotFound.
func checkAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	return nil
}

// Ping verifies that the database is still reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close releases the prepared statements and the database connection.
func (s *Store) Close() error {
	s.closeStatements()
	return s.db.Close()
}

// closeStatements closes every statement that was prepared successfully.
func (s *Store) closeStatements() {
	if s.insert != nil {
		s.insert.Close()
	}
	if s.update != nil {
		s.update.Close()
	}
	for _, stmt := range []*sqlx.Stmt{
		s.selectWhereId, s.selectWhereName, s.selectWherePhone, s.selectWhereEmail, s.deleteWhereId,
	} {
		if stmt != nil {
			stmt.Close()
		}
	}
}
