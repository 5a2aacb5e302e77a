package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gitlab.com/dirk.krummacker/abook/internal/model"
)

// Exit codes of the abook command.
const (
	ExitSuccess  = 0 // Success, including a search without matches
	ExitFailure  = 1 // Invalid arguments, unreachable database, failed statement
	ExitNotFound = 2 // Modify, delete or get of an id without contact
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// failure wraps err into an ExitError with the general failure code.
func failure(message string, err error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: message, Err: err}
}

// notFound reports that no contact has the given id.
func notFound(id int64) *ExitError {
	return &ExitError{Code: ExitNotFound, Message: fmt.Sprintf("contact %d not found", id)}
}

// StatusResponse is the JSON answer of commands that do not return a contact.
type StatusResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// writeJSON writes a value as formatted JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeContact writes the id and the seven fields of a contact, one per line. NULL values are
// written as empty strings.
func writeContact(w io.Writer, c model.Contact) {
	fmt.Fprintf(w, "Contact ID: %d\n", c.Id)
	fmt.Fprintf(w, "First Name: %s\n", model.Value(c.FirstName))
	fmt.Fprintf(w, "Last Name: %s\n", model.Value(c.LastName))
	fmt.Fprintf(w, "Date of Birth: %s\n", model.Value(c.DateOfBirth))
	fmt.Fprintf(w, "Home Phone: %s\n", model.Value(c.HomePhone))
	fmt.Fprintf(w, "Cell Phone: %s\n", model.Value(c.CellPhone))
	fmt.Fprintf(w, "Email: %s\n", model.Value(c.Email))
	fmt.Fprintf(w, "Address: %s\n", model.Value(c.Address))
}

// writeContacts writes several contacts separated by blank lines.
func writeContacts(w io.Writer, contacts []model.Contact) {
	for i, c := range contacts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeContact(w, c)
	}
}

// displayName joins first and last name for confirmation messages.
func displayName(c model.Contact) string {
	first, last := model.Value(c.FirstName), model.Value(c.LastName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
