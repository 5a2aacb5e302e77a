package model

// Contact is the data structure for a person that we know.
// All fields with the exception of the Id field are optional. A nil field is stored as NULL.
type Contact struct {
	Id          int64   `json:"id"                   db:"id"`
	FirstName   *string `json:"first_name,omitempty" db:"first_name"`
	LastName    *string `json:"last_name,omitempty"  db:"last_name"`
	DateOfBirth *string `json:"dob,omitempty"        db:"dob"`
	HomePhone   *string `json:"home_phone,omitempty" db:"home_phone"`
	CellPhone   *string `json:"cell_phone,omitempty" db:"cell_phone"`
	Email       *string `json:"email,omitempty"      db:"email"`
	Address     *string `json:"address,omitempty"    db:"address"`
}

// Optional returns a pointer to s, or nil if s is empty. It turns blank user input into a NULL
// column value.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value returns the string behind p, or the empty string for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
