package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/abook/internal/model"
	"gitlab.com/dirk.krummacker/abook/internal/store"
)

// Contacts is the part of the store the actions need.
type Contacts interface {
	Search(field store.Field, value string) ([]model.Contact, error)
	Get(id int64) (model.Contact, error)
	Add(c model.Contact) (int64, error)
	Modify(id int64, c model.Contact) error
	Delete(id int64) error
}

// ParseQuery splits a FIELD:QUERY search argument at the first colon, so the query itself may
// contain colons.
func ParseQuery(arg string) (store.Field, string, error) {
	name, query, found := strings.Cut(arg, ":")
	if !found {
		return 0, "", fmt.Errorf("invalid search %q: expected FIELD:QUERY", arg)
	}
	field, err := store.ParseField(name)
	if err != nil {
		return 0, "", err
	}
	return field, query, nil
}

// runSearch shows the first contact matching the query, or all of them with --all.
func runSearch(cmd *cobra.Command, opts *Options, s Contacts, field store.Field, query string) error {
	opts.logger.Printf("searching %s = %q", field, query)
	contacts, err := s.Search(field, query)
	if err != nil {
		return failure("searching contacts", err)
	}
	opts.logger.Printf("%d match(es)", len(contacts))
	if !opts.All && len(contacts) > 1 {
		contacts = contacts[:1]
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if contacts == nil {
			contacts = []model.Contact{}
		}
		return writeJSON(out, contacts)
	}
	if len(contacts) == 0 {
		fmt.Fprintln(out, "Contact not found")
		return nil
	}
	writeContacts(out, contacts)
	return nil
}

// runAdd prompts for the fields missing from the command line and stores a new contact.
func runAdd(cmd *cobra.Command, opts *Options, s Contacts) error {
	c, err := collectContact(cmd, opts, &opts.Add)
	if err != nil {
		return failure("reading contact", err)
	}
	id, err := s.Add(c)
	if err != nil {
		return failure("adding contact", err)
	}
	c.Id = id
	opts.logger.Printf("added contact %d", id)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), c)
	}
	if name := displayName(c); name != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Added contact %s (id %d)\n", name, id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Added contact (id %d)\n", id)
	}
	return nil
}

// runModify prompts for all seven fields and overwrites the contact with them.
func runModify(cmd *cobra.Command, opts *Options, s Contacts) error {
	id := opts.Modify
	c, err := collectContact(cmd, opts, nil)
	if err != nil {
		return failure("reading contact", err)
	}
	if err := s.Modify(id, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(id)
		}
		return failure("modifying contact", err)
	}
	opts.logger.Printf("modified contact %d", id)

	if opts.Format == "json" {
		modified, err := s.Get(id)
		if err != nil {
			return failure("reading modified contact", err)
		}
		return writeJSON(cmd.OutOrStdout(), modified)
	}
	if name := displayName(c); name != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Modified contact %s\n", name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Modified contact %d\n", id)
	}
	return nil
}

// runDelete removes a contact.
func runDelete(cmd *cobra.Command, opts *Options, s Contacts) error {
	id := opts.Delete
	if err := s.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(id)
		}
		return failure("deleting contact", err)
	}
	opts.logger.Printf("deleted contact %d", id)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), StatusResponse{Status: "deleted", ID: id})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Deleted contact")
	return nil
}

// runGet shows a single contact by id.
func runGet(cmd *cobra.Command, opts *Options, s Contacts) error {
	id := opts.Get
	c, err := s.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(id)
		}
		return failure("finding contact", err)
	}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), c)
	}
	writeContact(cmd.OutOrStdout(), c)
	return nil
}
