package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/abook/internal/model"
)

// contactField ties a contact attribute to its command line flag and its interactive prompt.
type contactField struct {
	flag   string
	prompt string
	usage  string
	set    func(c *model.Contact, v *string)
}

// contactFields lists the seven editable fields in prompt order.
var contactFields = []contactField{
	{"first-name", "First Name", "first name", func(c *model.Contact, v *string) { c.FirstName = v }},
	{"last-name", "Last Name", "last name", func(c *model.Contact, v *string) { c.LastName = v }},
	{"dob", "Date of Birth", "date of birth (free-form)", func(c *model.Contact, v *string) { c.DateOfBirth = v }},
	{"home-phone", "Home Phone", "home phone number", func(c *model.Contact, v *string) { c.HomePhone = v }},
	{"cell-phone", "Cell Phone", "cell phone number", func(c *model.Contact, v *string) { c.CellPhone = v }},
	{"email", "Email", "email address", func(c *model.Contact, v *string) { c.Email = v }},
	{"address", "Address", "postal address (free-form)", func(c *model.Contact, v *string) { c.Address = v }},
}

// prompter asks for field values on an interactive terminal. Prompts go to stderr so that stdout
// only carries the result.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask writes the label and reads one line. The line ending is removed; an exhausted input
// yields the empty string.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// collectContact fills a contact from the field flags, prompting for every field whose flag was
// not given. The first name can be supplied up front (the argument of --add). Empty answers
// become NULL.
func collectContact(cmd *cobra.Command, opts *Options, firstName *string) (model.Contact, error) {
	var c model.Contact
	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	for _, f := range contactFields {
		if f.flag == "first-name" && firstName != nil {
			f.set(&c, model.Optional(*firstName))
			continue
		}
		if cmd.Flags().Changed(f.flag) {
			f.set(&c, model.Optional(*opts.fields[f.flag]))
			continue
		}
		if opts.NoInput {
			continue
		}
		answer, err := p.ask(f.prompt)
		if err != nil {
			return model.Contact{}, fmt.Errorf("reading %s: %w", f.usage, err)
		}
		f.set(&c, model.Optional(answer))
	}
	return c, nil
}
