package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/abook/internal/model"
	"gitlab.com/dirk.krummacker/abook/internal/store"
)

// janeFlags adds the example contact without prompting.
var janeFlags = []string{
	"-a", "Jane",
	"--last-name", "Doe",
	"--dob", "1990-01-01",
	"--home-phone", "555-1000",
	"--cell-phone", "555-2000",
	"--email", "jane@x.com",
	"--address", "1 Main St",
	"--no-input",
}

// result captures one invocation of the command.
type result struct {
	code   int
	stdout string
	stderr string
}

// newDatabase isolates the configuration and returns a path for a fresh database file.
func newDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ABOOK_CONFIG", "")
	t.Setenv("ABOOK_DRIVER", "")
	t.Setenv("ABOOK_DB", "")
	t.Setenv("ABOOK_DSN", "")
	return filepath.Join(dir, "rsc", "abook.db")
}

// abook runs the command against the database file with the given standard input.
func abook(t *testing.T, db string, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(append(args, "--db", db), strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// newGoldie returns the golden file helper used by all tests of this package.
func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "abook", cmd.Use)

	shorthands := map[string]string{"search": "s", "add": "a", "modify": "m", "delete": "d", "get": "g"}
	for name, shorthand := range shorthands {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, shorthand, flag.Shorthand, name)
	}
	for _, f := range contactFields {
		assert.NotNil(t, cmd.Flags().Lookup(f.flag), f.flag)
	}
	format := cmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

// TestScenario adds Jane, finds her by name, deletes her and no longer finds her.
func TestScenario(t *testing.T) {
	db := newDatabase(t)

	r := abook(t, db, "", janeFlags...)
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Added contact Jane Doe (id 1)\n", r.stdout)

	r = abook(t, db, "", "-s", "name:Jane")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	newGoldie(t).Assert(t, "jane_text", []byte(r.stdout))

	r = abook(t, db, "", "--delete", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Deleted contact\n", r.stdout)

	r = abook(t, db, "", "--search", "name:Jane")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Contact not found\n", r.stdout)
}

// TestAddPrompts answers the six prompts that follow the first name.
func TestAddPrompts(t *testing.T) {
	db := newDatabase(t)

	r := abook(t, db, "Doe\n1990-01-01\n555-1000\n555-2000\njane@x.com\n1 Main St\n", "-a", "Jane")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Added contact Jane Doe (id 1)\n", r.stdout)
	assert.Equal(t, "Last Name: Date of Birth: Home Phone: Cell Phone: Email: Address: ", r.stderr)

	r = abook(t, db, "", "--get", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	newGoldie(t).Assert(t, "jane_text", []byte(r.stdout))
}

// TestAddPromptsOnlyForMissingFlags expects flags to replace their prompts.
func TestAddPromptsOnlyForMissingFlags(t *testing.T) {
	db := newDatabase(t)

	r := abook(t, db, "Doe\r\n", "-a", "Jane",
		"--dob", "1990-01-01", "--home-phone", "555-1000", "--cell-phone", "555-2000",
		"--email", "jane@x.com", "--address", "1 Main St")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Added contact Jane Doe (id 1)\n", r.stdout)
	assert.Equal(t, "Last Name: ", r.stderr)

	r = abook(t, db, "", "-g", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	newGoldie(t).Assert(t, "jane_text", []byte(r.stdout))
}

// TestModifyOverwritesAllFields expects empty answers to clear the old values.
func TestModifyOverwritesAllFields(t *testing.T) {
	db := newDatabase(t)
	require.Equal(t, ExitSuccess, abook(t, db, "", janeFlags...).code)

	r := abook(t, db, "Janet\n\n\n\n555-3000\n\n\n", "-m", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Modified contact Janet\n", r.stdout)

	r = abook(t, db, "", "-g", "1")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	newGoldie(t).Assert(t, "janet_text", []byte(r.stdout))

	r = abook(t, db, "", "-s", "phone:555-1000")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Contact not found\n", r.stdout)
}

// TestModifyJSON expects the stored record to be echoed.
func TestModifyJSON(t *testing.T) {
	db := newDatabase(t)
	require.Equal(t, ExitSuccess, abook(t, db, "", janeFlags...).code)

	r := abook(t, db, "", "-m", "1", "--first-name", "Janet", "--cell-phone", "555-3000",
		"--no-input", "--format", "json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.JSONEq(t, `{"id": 1, "first_name": "Janet", "cell_phone": "555-3000"}`, r.stdout)
}

// TestModifyJSONWithPrompts expects the prompts to stay off stdout so that it holds only the
// JSON document.
func TestModifyJSONWithPrompts(t *testing.T) {
	db := newDatabase(t)
	require.Equal(t, ExitSuccess, abook(t, db, "", janeFlags...).code)

	r := abook(t, db, "Janet\nDoe\n\n\n555-3000\n\n\n", "-m", "1", "--format", "json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.JSONEq(t, `{"id": 1, "first_name": "Janet", "last_name": "Doe", "cell_phone": "555-3000"}`, r.stdout)
	assert.Contains(t, r.stderr, "First Name: ")

	r = abook(t, db, "Erika\n\n\n\n\n\n", "-a", "", "--format", "json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.JSONEq(t, `{"id": 2, "last_name": "Erika"}`, r.stdout)
}

// TestAddEmptyFirstName expects an empty --add argument to be stored as NULL.
func TestAddEmptyFirstName(t *testing.T) {
	db := newDatabase(t)

	r := abook(t, db, "", "-a", "", "--no-input")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Added contact (id 1)\n", r.stdout)

	r = abook(t, db, "", "-g", "1", "--format", "json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.JSONEq(t, `{"id": 1}`, r.stdout)

	r = abook(t, db, "", "-m", "1", "--no-input")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "Modified contact 1\n", r.stdout)
}

// TestNotFound expects modify, delete and get of an unknown id to exit with ExitNotFound.
func TestNotFound(t *testing.T) {
	db := newDatabase(t)

	for _, args := range [][]string{
		{"-m", "5", "--no-input"},
		{"-d", "5"},
		{"-g", "5"},
	} {
		r := abook(t, db, "", args...)
		assert.Equal(t, ExitNotFound, r.code, args)
		assert.Equal(t, "[E] contact 5 not found\n", r.stderr, args)
	}
}

// TestSearchAll expects every match with --all and only the first one without.
func TestSearchAll(t *testing.T) {
	db := newDatabase(t)
	require.Equal(t, ExitSuccess, abook(t, db, "", janeFlags...).code)
	require.Equal(t, ExitSuccess, abook(t, db, "", "-a", "Jane", "--email", "other@x.com", "--no-input").code)

	r := abook(t, db, "", "-s", "name:Jane")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, 1, strings.Count(r.stdout, "Contact ID:"))
	assert.Contains(t, r.stdout, "Contact ID: 1\n")

	r = abook(t, db, "", "-s", "name:Jane", "--all")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, 2, strings.Count(r.stdout, "Contact ID:"))
	assert.Contains(t, r.stdout, "Address: 1 Main St\n\nContact ID: 2\n")
}

// TestSearchJSON compares the JSON rendering against the golden file.
func TestSearchJSON(t *testing.T) {
	db := newDatabase(t)
	require.Equal(t, ExitSuccess, abook(t, db, "", janeFlags...).code)

	r := abook(t, db, "", "-s", "email:jane@x.com", "--format", "json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	newGoldie(t).Assert(t, "jane_json", []byte(r.stdout))

	r = abook(t, db, "", "-s", "email:nobody@x.com", "--format", "json")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "[]\n", r.stdout)
}

// TestInvalidArguments expects malformed input to be reported with ExitFailure.
func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"unsupported field", []string{"-s", "address:1 Main St"}, "unsupported search field"},
		{"missing colon", []string{"-s", "Jane"}, "expected FIELD:QUERY"},
		{"non numeric id", []string{"-d", "abc"}, "invalid argument"},
		{"two actions", []string{"-d", "1", "-m", "2"}, "none of the others can be"},
		{"positional argument", []string{"Jane"}, "unknown command"},
		{"unknown flag", []string{"--frobnicate"}, "unknown flag"},
		{"invalid format", []string{"-d", "1", "--format", "xml"}, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDatabase(t)
			r := abook(t, db, "", tt.args...)
			assert.Equal(t, ExitFailure, r.code)
			assert.True(t, strings.HasPrefix(r.stderr, "[E] "), r.stderr)
			assert.Contains(t, r.stderr, tt.stderr)
		})
	}
}

// TestVersion expects the static version text.
func TestVersion(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		r := abook(t, newDatabase(t), "", flag)
		assert.Equal(t, ExitSuccess, r.code)
		assert.Equal(t, "ABook\nVersion "+Version+"\n", r.stdout)
	}
}

// TestHelp expects the usage to list the action flags.
func TestHelp(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {}} {
		r := abook(t, newDatabase(t), "", args...)
		assert.Equal(t, ExitSuccess, r.code)
		assert.Contains(t, r.stdout, "-s, --search string")
		assert.Contains(t, r.stdout, "blank fields are stored as NULL and never match")
		assert.Contains(t, r.stdout, "-a, --add string")
		assert.Contains(t, r.stdout, "-m, --modify int")
		assert.Contains(t, r.stdout, "-d, --delete int")
	}
}

// TestVerbose expects database activity on stderr.
func TestVerbose(t *testing.T) {
	db := newDatabase(t)

	r := abook(t, db, "", "-s", "name:Jane", "--verbose")
	require.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stderr, "abook: opening sqlite database "+db)
	assert.Contains(t, r.stderr, `abook: searching name = "Jane"`)
}

func TestParseQuery(t *testing.T) {
	field, query, err := ParseQuery("email:jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, store.FieldEmail, field)
	assert.Equal(t, "jane@x.com", query)

	field, query, err = ParseQuery("name:a:b")
	require.NoError(t, err)
	assert.Equal(t, store.FieldName, field)
	assert.Equal(t, "a:b", query)

	_, _, err = ParseQuery("fax:123")
	assert.True(t, errors.Is(err, store.ErrUnsupportedField))
}

// TestWriteContactNulls renders a contact that only has a first name.
func TestWriteContactNulls(t *testing.T) {
	var buf bytes.Buffer
	writeContact(&buf, model.Contact{Id: 3, FirstName: model.Optional("Erika")})
	newGoldie(t).Assert(t, "erika_text", buf.Bytes())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", displayName(model.Contact{FirstName: model.Optional("Jane"), LastName: model.Optional("Doe")}))
	assert.Equal(t, "Jane", displayName(model.Contact{FirstName: model.Optional("Jane")}))
	assert.Equal(t, "Doe", displayName(model.Contact{LastName: model.Optional("Doe")}))
	assert.Equal(t, "", displayName(model.Contact{}))
}
