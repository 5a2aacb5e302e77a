// Package cli implements the abook command line: argument parsing, interactive prompts, output
// formatting and exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/abook/internal/config"
	"gitlab.com/dirk.krummacker/abook/internal/store"
)

// Version is set at build time via ldflags
var Version = "0.2"

// actionFlags are the mutually exclusive flags that select what abook does.
var actionFlags = []string{"search", "add", "modify", "delete", "get"}

// Options holds the parsed command line.
type Options struct {
	Search string
	Add    string
	Modify int64
	Delete int64
	Get    int64

	All        bool
	NoInput    bool
	Format     string
	DBPath     string
	ConfigPath string
	Verbose    bool

	// fields holds the values of the per-field flags, keyed by flag name.
	fields map[string]*string

	logger *log.Logger
}

// NewRootCommand creates the abook command.
func NewRootCommand() *cobra.Command {
	opts := &Options{fields: make(map[string]*string)}

	cmd := &cobra.Command{
		Use:   "abook",
		Short: "A simple CLI based address book",
		Long: `abook is a simple, searchable address book for the command line.

Contacts are stored in a local SQLite database (rsc/abook.db by default). A MySQL or
PostgreSQL server can be used instead, see the config file and the ABOOK_DRIVER, ABOOK_DB and
ABOOK_DSN environment variables.`,
		Example: `  abook -s name:Jane
  abook -s phone:555-1000 --all
  abook -a Jane
  abook -a Jane --last-name Doe --email jane@x.com --no-input
  abook -m 1
  abook -d 1`,
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("ABook\nVersion {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&opts.Search, "search", "s", "", fmt.Sprintf("search the address book, FIELD:QUERY where FIELD is one of %v; blank fields are stored as NULL and never match", store.FieldNames()))
	flags.StringVarP(&opts.Add, "add", "a", "", "add an entry with the given first name")
	flags.Int64VarP(&opts.Modify, "modify", "m", 0, "modify the entry with the given ID")
	flags.Int64VarP(&opts.Delete, "delete", "d", 0, "delete the entry with the given ID")
	flags.Int64VarP(&opts.Get, "get", "g", 0, "show the entry with the given ID")
	cmd.MarkFlagsMutuallyExclusive(actionFlags...)

	for _, f := range contactFields {
		opts.fields[f.flag] = flags.String(f.flag, "", f.usage+" (skips the prompt)")
	}
	flags.BoolVar(&opts.All, "all", false, "show every search match instead of the first one")
	flags.BoolVar(&opts.NoInput, "no-input", false, "never prompt, leave fields without a flag empty")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json)")
	flags.StringVar(&opts.DBPath, "db", "", "SQLite database file (overrides the configuration)")
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/abook/config.yml)")
	flags.BoolVar(&opts.Verbose, "verbose", false, "log database activity to standard error")

	return cmd
}

// Run executes the abook command with the given arguments and returns the process exit code.
// Errors are reported on stderr.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "[E] %s\n", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return ExitFailure
	}
	return ExitSuccess
}

// run validates the options, opens the store and dispatches to the selected action.
func run(cmd *cobra.Command, opts *Options) error {
	action := selectedAction(cmd)
	if action == "" {
		return cmd.Help()
	}
	if !contains(ValidFormats, opts.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
	}

	logOutput := io.Discard
	if opts.Verbose {
		logOutput = cmd.ErrOrStderr()
	}
	opts.logger = log.New(logOutput, "abook: ", 0)

	// A malformed query is rejected before the database is touched.
	var field store.Field
	var query string
	if action == "search" {
		var err error
		if field, query, err = ParseQuery(opts.Search); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return failure("loading config", err)
	}
	opts.logger.Printf("opening %s database %s", cfg.Database.Driver, describe(cfg.Database))
	s, err := store.Open(cfg.Database)
	if err != nil {
		return failure("connecting to database", err)
	}
	defer s.Close()

	switch action {
	case "search":
		return runSearch(cmd, opts, s, field, query)
	case "add":
		return runAdd(cmd, opts, s)
	case "modify":
		return runModify(cmd, opts, s)
	case "delete":
		return runDelete(cmd, opts, s)
	case "get":
		return runGet(cmd, opts, s)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// selectedAction returns the name of the action flag given on the command line, if any.
func selectedAction(cmd *cobra.Command) string {
	for _, name := range actionFlags {
		if cmd.Flags().Changed(name) {
			return name
		}
	}
	return ""
}

// loadConfig resolves the database settings; --db selects a SQLite file and wins over everything.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = opts.DBPath
	}
	return cfg, nil
}

// describe names the storage location without revealing credentials.
func describe(db config.Database) string {
	if db.Driver == config.DriverSQLite {
		return db.Path
	}
	return "from dsn"
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}
