package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/abook/internal/config"
	"gitlab.com/dirk.krummacker/abook/internal/randomgen"
	"gitlab.com/dirk.krummacker/abook/internal/store"
)

// Usage example on the command line:
// > go run main.go
// > go run main.go --sizes 100,1000 --db /tmp/bench.db
func main() {
	var dbPath string
	var sizes []int

	cmd := &cobra.Command{
		Use:           "bench",
		Short:         "Measure the average duration of the address book operations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dir, err := os.MkdirTemp("", "abook-bench")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				dbPath = filepath.Join(dir, "abook.db")
			}
			s, err := store.Open(config.Database{Driver: config.DriverSQLite, Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()
			return bench(s, sizes)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (default: a temporary file)")
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{100, 500, 1000, 5000}, "number of contacts per round")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[E] %s\n", err)
		os.Exit(1)
	}
}

// bench runs one round per size. Every round adds, modifies, searches and deletes that many
// contacts and prints the average duration per operation in microseconds.
func bench(s *store.Store, sizes []int) error {
	fmt.Println()
	fmt.Println("  Elements       ADD    MODIFY    SEARCH    DELETE ")
	fmt.Println("---------------------------------------------------")
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]int64, 0, loops)
		{
			// ADD
			var duration time.Duration
			for i := 0; i < loops; i++ {
				c := randomgen.Contact()
				before := time.Now()
				id, err := s.Add(c)
				duration += time.Since(before)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			printAverage(duration, loops)
		}
		{
			// MODIFY
			f := func(id int64) error {
				return s.Modify(id, randomgen.Contact())
			}
			if err := callInLoop(ids, f); err != nil {
				return err
			}
		}
		{
			// SEARCH
			f := func(id int64) error {
				_, err := s.Search(store.FieldName, randomgen.PickLastName())
				return err
			}
			if err := callInLoop(ids, f); err != nil {
				return err
			}
		}
		{
			// DELETE
			f := func(id int64) error {
				return s.Delete(id)
			}
			if err := callInLoop(ids, f); err != nil {
				return err
			}
		}
		fmt.Println()
	}
	return nil
}

// callInLoop calls f once for every id in random order and prints the average duration.
func callInLoop(ids []int64, f func(id int64) error) error {
	shuffled := append([]int64(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration time.Duration
	for _, id := range shuffled {
		before := time.Now()
		err := f(id)
		duration += time.Since(before)
		if err != nil {
			return err
		}
	}
	printAverage(duration, len(ids))
	return nil
}

func printAverage(total time.Duration, loops int) {
	if loops == 0 {
		fmt.Printf("%10s", "-")
		return
	}
	fmt.Printf("%10d", total.Microseconds()/int64(loops))
}
