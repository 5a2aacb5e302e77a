package main

import (
	"os"

	"gitlab.com/dirk.krummacker/abook/internal/cli"
)

// Usage example on the command line:
// > go run main.go -a Jane
// > go run main.go -s name:Jane
// > ABOOK_DRIVER=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -s phone:555-1000
func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
