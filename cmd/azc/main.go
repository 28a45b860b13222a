// Command azc is the Azula compiler driver.
package main

import (
	"os"

	"github.com/azula-lang/azc/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
