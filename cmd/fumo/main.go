// fumo syncs local script projects with fumosclub.
package main

import (
	"os"

	"github.com/techs-sus/fumo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
