package main

import (
	"os"

	"github.com/gr4yha7/pikolo-sub000/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
