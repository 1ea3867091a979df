package main

import (
	"os"

	"ccgo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
