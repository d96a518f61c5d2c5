package main

import (
	"os"

	"light-chat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
