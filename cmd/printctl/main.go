package main

import (
	"fmt"
	"os"

	"github.com/printease/backend/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
