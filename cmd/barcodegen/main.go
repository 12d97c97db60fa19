package main

import (
	"fmt"
	"os"

	"go-barcode-generator/internal/cli"
)

func main() {
	if err := cli.Run(&cli.App{}, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
