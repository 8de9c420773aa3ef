package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/orderreport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "orderreport:", err)
		os.Exit(1)
	}
}
