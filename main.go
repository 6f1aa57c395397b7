package main

import (
	"fmt"
	"os"

	"github.com/sahilchouksey/curriculum-catalog/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		os.Exit(1)
	}
}
