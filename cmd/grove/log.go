package main

import (
	"fmt"
	"os"
)

func exit(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
