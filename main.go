package main

import (
	"errors"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ece *exitCodeError
		if errors.As(err, &ece) {
			if ece.msg != "" {
				fmt.Fprintln(os.Stderr, failure(ece.msg))
			}
			os.Exit(ece.code)
		}
		fmt.Fprintln(os.Stderr, failure(err.Error()))
		os.Exit(ExitInvalidArgs)
	}
}
