package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/thinkforge/cmd"
	"github.com/abhisek/thinkforge/internal/apperr"
)

func main() {
	if err := cmd.Execute(); err != nil {
		msg := err.Error()
		if errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrStorage) {
			msg = apperr.UserMessage(err)
		}
		fmt.Fprintln(os.Stderr, "Error:", msg)
		os.Exit(1)
	}
}
