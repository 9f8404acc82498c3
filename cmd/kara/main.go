// Package main provides the entry point for the kara CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	domainconfig "github.com/felixgeelhaar/kara-go/domain/config"
	"github.com/felixgeelhaar/kara-go/interfaces/cli"
)

// Exit codes.
const (
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, domainconfig.ErrValidationFailed) || errors.Is(err, domainconfig.ErrConfigNotFound) {
			os.Exit(exitConfig)
		}
		os.Exit(exitFailure)
	}
}
