// Command mrcoffee posts a summary of open GitLab merge requests to Slack
// and Microsoft Teams incoming webhooks.
//
// Usage:
//
//	mrcoffee                          # run once with ./mrcoffee.yaml and MRCOFFEE_* env
//	mrcoffee --config /etc/mrcoffee.yaml --interval 30m
//	mrcoffee preview                  # print the payloads without posting
//	mrcoffee version
package main

import (
	"errors"
	"log/slog"
	"os"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
	ExitUsageError   = 2
)

func main() {
	os.Exit(execute())
}

func execute() int {
	err := newRootCmd().Execute()
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	if errors.As(err, &usage) {
		slog.Error("invalid configuration", "error", err)
		return ExitUsageError
	}

	slog.Error("fatal error", "error", err)
	return ExitRuntimeError
}

// usageError marks failures that happen before any network call: bad flags
// or bad configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }
