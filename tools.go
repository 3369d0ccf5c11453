//go:build tools

package tools

// This file marks the module as carrying CLI tool dependencies.
// It is not compiled into the binary; the pinned tools live in the
// go.mod tool directive:
// - github.com/pressly/goose/v3/cmd/goose
