// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Softwhere.
//
// Usage:
//
//	go run . [flags]
//	./softwhere [flags]
//
// Without a subcommand this starts the interactive session. See --help for options.
package main

import (
	"os"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Debugf("softwhere exited with error: %v", err)
		os.Exit(1)
	}
}
