// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Softwhere using Cobra.
// The root command runs the interactive session; subcommands cover
// non-interactive export, listing, expiry checks, backups and storage
// migration. CLI code stays thin and delegates to the internal packages.
package cli
