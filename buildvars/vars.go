// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Version is set at link time via `-ldflags -X github.com/softwhere/softwhere/buildvars.Version=...`.
// Local and development builds leave it empty.
var Version string

// VersionOrDefault returns Version if set, otherwise def.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}
