// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package buildvars

import "testing"

func TestVersionOrDefault(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	if got := VersionOrDefault("dev"); got != "dev" {
		t.Fatalf("expected default, got %q", got)
	}
	Version = "1.4.0"
	if got := VersionOrDefault("dev"); got != "1.4.0" {
		t.Fatalf("expected injected version, got %q", got)
	}
}
