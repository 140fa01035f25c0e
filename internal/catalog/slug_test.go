// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Long Orbit":     "the-long-orbit",
		"Echoes of Atlas":    "echoes-of-atlas",
		"  padded   name  ":  "padded-name",
		"Señor & Señora":     "senor-and-senora",
		"S01E01: \"Pilot\"":  "s01e01-pilot",
		"UPPER-case_Already": "upper-case-already",
		"!!!":                "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
