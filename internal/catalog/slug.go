// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"regexp"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// separatorRuns folds underscores, which slug.Make passes through, into
// the hyphen-only slug alphabet.
var separatorRuns = regexp.MustCompile(`[-_]+`)

// Slugify normalizes an arbitrary display name into the slug alphabet
// [a-z0-9] with single hyphen separators: lowercased, transliterated,
// hyphenated.
func Slugify(name string) string {
	s := gosimple.Make(name)
	s = separatorRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
