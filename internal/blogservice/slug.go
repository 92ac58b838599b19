package blogservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ekesta/portfolio/internal/common"
)

const untitledSlug = "untitled-post"

// slugSpace is the whitespace a title may separate words with: ASCII space
// characters, vertical tab, Unicode separators such as NBSP, and BOM.
const slugSpace = `\s\v\p{Z}\x{feff}`

var (
	slugInvalidRX    = regexp.MustCompile(`[^a-z0-9` + slugSpace + `-]`)
	slugWhitespaceRX = regexp.MustCompile(`[` + slugSpace + `]+`)
	slugHyphensRX    = regexp.MustCompile(`-+`)
)

// NormalizeSlug turns a title into the base slug: lowercase ASCII letters,
// digits and single hyphens. Titles with nothing usable map to "untitled-post".
func NormalizeSlug(title string) string {
	s := strings.ToLower(title)
	s = slugInvalidRX.ReplaceAllString(s, "")
	s = slugWhitespaceRX.ReplaceAllString(s, "-")
	s = slugHyphensRX.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return untitledSlug
	}

	return s
}

// ResolveSlug returns the first slug derived from title that no post other
// than selfID holds. Candidates are the base slug, then base-1, base-2 and so on.
func ResolveSlug(ctx context.Context, lookup SlugLookup, title string, selfID int64) (string, error) {
	if title == "" {
		return "", ErrTitleRequired
	}

	base := NormalizeSlug(title)
	candidate := base

	for counter := 1; ; counter++ {
		_, err := lookup.FindBySlug(ctx, candidate, selfID)
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return candidate, nil
		case err != nil:
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}

		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
