package blogservice

import (
	"slices"
	"strings"

	"github.com/ekesta/portfolio/internal/common"
)

const maxPageLimit = 100

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, 200), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateExcerpt(v *common.Validator, excerpt string) {
	v.Check(excerpt != "", "excerpt", "must be provided")
	v.Check(v.CheckStringLength(excerpt, 0, 300), "excerpt", "must not be more than 300 characters long")
}

func validateTags(v *common.Validator, tags []string) {
	for _, tag := range tags {
		if !v.CheckStringLength(tag, 0, 50) {
			v.AddError("tags", "must not contain tags longer than 50 characters")
			return
		}
	}
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "slug", "must be provided")
}

func validateListFilter(v *common.Validator, f ListFilter) {
	common.ValidatePage(v, f.Page, f.Limit, maxPageLimit)
}

// normalizeTags lowercases and trims tags, dropping blanks and duplicates
// while keeping the original order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}

	return out
}
