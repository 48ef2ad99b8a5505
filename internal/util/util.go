package util

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// ComputeBaseHref calculates the relative path to the site root
// so that CSS/JS links work correctly for pages at any depth.
// For example, a page at a/b.html would get a BaseHref of "../".
func ComputeBaseHref(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	depth := strings.Count(dir, string(os.PathSeparator)) + 1
	return strings.Repeat("../", depth)
}

// Slugger hands out anchor ids that are unique within one page.
type Slugger struct {
	seen map[string]bool
}

func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]bool)}
}

// Slug derives an id from title. Letters and digits of any script are kept,
// everything else collapses to single dashes. fallback is used when nothing
// is left. An id already handed out gets the lowest free numeric suffix:
// "rin", "rin-2", "rin-3", even if a title itself slugs to "rin-2".
func (s *Slugger) Slug(title, fallback string) string {
	base := Slugify(title)
	if base == "" {
		base = fallback
	}
	candidate := base
	for n := 2; s.seen[candidate]; n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	s.seen[candidate] = true
	return candidate
}

// Slugify lowercases title and joins its words with dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
