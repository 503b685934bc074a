package library

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

// filterFields maps accepted rule field names to the canonical metadata field.
var filterFields = map[string]string{
	"artist":       "artist",
	"album":        "album",
	"title":        "title",
	"albumartist":  "albumartist",
	"album_artist": "albumartist",
}

// Rule matches one metadata field against a case-insensitive pattern.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp
}

// ParseRule parses a "field=pattern" rule. The field must be one of artist,
// album, title, or albumartist; the pattern compiles case-insensitively.
func ParseRule(s string) (Rule, error) {
	field, pattern, ok := strings.Cut(s, "=")
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q is not of the form field=pattern", shared.ErrInvalidFilter, s)
	}

	canonical, ok := filterFields[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return Rule{}, fmt.Errorf("%w: unknown field %q", shared.ErrInvalidFilter, field)
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: pattern %q: %v", shared.ErrInvalidFilter, pattern, err)
	}

	return Rule{Field: canonical, Pattern: re}, nil
}

// ParseRules parses a slice of "field=pattern" rules.
func ParseRules(rules []string) ([]Rule, error) {
	parsed := make([]Rule, 0, len(rules))
	for _, s := range rules {
		rule, err := ParseRule(s)
		if err != nil {
			return nil, err
		}

		parsed = append(parsed, rule)
	}

	return parsed, nil
}

// Filter selects songs by include and exclude rules. Include rules keep
// matching songs, exclude rules drop them. Each rule set matches when any
// rule matches, or every rule when the corresponding All flag is set.
type Filter struct {
	Include []Rule
	Exclude []Rule

	AllIncludes bool
	AllExcludes bool
}

// Empty reports whether the filter has no rules.
func (f Filter) Empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

// Match reports whether song passes the filter.
func (f Filter) Match(song models.Song) bool {
	if len(f.Include) > 0 && !matchRules(song, f.Include, f.AllIncludes) {
		return false
	}

	if len(f.Exclude) > 0 && matchRules(song, f.Exclude, f.AllExcludes) {
		return false
	}

	return true
}

func matchRules(song models.Song, rules []Rule, all bool) bool {
	for _, rule := range rules {
		value, ok := song.Field(rule.Field)
		matched := ok && value != "" && rule.Pattern.MatchString(value)

		if all && !matched {
			return false
		}

		if !all && matched {
			return true
		}
	}

	return all
}

// Partition splits songs into those passing the filter and those dropped
// by it.
func Partition(songs []models.Song, f Filter) (matched, filtered []models.Song) {
	for _, song := range songs {
		if f.Match(song) {
			matched = append(matched, song)
		} else {
			filtered = append(filtered, song)
		}
	}

	return matched, filtered
}
