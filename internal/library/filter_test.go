package library

import (
	"errors"
	"testing"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

func TestParseRule(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rule, err := ParseRule("artist=Muse")
		if err != nil {
			t.Fatalf("ParseRule() error = %v", err)
		}

		if rule.Field != "artist" {
			t.Errorf("Field = %q, want %q", rule.Field, "artist")
		}

		if !rule.Pattern.MatchString("muse") {
			t.Error("pattern should match case-insensitively")
		}
	})

	t.Run("album_artist alias", func(t *testing.T) {
		rule, err := ParseRule("album_artist=Various")
		if err != nil {
			t.Fatalf("ParseRule() error = %v", err)
		}

		if rule.Field != "albumartist" {
			t.Errorf("Field = %q, want %q", rule.Field, "albumartist")
		}
	})

	for _, invalid := range []string{"no separator", "year=2004", "artist=[unclosed"} {
		t.Run("invalid "+invalid, func(t *testing.T) {
			if _, err := ParseRule(invalid); !errors.Is(err, shared.ErrInvalidFilter) {
				t.Errorf("ParseRule(%q) error = %v, want ErrInvalidFilter", invalid, err)
			}
		})
	}
}

func TestFilterMatch(t *testing.T) {
	songs := []models.Song{
		{Artist: "Muse", Album: "Absolution", Title: "Hysteria"},
		{Artist: "Muse", Album: "The Resistance", Title: "Uprising"},
		{Artist: "The Beatles", Album: "Abbey Road", Title: "Come Together"},
	}

	mustRules := func(t *testing.T, raw ...string) []Rule {
		t.Helper()

		rules, err := ParseRules(raw)
		if err != nil {
			t.Fatalf("ParseRules() error = %v", err)
		}

		return rules
	}

	t.Run("include any", func(t *testing.T) {
		f := Filter{Include: mustRules(t, "artist=Muse")}

		matched, filtered := Partition(songs, f)
		if len(matched) != 2 || len(filtered) != 1 {
			t.Errorf("Partition() = %d matched, %d filtered, want 2, 1", len(matched), len(filtered))
		}
	})

	t.Run("include all", func(t *testing.T) {
		f := Filter{
			Include:     mustRules(t, "artist=Muse", "album=Absolution"),
			AllIncludes: true,
		}

		matched, _ := Partition(songs, f)
		if len(matched) != 1 || matched[0].Title != "Hysteria" {
			t.Errorf("Partition() matched %v, want only Hysteria", matched)
		}
	})

	t.Run("exclude any", func(t *testing.T) {
		f := Filter{Exclude: mustRules(t, "artist=Beatles")}

		matched, filtered := Partition(songs, f)
		if len(matched) != 2 || len(filtered) != 1 {
			t.Errorf("Partition() = %d matched, %d filtered, want 2, 1", len(matched), len(filtered))
		}
	})

	t.Run("exclude all", func(t *testing.T) {
		f := Filter{
			Exclude:     mustRules(t, "artist=Muse", "album=Resistance"),
			AllExcludes: true,
		}

		matched, filtered := Partition(songs, f)
		if len(filtered) != 1 || filtered[0].Title != "Uprising" {
			t.Errorf("Partition() filtered %v, want only Uprising", filtered)
		}

		if len(matched) != 2 {
			t.Errorf("Partition() matched %d songs, want 2", len(matched))
		}
	})

	t.Run("include and exclude", func(t *testing.T) {
		f := Filter{
			Include: mustRules(t, "artist=Muse"),
			Exclude: mustRules(t, "album=Resistance"),
		}

		matched, _ := Partition(songs, f)
		if len(matched) != 1 || matched[0].Title != "Hysteria" {
			t.Errorf("Partition() matched %v, want only Hysteria", matched)
		}
	})

	t.Run("empty field never matches include", func(t *testing.T) {
		f := Filter{Include: mustRules(t, "albumartist=.*")}

		if f.Match(models.Song{Artist: "Muse"}) {
			t.Error("Match() = true for song missing the filtered field")
		}
	})

	t.Run("empty filter matches everything", func(t *testing.T) {
		matched, filtered := Partition(songs, Filter{})
		if len(matched) != len(songs) || len(filtered) != 0 {
			t.Errorf("Partition() = %d matched, %d filtered, want %d, 0", len(matched), len(filtered), len(songs))
		}
	})
}
