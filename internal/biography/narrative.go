package biography

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/ent0n29/memoir/internal/lexicon"
)

const (
	untitled       = "A Life in Stories"
	storyOpenRunes = 160
)

func title(name string) string {
	if name == "" {
		return untitled
	}
	return "The Life Story of " + name
}

// assemble writes every narrative section from the extraction. The result never
// has an empty section.
func assemble(x extraction, entryCount int) Sections {
	subject := "This person"
	if x.name != "" {
		subject = x.name
	}
	themes := topicTitles(x.topics)

	var s Sections

	s.Introduction = fmt.Sprintf("%s has shared %s through conversations and written notes.", subject, plural(entryCount, "memory", "memories"))
	if len(themes) > 0 {
		s.Introduction += fmt.Sprintf(" Their stories return again and again to %s.", strings.ToLower(englishList(themes)))
	}

	if x.childhood != "" {
		s.EarlyLife = fmt.Sprintf("Looking back on their early years, they recalled: %q", x.childhood)
	} else {
		s.EarlyLife = "Their early years have not come up yet. Where they grew up and who raised them is a story still waiting to be told."
	}

	if len(x.traits) > 0 {
		s.Personality = fmt.Sprintf("Through the way they tell their stories, they come across as %s.", englishList(x.traits))
	} else {
		s.Personality = "Their character shows in the details they choose to remember, even where they do not describe themselves directly."
	}

	if len(x.events) > 0 {
		s.LifeJourney = lifeJourney(x.events)
	} else {
		s.LifeJourney = "The milestones of their life have not been placed on a timeline yet."
	}

	if len(x.relationships) > 0 {
		people := lo.Map(x.relationships, func(r string, _ int) string { return "their " + r })
		s.Relationships = fmt.Sprintf("The people who appear in their memories include %s.", englishList(people))
	} else {
		s.Relationships = "The people closest to them have not been named yet, though they are surely part of every story."
	}

	if len(x.values) > 0 {
		s.Values = fmt.Sprintf("What they hold dear comes through clearly: %s.", englishList(x.values))
	} else {
		s.Values = "The values that guide them are present between the lines of what they have shared."
	}

	if len(x.stories) > 0 {
		s.Stories = fmt.Sprintf("They have told %s at length. One of them begins: %q",
			plural(len(x.stories), "story", "stories"), truncate(x.stories[0].Text, storyOpenRunes))
	} else {
		s.Stories = "Their longer stories are still to come."
	}

	if len(themes) > 0 {
		s.Themes = fmt.Sprintf("Recurring themes: %s.", englishList(themes))
	} else {
		s.Themes = "No single theme dominates yet. Each memory stands on its own."
	}

	s.Conclusion = fmt.Sprintf("%s's story is still being written, one conversation at a time.", subject)
	s.Summary = fmt.Sprintf("%s built from %s", title(x.name), plural(entryCount, "entry", "entries"))
	if len(themes) > 0 {
		s.Summary += ", covering " + strings.ToLower(englishList(themes))
	}
	s.Summary += "."
	return s
}

// fillSections replaces empty sections of s with the assembled text.
func fillSections(s, assembled Sections) Sections {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	fill(&s.Introduction, assembled.Introduction)
	fill(&s.EarlyLife, assembled.EarlyLife)
	fill(&s.Personality, assembled.Personality)
	fill(&s.LifeJourney, assembled.LifeJourney)
	fill(&s.Relationships, assembled.Relationships)
	fill(&s.Values, assembled.Values)
	fill(&s.Stories, assembled.Stories)
	fill(&s.Themes, assembled.Themes)
	fill(&s.Conclusion, assembled.Conclusion)
	fill(&s.Summary, assembled.Summary)
	return s
}

// lifeJourney lists events by year; undated events go last in discovery order.
func lifeJourney(events []LifeEvent) string {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b LifeEvent) int {
		switch {
		case a.Year == 0 && b.Year == 0:
			return 0
		case a.Year == 0:
			return 1
		case b.Year == 0:
			return -1
		}
		return cmp.Compare(a.Year, b.Year)
	})
	lines := lo.Map(sorted, func(e LifeEvent, _ int) string {
		if e.Year == 0 {
			return "- " + e.Description
		}
		return fmt.Sprintf("- %d: %s", e.Year, e.Description)
	})
	return strings.Join(lines, "\n")
}

func topicTitles(ts []lexicon.Topic) []string {
	return lo.Map(ts, func(t lexicon.Topic, _ int) string { return t.Title() })
}

// englishList joins items as "a", "a and b" or "a, b and c".
func englishList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
