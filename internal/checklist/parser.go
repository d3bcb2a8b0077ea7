package checklist

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	acSectionRe = regexp.MustCompile(`(?is)##\s*Acceptance\s+Criteria\s*\n(.*?)(?:\n##|\z)`)
	bulletRe    = regexp.MustCompile(`^[*\-+]\s+(.+)$`)
	optionalRe  = regexp.MustCompile(`(?i)\[optional\]`)
	requiredRe  = regexp.MustCompile(`(?i)\[required\]`)
	tagRe       = regexp.MustCompile(`\[([^\]]+)\]`)
)

// ExtractAcceptanceCriteria pulls checklist items out of an issue body.
// It prefers the bullets of a "## Acceptance Criteria" section; without one
// it falls back to the first bullet list in the document. Bullets may carry
// [optional]/[required] markers and [tag] annotations. IDs are assigned
// C1..Cn in document order.
func ExtractAcceptanceCriteria(body string) []ItemDraft {
	if body == "" {
		return nil
	}

	var items []ItemDraft
	if m := acSectionRe.FindStringSubmatch(body); m != nil {
		items = parseBulletList(m[1])
	} else {
		for _, line := range strings.Split(body, "\n") {
			if bm := bulletRe.FindStringSubmatch(strings.TrimSpace(line)); bm != nil {
				items = append(items, ItemDraft{Text: strings.TrimSpace(bm[1]), Required: true})
			}
		}
	}

	for i := range items {
		items[i].ID = fmt.Sprintf("C%d", i+1)
	}
	return items
}

func parseBulletList(content string) []ItemDraft {
	var items []ItemDraft
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[1])

		required := true
		if optionalRe.MatchString(text) {
			required = false
			text = strings.TrimSpace(optionalRe.ReplaceAllString(text, ""))
		} else if requiredRe.MatchString(text) {
			text = strings.TrimSpace(requiredRe.ReplaceAllString(text, ""))
		}

		var tags []string
		for _, tm := range tagRe.FindAllStringSubmatch(text, -1) {
			tags = append(tags, tm[1])
		}
		text = strings.TrimSpace(tagRe.ReplaceAllString(text, ""))

		items = append(items, ItemDraft{Text: text, Required: required, Tags: tags})
	}
	return items
}
