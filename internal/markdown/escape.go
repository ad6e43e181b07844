package markdown

import "strings"

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const mdV2SpecialChars = `._[](){}#|!+-=*~>` + "`" + `\`

//nolint:gochecknoglobals // Lookup tables meant to be immutable.
var (
	mdV2Lookup    = lookupOf(mdV2SpecialChars)
	linkURLLookup = lookupOf(`)\`)
	codeLookup    = lookupOf("`\\")
)

func lookupOf(chars string) [256]bool {
	var m [256]bool
	for i := range len(chars) {
		m[chars[i]] = true
	}
	return m
}

// EscapeV2 escapes text placed outside of any MarkdownV2 entity.
func EscapeV2(input string) string {
	return escapeWith(input, &mdV2Lookup)
}

// EscapeLinkURL escapes the URL part of an inline link.
func EscapeLinkURL(input string) string {
	return escapeWith(input, &linkURLLookup)
}

// EscapeCode escapes text placed inside pre and code entities.
func EscapeCode(input string) string {
	return escapeWith(input, &codeLookup)
}

func escapeWith(input string, lookup *[256]bool) string {
	charsToEscape := 0

	for i := range len(input) {
		if lookup[input[i]] {
			charsToEscape++
		}
	}

	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range len(input) {
		c := input[i]
		if lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}
