package markdown

import (
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

const horizontalRule = "────────"

//nolint:gochecknoglobals // Compiled once, read only.
var (
	headingRe     = regexp.MustCompile(`^#{1,6}\s+(.*?)\s*#*$`)
	bulletRe      = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	orderedRe     = regexp.MustCompile(`^(\s*)(\d+)[.)]\s+(.*)$`)
	quoteRe       = regexp.MustCompile(`^>\s?(.*)$`)
	ruleRe        = regexp.MustCompile(`^\s*([-*_])(\s*[-*_]){2,}\s*$`)
	strictURLs    = xurls.Strict()
	boldMarkersRe = regexp.MustCompile(`\*\*|__`)
)

//nolint:gochecknoglobals // Compiled once, read only.
var inlineRe = regexp.MustCompile(
	`\*\*(.+?)\*\*|__(.+?)__|` + "`([^`]+)`" +
		`|\[([^\]]+)\]\(((?:[^()\s]|\([^()\s]*\))+)\)|\*([^*\s](?:[^*]*[^*\s])?)\*`,
)

// ToTelegramV2 converts the CommonMark subset produced by language models
// (headings, emphasis, lists, quotes, links, code) into Telegram MarkdownV2.
// Anything it does not recognise is escaped and shown literally.
func ToTelegramV2(input string) string {
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				out = append(out, "```")
			} else {
				out = append(out, "```"+EscapeCode(strings.TrimPrefix(trimmed, "```")))
			}
			inFence = !inFence

			continue
		}

		if inFence {
			out = append(out, EscapeCode(line))
			continue
		}

		out = append(out, convertLine(strings.TrimRight(line, " \t")))
	}

	if inFence {
		out = append(out, "```")
	}

	return strings.Join(out, "\n")
}

func convertLine(line string) string {
	if m := headingRe.FindStringSubmatch(line); m != nil {
		heading := boldMarkersRe.ReplaceAllString(m[1], "")
		if heading == "" {
			return ""
		}
		return "*" + inline(heading) + "*"
	}

	if ruleRe.MatchString(line) {
		return horizontalRule
	}

	if m := bulletRe.FindStringSubmatch(line); m != nil {
		return m[1] + "• " + inline(m[2])
	}

	if m := orderedRe.FindStringSubmatch(line); m != nil {
		return m[1] + m[2] + "\\. " + inline(m[3])
	}

	if m := quoteRe.FindStringSubmatch(line); m != nil {
		return ">" + inline(m[1])
	}

	return inline(line)
}

func inline(text string) string {
	var b strings.Builder
	last := 0

	// Adjacent italic spans are merged: "__" would read as underline.
	italic := false
	closeItalic := func() {
		if italic {
			b.WriteString("_")
			italic = false
		}
	}

	for _, m := range inlineRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			closeItalic()
			b.WriteString(plain(text[last:m[0]]))
		}
		last = m[1]

		if m[12] >= 0 {
			if !italic {
				b.WriteString("_")
				italic = true
			}
			b.WriteString(plain(text[m[12]:m[13]]))

			continue
		}

		closeItalic()

		switch {
		case m[2] >= 0:
			b.WriteString("*" + plain(text[m[2]:m[3]]) + "*")
		case m[4] >= 0:
			b.WriteString("*" + plain(text[m[4]:m[5]]) + "*")
		case m[6] >= 0:
			b.WriteString("`" + EscapeCode(text[m[6]:m[7]]) + "`")
		case m[8] >= 0:
			b.WriteString("[" + EscapeV2(text[m[8]:m[9]]) + "](" + EscapeLinkURL(text[m[10]:m[11]]) + ")")
		}
	}

	closeItalic()
	b.WriteString(plain(text[last:]))

	return b.String()
}

// plain escapes text and turns bare URLs into links.
func plain(text string) string {
	var b strings.Builder
	last := 0

	for _, loc := range strictURLs.FindAllStringIndex(text, -1) {
		b.WriteString(EscapeV2(text[last:loc[0]]))
		url := text[loc[0]:loc[1]]
		b.WriteString("[" + EscapeV2(url) + "](" + EscapeLinkURL(url) + ")")
		last = loc[1]
	}

	b.WriteString(EscapeV2(text[last:]))

	return b.String()
}
