package markdown

import (
	"strings"
	"unicode/utf8"
)

// cutEntities cuts one MarkdownV2 line so the head, with every entity open at
// the cut closed again, is at most limit bytes. The tail starts by re-opening
// those entities. Links are never cut. It prefers cutting after a space and
// reports false when no cut fits.
func cutEntities(line string, limit int) (string, string, bool) {
	var (
		open      []byte
		hasText   bool
		best      = -1
		bestOpen  string
		space     = -1
		spaceOpen string
	)

	inCode := func() bool {
		return len(open) > 0 && open[len(open)-1] == '`'
	}

	for i := 0; i < len(line) && i <= limit; {
		c := line[i]
		isSpace := false

		switch {
		case c == '\\' && i+1 < len(line):
			i += 2
			hasText = true
		case c == '`':
			if inCode() {
				open = open[:len(open)-1]
			} else {
				open = append(open, c)
			}
			i++
		case !inCode() && (c == '*' || c == '_'):
			if len(open) > 0 && open[len(open)-1] == c {
				open = open[:len(open)-1]
			} else {
				open = append(open, c)
			}
			i++
		case !inCode() && c == '[':
			if end := linkEnd(line, i); end > 0 {
				i = end
			} else {
				i++
			}
			hasText = true
		default:
			_, size := utf8.DecodeRuneInString(line[i:])
			isSpace = c == ' '
			i += size
			hasText = true
		}

		if !hasText || i+len(open) > limit {
			continue
		}

		best, bestOpen = i, string(open)
		if isSpace {
			space, spaceOpen = i, bestOpen
		}
	}

	if best < 0 {
		return "", "", false
	}

	if space > limit/2 {
		best, bestOpen = space, spaceOpen
	}

	return line[:best] + closers(bestOpen), bestOpen + line[best:], true
}

func closers(open string) string {
	b := []byte(open)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// linkEnd returns the offset right after the inline link starting at start,
// or -1 when there is none.
func linkEnd(line string, start int) int {
	i := start + 1
	for ; i < len(line) && line[i] != ']'; i++ {
		if line[i] == '\\' {
			i++
		}
	}

	if i+1 >= len(line) || line[i+1] != '(' {
		return -1
	}

	for i += 2; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case ')':
			return i + 1
		}
	}

	return -1
}

// PlainV2 strips MarkdownV2 markup from text produced by ToTelegramV2 so it
// can be sent without a parse mode.
func PlainV2(text string) string {
	var (
		b      strings.Builder
		inCode bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '\\' && i+1 < len(text):
			i++
			b.WriteByte(text[i])
		case strings.HasPrefix(text[i:], fence):
			i += len(fence) - 1
			if !inCode {
				// Drop the language tag.
				for i+1 < len(text) && text[i+1] != '\n' {
					i++
				}
			}
			inCode = !inCode
		case c == '`':
			inCode = !inCode
		case inCode:
			b.WriteByte(c)
		case c == '*' || c == '_':
			// Entity delimiters carry no text.
		case c == '[':
			end := linkEnd(text, i)
			if end < 0 {
				b.WriteByte(c)
				continue
			}

			label, url := splitLink(text[i:end])
			if label == url {
				b.WriteString(url)
			} else {
				b.WriteString(label + " (" + url + ")")
			}
			i = end - 1
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// splitLink unescapes the label and URL of a single "[label](url)" link.
func splitLink(link string) (string, string) {
	i := 1
	for ; i < len(link) && link[i] != ']'; i++ {
		if link[i] == '\\' {
			i++
		}
	}

	return unescape(link[1:i]), unescape(link[i+2 : len(link)-1])
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
