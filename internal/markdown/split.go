package markdown

import (
	"strings"
	"unicode/utf8"
)

const fence = "```"

// Split cuts a MarkdownV2 text into messages no longer than limit bytes.
// It prefers line boundaries. A line that does not fit is cut with its open
// entities closed and re-opened, and code fences cut in the middle are
// re-opened too.
func Split(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var (
		messages []string
		current  strings.Builder
		inFence  bool
	)

	// Room kept for re-opening and closing a fence around a message.
	budget := limit - 2*(len(fence)+1)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		msg := current.String()
		if inFence {
			msg += "\n" + fence
		}
		messages = append(messages, msg)
		current.Reset()
		if inFence {
			current.WriteString(fence)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > budget {
			if current.Len() > 0 {
				flush()
			}

			room := budget - current.Len() - 1
			head, rest := cutLine(line, room, inFence)
			line = rest

			if current.Len() > 0 {
				current.WriteByte('\n')
			}
			current.WriteString(head)
			flush()
		}

		needed := len(line)
		if current.Len() > 0 {
			needed++
		}

		if current.Len()+needed > budget {
			flush()
		}

		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)

		if strings.HasPrefix(line, fence) {
			inFence = !inFence
		}
	}

	if current.Len() > 0 {
		messages = append(messages, current.String())
	}

	return messages
}

func cutLine(line string, room int, inFence bool) (string, string) {
	if !inFence {
		if head, tail, ok := cutEntities(line, room); ok {
			return head, tail
		}
	}

	cut := cutPoint(line, room)

	return line[:cut], line[cut:]
}

// cutPoint returns a byte offset no greater than max that splits s on a rune
// boundary and not right after an escaping backslash.
func cutPoint(s string, max int) int {
	if max <= 0 {
		max = 1
	}
	if max >= len(s) {
		return len(s)
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	backslashes := 0
	for i := cut - 1; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 == 1 {
		cut--
	}

	if cut == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}

	return cut
}
