package reconcile

import (
	"strings"
)

// closerFor returns the bracket that terminates opener.
func closerFor(opener byte) byte {
	if opener == '[' {
		return ']'
	}
	return '}'
}

// balancedEnd returns the index of the bracket closing text[start].
// It tracks nested objects and arrays and skips string literals, so
// brackets inside quoted values do not count. ok is false when the span is
// unterminated or a closer does not match its opener.
func balancedEnd(text string, start int) (end int, ok bool) {
	var stack []byte
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, closerFor(ch))
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// candidateAt returns the JSON-looking span opening at text[start].
// A balanced span is preferred; otherwise the span runs to the last matching
// closer in the text.
func candidateAt(text string, start int) (string, bool) {
	if end, ok := balancedEnd(text, start); ok {
		return text[start : end+1], true
	}
	last := strings.LastIndexByte(text, closerFor(text[start]))
	if last > start {
		return text[start : last+1], true
	}
	return "", false
}

// FindJSONSpan returns the first JSON-looking span in text.
func FindJSONSpan(text string) (string, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		if span, ok := candidateAt(text, i); ok {
			return span, true
		}
	}
	return "", false
}
