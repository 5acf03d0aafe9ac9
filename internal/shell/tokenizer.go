package shell

import (
	"strings"
	"unicode"
)

// Tokenize splits an input line into words. Whitespace separates words;
// a double quote toggles quoting and is dropped; a backslash takes the next
// rune literally, inside quotes too. An unterminated quote or a trailing
// backslash is not an error: what was accumulated becomes the last word.
func Tokenize(line string) []string {
	var (
		tokens   []string
		cur      strings.Builder
		inQuotes bool
		escaped  bool
		started  bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			started = true
		case r == '"':
			inQuotes = !inQuotes
			started = true
		case unicode.IsSpace(r) && !inQuotes:
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// Escape backslash-escapes the runes that would otherwise split or alter a
// word: whitespace, quotes, backslashes and parentheses.
func Escape(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsSpace(r) || strings.ContainsRune(`"\()`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
