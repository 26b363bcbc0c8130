package tui

import "unicode"

// splitShellWords splits an $EDITOR-style command line into argv. Single and
// double quotes group words; a backslash escapes the next rune outside single
// quotes.
func splitShellWords(s string) []string {
	var (
		out     []string
		cur     []rune
		quote   rune
		escaped bool
		inWord  bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur = append(cur, r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote, inWord = r, true
		case quote == 0 && unicode.IsSpace(r):
			if inWord {
				out = append(out, string(cur))
				cur, inWord = cur[:0], false
			}
		default:
			cur = append(cur, r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, string(cur))
	}
	return out
}
