package session

// Tokenize splits a command line into tokens, shell-style: unquoted
// whitespace separates, single or double quotes group (and are
// stripped), the other quote kind is literal inside a quoted run, and an
// unterminated quote closes at end of line. Quotes never end a token by
// themselves, so a"b c"d is one token, as in a shell.
//
//	Tokenize(`call cat "dir name"`) -> ["call", "cat", "dir name"]
func Tokenize(line string) []string {
	var tokens []string
	var buf []rune
	var quote rune
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, string(buf))
			buf = buf[:0]
			inToken = false
		}
	}

	for _, c := range line {
		switch {
		case c == '"' || c == '\'':
			switch quote {
			case 0:
				quote = c
				inToken = true
			case c:
				quote = 0
			default:
				buf = append(buf, c)
			}
		case (c == ' ' || c == '\t') && quote == 0:
			flush()
		default:
			buf = append(buf, c)
			inToken = true
		}
	}
	flush()
	return tokens
}
