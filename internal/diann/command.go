package diann

import "strings"

// Token is one flag/value pair of an engine invocation. Value is empty for
// bare flags. Keeping tokens structured until final serialization makes
// command equality a list comparison and removes quoting ambiguity.
type Token struct {
	Flag  string
	Value string
}

// Command is an assembled engine invocation: the binary plus an ordered
// token sequence. It is derived, never stored, and regenerated fresh for
// every stage.
type Command struct {
	Bin    string
	Tokens []Token
}

// Args flattens the command into the argv-style token list, binary first.
func (c *Command) Args() []string {
	out := []string{c.Bin}
	for _, t := range c.Tokens {
		out = append(out, t.Flag)
		if t.Value != "" {
			out = append(out, t.Value)
		}
	}
	return out
}

// ShellLines renders the command as one shell word-group per token, suitable
// for joining with backslash continuations in a generated script. Both
// positions are quoted when needed: extra-arg tokens land in the flag
// position and may carry spaces.
func (c *Command) ShellLines() []string {
	lines := []string{shellQuote(c.Bin)}
	for _, t := range c.Tokens {
		if t.Value == "" {
			lines = append(lines, shellQuote(t.Flag))
			continue
		}
		lines = append(lines, shellQuote(t.Flag)+" "+shellQuote(t.Value))
	}
	return lines
}

func plainShellWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '/' || r == ':' || r == ',':
		default:
			return false
		}
	}
	return true
}

func shellQuote(s string) string {
	if plainShellWord(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
