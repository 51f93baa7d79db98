package command

import (
	"strings"
	"unicode"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command, preserving inner spacing.
	RawArgs string
}

// Parse splits a text line into a lowercased command word and its arguments.
// Any Unicode whitespace separates words.
//
// Postcondition: Command is empty iff line is blank; Args is nil when there are no arguments.
func Parse(line string) ParseResult {
	word, rest := splitWord(line)
	if word == "" {
		return ParseResult{}
	}
	pr := ParseResult{Command: strings.ToLower(word), RawArgs: rest}
	if rest != "" {
		pr.Args = strings.Fields(rest)
	}
	return pr
}

// Rest returns the raw text after the first n arguments, preserving inner
// spacing. It is used for trailing free text such as gift names.
//
// Postcondition: Returns "" when there are n or fewer arguments.
func (p ParseResult) Rest(n int) string {
	rest := p.RawArgs
	for range n {
		_, rest = splitWord(rest)
	}
	return rest
}

// splitWord returns the first whitespace-delimited word of s and the trimmed remainder.
func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
