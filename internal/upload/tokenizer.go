package upload

import "strings"

const fieldDelimiter = ','

// Tokenize splits one line of delimited text into trimmed fields. Double
// quotes toggle quoting and are dropped; a delimiter inside quotes is kept as
// data. There is no escape for a literal quote, and unbalanced quotes never
// fail, they only shift field boundaries. The trailing field is always
// emitted, so an empty line yields a single empty field.
func Tokenize(line string) []string {
	fields := make([]string, 0, strings.Count(line, string(fieldDelimiter))+1)
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == fieldDelimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}
