package csv

import (
	"fmt"
	"strings"
)

// dialect holds the resolved field-splitting parameters of a Config
type dialect struct {
	delimiter        rune
	quote            rune
	escape           rune
	doubleQuote      bool
	skipInitialSpace bool
}

// split divides one line into fields. Malformed lines (an unterminated
// quote or a dangling escape) return an error so the caller can flag
// and drop them.
func (d dialect) split(line string) ([]string, error) {
	fields := make([]string, 0, 8)
	var field strings.Builder
	inQuotes := false
	escaped := false
	atFieldStart := true

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case escaped:
			field.WriteRune(c)
			escaped = false
		case d.escape != 0 && c == d.escape:
			escaped = true
		case inQuotes:
			if c == d.quote {
				if d.doubleQuote && i+1 < len(runes) && runes[i+1] == d.quote {
					field.WriteRune(d.quote)
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteRune(c)
			}
		case c == d.delimiter:
			fields = append(fields, field.String())
			field.Reset()
			atFieldStart = true
		case c == ' ' && d.skipInitialSpace && atFieldStart:
			// swallow leading spaces after a delimiter
		case d.quote != 0 && c == d.quote && field.Len() == 0:
			inQuotes = true
			atFieldStart = false
		default:
			field.WriteRune(c)
			atFieldStart = false
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in line %#v", line)
	}
	if escaped {
		return nil, fmt.Errorf("dangling escape in line %#v", line)
	}
	fields = append(fields, field.String())
	return fields, nil
}

// join renders fields as one line, quoting any field containing the
// delimiter, the quote character, or a newline
func (d dialect) join(fields []string) string {
	var line strings.Builder
	for i, field := range fields {
		if i > 0 {
			line.WriteRune(d.delimiter)
		}
		if d.needsQuoting(field) {
			line.WriteRune(d.quote)
			for _, c := range field {
				if c == d.quote {
					if d.doubleQuote {
						line.WriteRune(d.quote)
					} else if d.escape != 0 {
						line.WriteRune(d.escape)
					}
				}
				line.WriteRune(c)
			}
			line.WriteRune(d.quote)
		} else {
			line.WriteString(field)
		}
	}
	return line.String()
}

func (d dialect) needsQuoting(field string) bool {
	if d.quote == 0 {
		return false
	}
	return strings.ContainsRune(field, d.delimiter) ||
		strings.ContainsRune(field, d.quote) ||
		strings.ContainsAny(field, "\r\n")
}

func firstRune(s string) rune {
	for _, c := range s {
		return c
	}
	return 0
}
