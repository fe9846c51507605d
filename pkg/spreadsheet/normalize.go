package spreadsheet

import (
	"strings"
	"unicode"
)

// CleanString trims leading and trailing whitespace and collapses every
// internal run of whitespace, newlines included, into a single space.
// Spreadsheet cells accumulate stray line breaks when edited by hand; cleanup
// happens here on the ingest path, never inside the comparison logic.
func CleanString(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// CleanSentence cleans a description cell and normalizes it into sentence
// form: first letter upper-cased and a trailing period unless the value
// already ends in "." or "]".
func CleanSentence(s string) string {
	s = CleanString(s)
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	s = string(runes)

	last := runes[len(runes)-1]
	if last != '.' && last != ']' {
		s += "."
	}
	return s
}

// SheetName shortens a table ID to a legal sheet name. Spreadsheet sheet
// names are capped at 31 characters.
func SheetName(tableID string) string {
	if len(tableID) <= maxSheetNameLength {
		return tableID
	}
	return tableID[:maxSheetNameLength]
}
