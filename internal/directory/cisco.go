package directory

import (
	"strings"

	"phonedir/internal"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeText escapes markup and replaces runes XML 1.0 cannot carry with U+FFFD.
func escapeText(s string) string {
	return xmlEscaper.Replace(strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return '\uFFFD'
	}, s))
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

func BuildCiscoXML(title, prompt string, entries []internal.DirectoryEntry) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<CiscoIPPhoneDirectory>\n")
	b.WriteString("  <Title>" + escapeText(title) + "</Title>\n")
	b.WriteString("  <Prompt>" + escapeText(prompt) + "</Prompt>\n")
	for _, e := range entries {
		b.WriteString("  <DirectoryEntry><Name>")
		b.WriteString(escapeText(e.Name))
		b.WriteString("</Name><Telephone>")
		b.WriteString(escapeText(e.Telephone))
		b.WriteString("</Telephone></DirectoryEntry>\n")
	}
	b.WriteString("</CiscoIPPhoneDirectory>\n")
	return []byte(b.String())
}
