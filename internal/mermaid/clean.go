package mermaid

import (
	"strings"
	"unicode"
)

// FallbackDocument is the fixed minimal linear diagram substituted when a
// document is unsalvageable. It passes Validate by construction and is the
// pipeline's guaranteed terminal state.
const FallbackDocument = Header + `
    A["Start"] --> B["Process"]
    B --> C["End"]
` + "    classDef default fill:#f9f9f9,stroke:#333,stroke-width:2px\n"

// Clean repairs a possibly-malformed document: decorative glyphs are
// stripped from every line, code fences and list bullets dropped, and blank
// lines collapsed to at most a single one immediately after the header. When
// nothing structural survives, or the first surviving line is not an
// orientation header, the fixed fallback document is substituted wholesale.
// Clean is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")

	var cleaned []string
	for _, line := range lines {
		line = strings.TrimRight(stripDecorations(line), " \t")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	// Collapse blank lines: keep at most one, and only immediately after
	// the header line, wherever the header ends up after stripping.
	var kept []string
	for _, line := range cleaned {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
			continue
		}
		if len(kept) > 0 && headerPattern.MatchString(strings.TrimSpace(kept[len(kept)-1])) {
			kept = append(kept, "")
		}
	}

	if len(kept) == 0 || !headerPattern.MatchString(strings.TrimSpace(kept[0])) {
		return FallbackDocument
	}

	out := strings.Join(kept, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// stripDecorations removes decorative glyphs (emoji, symbols, bullets) while
// preserving the ASCII diagram syntax and label punctuation.
func stripDecorations(line string) string {
	var b strings.Builder
	for _, r := range line {
		switch {
		case r == '•', r == '·', r == '▪', r == '–', r == '—':
			continue
		case unicode.In(r, unicode.So, unicode.Sk, unicode.Cs, unicode.Co):
			continue
		case r >= 0x1F000: // emoji planes
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
