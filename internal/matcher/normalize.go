package matcher

import (
	"regexp"
	"strings"
)

var (
	skillDelimiters = regexp.MustCompile(`[,;|\n\r]+`)
	skillDisallowed = regexp.MustCompile(`[^a-zA-Z0-9\s+#.]`)
)

// Normalizer turns a delimited skill string into the token stream fed to the
// vectorizer.
type Normalizer struct {
	aliases *AliasTable
}

func NewNormalizer(aliases *AliasTable) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Tokens returns the cleaned skill pieces of text in input order. Duplicates
// are kept. Every piece is non-empty and made of [a-z0-9+#. ] only.
func (n *Normalizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}

	pieces := skillDelimiters.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		piece = n.aliases.Resolve(piece)
		piece = skillDisallowed.ReplaceAllString(piece, " ")
		piece = strings.Join(strings.Fields(piece), " ")
		if piece == "" {
			continue
		}

		tokens = append(tokens, piece)
	}

	return tokens
}

// Normalize joins Tokens with single spaces. It returns "" for empty or
// all-punctuation input.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}
