// Package text turns raw record values and query strings into the token
// stream pkg/embedder hashes into vectors. It has no notion of documents,
// fields, or positional indexing — it exists solely to feed the embedder.
package text

import (
	"regexp"
	"strings"
)

// Analyzer tokenizes, lowercases, filters stop words, and stems text before
// it reaches the embedder's feature hasher.
type Analyzer struct {
	stopWords map[string]bool
	stemmer   *stemmer
}

// NewAnalyzer creates a new text analyzer with English stop words.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		stopWords: defaultStopWords(),
		stemmer:   newStemmer(),
	}
}

// Analyze processes text and returns normalized tokens
func (a *Analyzer) Analyze(text string) []string {
	// Tokenize
	tokens := a.tokenize(text)

	// Normalize and filter
	var result []string
	for _, token := range tokens {
		// Convert to lowercase
		token = strings.ToLower(token)

		// Skip if too short
		if len(token) < 2 {
			continue
		}

		// Skip stop words
		if a.stopWords[token] {
			continue
		}

		// Apply stemming
		token = a.stemmer.Stem(token)

		result = append(result, token)
	}

	return result
}

// tokenize breaks text into words
func (a *Analyzer) tokenize(text string) []string {
	// Split on whitespace and punctuation
	re := regexp.MustCompile(`[^\p{L}\p{N}]+`)
	parts := re.Split(text, -1)

	var tokens []string
	for _, part := range parts {
		if len(part) > 0 {
			tokens = append(tokens, part)
		}
	}

	return tokens
}

// defaultStopWords returns common English stop words
func defaultStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "but", "by",
		"for", "if", "in", "into", "is", "it", "no", "not", "of",
		"on", "or", "such", "that", "the", "their", "then", "there",
		"these", "they", "this", "to", "was", "will", "with",
		// Additional common words
		"i", "you", "he", "she", "we", "they", "me", "him", "her",
		"us", "them", "what", "which", "who", "when", "where", "why",
		"how", "all", "each", "every", "both", "few", "more", "most",
		"other", "some", "can", "could", "may", "might", "must",
		"shall", "should", "would", "am", "been", "being", "have",
		"has", "had", "do", "does", "did", "doing",
	}

	stopWords := make(map[string]bool)
	for _, word := range words {
		stopWords[word] = true
	}

	return stopWords
}
