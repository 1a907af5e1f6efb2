package utils

import (
	"regexp"
	"strings"
)

// Split words on one or more non-alphanumerics
var wordSplit = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Words that say nothing about what a mod does. We care about things like
// "rocket" and "propellant" and "deltaV".
var meaningless = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "an", "this", "these", "that", "those",
		"and", "or", "but", "however",
		"as", "such", "than", "there",
		"me", "my", "we", "us", "our",
		"you", "your", "he", "him", "she", "her", "it",
		"they", "them",
		"to", "from", "in", "on", "for", "with", "of", "into", "at", "by",
		"what", "because", "then",
		"is", "be", "been", "are", "get", "getting", "has", "have", "come",
		"do", "does",
		"will", "make", "work", "also", "more",
		"should", "so", "some", "like", "likely", "can", "seems",
		"really", "very", "each", "yup", "which",
		"ve", "re",
		"accommodate", "manner", "therefore", "ever", "probably", "almost",
		"something",
		"mod", "pack", "contains", "ksp",
		"http", "https", "www", "youtube", "imgur", "com",
		"github", "githubusercontent",
		"forum", "kerbalspaceprogram", "index", "thread", "topic", "php",
		"kerbal", "space", "continued", "revived", "updated", "redux",
		"inc", "plus",
	} {
		meaningless[w] = struct{}{}
	}
}

// WordSet is an unordered set of normalised words.
type WordSet map[string]struct{}

// NewWordSet builds a set from the given words as-is.
func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// MeaningfulWords tokenizes free text into lowercase words worth comparing.
// Every piece is kept whole and also split at its uppercase letters, so
// "KerbalEngineer" contributes "kerbalengineer" and "engineer".
func MeaningfulWords(text string) WordSet {
	words := make(WordSet)
	for _, piece := range wordSplit.Split(text, -1) {
		addMeaningful(words, piece)
		for _, part := range splitStudly(piece) {
			addMeaningful(words, part)
		}
	}
	return words
}

func addMeaningful(words WordSet, w string) {
	if len(w) <= 1 || isNumeric(w) {
		return
	}
	w = strings.ToLower(w)
	if _, skip := meaningless[w]; skip {
		return
	}
	words[w] = struct{}{}
}

// splitStudly cuts before every uppercase ASCII letter.
func splitStudly(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' && i > start {
			parts = append(parts, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// WordsSimilarity is the Jaccard index of two word sets, 0 when both are empty.
func WordsSimilarity(a, b WordSet) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	inBoth := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inBoth++
		}
	}
	all := len(a) + len(b) - inBoth
	if all == 0 {
		return 0
	}
	return float64(inBoth) / float64(all)
}
