package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidQuery is wrapped by every error Parse returns.
var ErrInvalidQuery = errors.New("invalid search query")

// SyntaxError points at the offending search term.
type SyntaxError struct {
	Term   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid search term %q: %s", e.Term, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidQuery
}

// Token is one search term.
type Token struct {
	Negated bool
	Value   string // quotes removed
}

var termPattern = regexp.MustCompile(`(-?)("[^"]*"|\S+)`)

// Tokenize splits text into terms: an optional leading '-' followed by a
// double-quoted phrase or a run of non-space characters.
func Tokenize(text string) []Token {
	var tokens []Token
	for _, m := range termPattern.FindAllStringSubmatch(text, -1) {
		value := strings.ReplaceAll(m[2], `"`, "")
		if value == "" {
			continue
		}
		tokens = append(tokens, Token{Negated: m[1] == "-", Value: value})
	}
	return tokens
}

// Parse builds the AND of every term's predicate.
func Parse(text string) (Predicate, error) {
	tokens := Tokenize(text)
	preds := make(And, 0, len(tokens))
	for _, tok := range tokens {
		p, err := termPredicate(tok.Value)
		if err != nil {
			return nil, err
		}
		if tok.Negated {
			p = Not{Inner: p}
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func termPredicate(term string) (Predicate, error) {
	switch {
	case strings.HasPrefix(term, "ver:"):
		v, err := fieldValue(term, "ver:")
		if err != nil {
			return nil, err
		}
		return VersionMatch{Version: v}, nil

	case strings.HasPrefix(term, "user:"):
		v, err := fieldValue(term, "user:")
		if err != nil {
			return nil, err
		}
		return UserEquals{Username: v}, nil

	case strings.HasPrefix(term, "game:"):
		v, err := fieldValue(term, "game:")
		if err != nil {
			return nil, err
		}
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			return GameID{ID: uint(id)}, nil
		}
		return GameName{Name: v}, nil

	case strings.HasPrefix(term, "downloads:"):
		return countPredicate(term, "downloads:", FieldDownloads)

	case strings.HasPrefix(term, "followers:"):
		return countPredicate(term, "followers:", FieldFollowers)

	default:
		return TextMatch(term), nil
	}
}

func fieldValue(term, prefix string) (string, error) {
	v := term[len(prefix):]
	if v == "" {
		return "", &SyntaxError{Term: term, Reason: "missing value"}
	}
	return v, nil
}

func countPredicate(term, prefix string, field CountField) (Predicate, error) {
	rest := term[len(prefix):]
	if rest == "" {
		return nil, &SyntaxError{Term: term, Reason: "expected > or < followed by a number"}
	}
	op := CompareOp(rest[:1])
	if op != OpGreater && op != OpLess {
		return nil, &SyntaxError{Term: term, Reason: "expected > or < followed by a number"}
	}
	n, err := strconv.Atoi(rest[1:])
	if err != nil {
		return nil, &SyntaxError{Term: term, Reason: "not a number"}
	}
	return CountCompare{Field: field, Op: op, Value: n}, nil
}
