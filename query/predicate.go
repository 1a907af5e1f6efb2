// Package query turns a search box string into a predicate tree that can be
// evaluated in memory or translated into SQL by the persistence layer.
package query

import (
	"fmt"
	"strings"

	"spacedock-search/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Predicate is one node of a filter expression over mods.
type Predicate interface {
	Match(m *models.Mod) bool
	String() string
}

// And matches when every child matches; an empty And matches everything.
type And []Predicate

// Or matches when any child matches; an empty Or matches nothing.
type Or []Predicate

// Not negates its inner predicate.
type Not struct {
	Inner Predicate
}

// VersionMatch: some version targets Version exactly or a release under it.
type VersionMatch struct {
	Version string
}

// UserEquals compares the owner's username exactly (case-sensitive).
type UserEquals struct {
	Username string
}

// GameID restricts to one game by id.
type GameID struct {
	ID uint
}

// GameName fuzzy-matches the game's name or short name.
type GameName struct {
	Name string
}

// CountField names a numeric mod counter.
type CountField string

const (
	FieldDownloads CountField = "download_count"
	FieldFollowers CountField = "follower_count"
)

// CompareOp is a strict numeric comparison.
type CompareOp string

const (
	OpGreater CompareOp = ">"
	OpLess    CompareOp = "<"
)

// CountCompare compares a counter against Value.
type CountCompare struct {
	Field CountField
	Op    CompareOp
	Value int
}

// TextField names a free-text mod column.
type TextField string

const (
	FieldName             TextField = "name"
	FieldShortDescription TextField = "short_description"
	FieldDescription      TextField = "description"
)

// FieldContains is a case-insensitive substring match on one column.
type FieldContains struct {
	Field TextField
	Text  string
}

func (p And) Match(m *models.Mod) bool {
	for _, child := range p {
		if !child.Match(m) {
			return false
		}
	}
	return true
}

func (p Or) Match(m *models.Mod) bool {
	for _, child := range p {
		if child.Match(m) {
			return true
		}
	}
	return false
}

func (p Not) Match(m *models.Mod) bool {
	return !p.Inner.Match(m)
}

func (p VersionMatch) Match(m *models.Mod) bool {
	return m.HasVersionFor(p.Version)
}

func (p UserEquals) Match(m *models.Mod) bool {
	return m.User.Username == p.Username
}

func (p GameID) Match(m *models.Mod) bool {
	return m.GameID == p.ID
}

func (p GameName) Match(m *models.Mod) bool {
	return MatchGameName(p.Name, m.Game)
}

func (p CountCompare) Match(m *models.Mod) bool {
	var v int
	switch p.Field {
	case FieldDownloads:
		v = m.DownloadCount
	case FieldFollowers:
		v = m.FollowerCount
	default:
		return false
	}
	if p.Op == OpGreater {
		return v > p.Value
	}
	return v < p.Value
}

func (p FieldContains) Match(m *models.Mod) bool {
	var v string
	switch p.Field {
	case FieldName:
		v = m.Name
	case FieldShortDescription:
		v = m.ShortDescription
	case FieldDescription:
		v = m.Description
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(p.Text))
}

// MatchGameName is the fuzzy rule shared by in-memory and SQL evaluation.
func MatchGameName(name string, game models.Game) bool {
	return fuzzy.MatchNormalizedFold(name, game.Name) || fuzzy.MatchNormalizedFold(name, game.Short)
}

// TextMatch is the predicate for a bare search word.
func TextMatch(text string) Predicate {
	return Or{
		FieldContains{Field: FieldName, Text: text},
		FieldContains{Field: FieldShortDescription, Text: text},
		FieldContains{Field: FieldDescription, Text: text},
	}
}

func (p And) String() string { return join("AND", p) }
func (p Or) String() string  { return join("OR", p) }
func (p Not) String() string { return "NOT " + p.Inner.String() }

func (p VersionMatch) String() string  { return "ver:" + p.Version }
func (p UserEquals) String() string    { return "user:" + p.Username }
func (p GameID) String() string        { return fmt.Sprintf("game:%d", p.ID) }
func (p GameName) String() string      { return "game:" + p.Name }
func (p FieldContains) String() string { return fmt.Sprintf("%s~%q", p.Field, p.Text) }

func (p CountCompare) String() string {
	return fmt.Sprintf("%s%s%d", p.Field, p.Op, p.Value)
}

func join(op string, children []Predicate) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}
