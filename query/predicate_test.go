package query

import (
	"testing"

	"spacedock-search/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureMods() []models.Mod {
	ksp := models.Game{ID: 1, Name: "Kerbal Space Program", Short: "kerbal-space-program"}
	other := models.Game{ID: 2, Name: "Juno: New Origins", Short: "juno"}

	return []models.Mod{
		{
			ID: 1, Name: "foo bar", ShortDescription: "Adds foo", GameID: 1, Game: ksp,
			User: models.User{Username: "Alice"}, DownloadCount: 500, FollowerCount: 20,
			Versions: []models.ModVersion{{GameVersion: models.GameVersion{FriendlyVersion: "1.12.3"}}},
		},
		{
			ID: 2, Name: "Rocket Parts", Description: "More tanks", GameID: 1, Game: ksp,
			User: models.User{Username: "alice2"}, DownloadCount: 10, FollowerCount: 1,
			Versions: []models.ModVersion{{GameVersion: models.GameVersion{FriendlyVersion: "1.2"}}},
		},
		{
			ID: 3, Name: "Planes", ShortDescription: "Wings", GameID: 2, Game: other,
			User: models.User{Username: "Bob"}, DownloadCount: 50, FollowerCount: 5,
			Versions: []models.ModVersion{{GameVersion: models.GameVersion{FriendlyVersion: "1.20"}}},
		},
	}
}

func matchingIDs(t *testing.T, text string) []uint {
	t.Helper()
	p, err := Parse(text)
	require.NoError(t, err)

	var ids []uint
	mods := fixtureMods()
	for i := range mods {
		if p.Match(&mods[i]) {
			ids = append(ids, mods[i].ID)
		}
	}
	return ids
}

func TestPredicateMatch(t *testing.T) {
	tests := []struct {
		query    string
		expected []uint
	}{
		{"", []uint{1, 2, 3}},
		{"foo", []uint{1}},
		{"-foo", []uint{2, 3}},
		{"TANKS", []uint{2}},
		{`"rocket parts"`, []uint{2}},
		{"user:Alice", []uint{1}},
		{"user:alice", nil},
		{"ver:1.12", []uint{1}},
		{"ver:1.2", []uint{2}},
		{"ver:1", []uint{1, 2, 3}},
		{"ver:1.20", []uint{3}},
		{"game:2", []uint{3}},
		{"game:kerbal", []uint{1, 2}},
		{"game:juno", []uint{3}},
		{"downloads:>49", []uint{1, 3}},
		{"downloads:<50", []uint{2}},
		{"followers:>4 -user:Bob", []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchingIDs(t, tt.query))
		})
	}
}

func TestEmptyOrMatchesNothing(t *testing.T) {
	m := fixtureMods()[0]
	assert.False(t, Or{}.Match(&m))
	assert.True(t, And{}.Match(&m))
}

func TestPredicateString(t *testing.T) {
	p, err := Parse("-user:Bob downloads:>3")
	require.NoError(t, err)
	assert.Equal(t, "(NOT user:Bob AND download_count>3)", p.String())
}
