package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"spacedock-search/query"
)

// =============================================================================
// Predicate -> SQL
// =============================================================================

// gameResolver maps a fuzzy game name to the ids of matching games.
type gameResolver func(name string) ([]uint, error)

// buildWhere renders a predicate tree as a parenthesised WHERE fragment over
// the mods table. Every user-supplied value travels as a bind parameter.
func buildWhere(p query.Predicate, resolve gameResolver) (string, []interface{}, error) {
	switch node := p.(type) {
	case query.And:
		return joinWhere(node, " AND ", "1 = 1", resolve)

	case query.Or:
		return joinWhere(node, " OR ", "1 = 0", resolve)

	case query.Not:
		inner, args, err := buildWhere(node.Inner, resolve)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + inner + ")", args, nil

	case query.VersionMatch:
		prefix := node.Version + "."
		return "EXISTS (SELECT 1 FROM mod_versions mv JOIN game_versions gv ON gv.id = mv.game_version_id " +
				"WHERE mv.mod_id = mods.id AND (gv.friendly_version = ? OR substr(gv.friendly_version, 1, ?) = ?))",
			[]interface{}{node.Version, utf8.RuneCountInString(prefix), prefix}, nil

	case query.UserEquals:
		return "mods.user_id IN (SELECT id FROM users WHERE username = ?)", []interface{}{node.Username}, nil

	case query.GameID:
		return "mods.game_id = ?", []interface{}{node.ID}, nil

	case query.GameName:
		ids, err := resolve(node.Name)
		if err != nil {
			return "", nil, err
		}
		if len(ids) == 0 {
			return "1 = 0", nil, nil
		}
		return "mods.game_id IN ?", []interface{}{ids}, nil

	case query.CountCompare:
		column, err := countColumn(node.Field)
		if err != nil {
			return "", nil, err
		}
		op := ">"
		if node.Op == query.OpLess {
			op = "<"
		}
		return fmt.Sprintf("mods.%s %s ?", column, op), []interface{}{node.Value}, nil

	case query.FieldContains:
		column, err := textColumn(node.Field)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf(`casefold(mods.%s) LIKE ? ESCAPE '\'`, column), []interface{}{containsPattern(node.Text)}, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func joinWhere(children []query.Predicate, sep, empty string, resolve gameResolver) (string, []interface{}, error) {
	if len(children) == 0 {
		return empty, nil, nil
	}
	parts := make([]string, 0, len(children))
	var args []interface{}
	for _, child := range children {
		sql, childArgs, err := buildWhere(child, resolve)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, childArgs...)
	}
	return "(" + strings.Join(parts, sep) + ")", args, nil
}

func countColumn(f query.CountField) (string, error) {
	switch f {
	case query.FieldDownloads:
		return "download_count", nil
	case query.FieldFollowers:
		return "follower_count", nil
	}
	return "", fmt.Errorf("unknown count field %q", f)
}

func textColumn(f query.TextField) (string, error) {
	switch f {
	case query.FieldName:
		return "name", nil
	case query.FieldShortDescription:
		return "short_description", nil
	case query.FieldDescription:
		return "description", nil
	}
	return "", fmt.Errorf("unknown text field %q", f)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching text anywhere, case-folded.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}
