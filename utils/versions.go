package utils

import (
	"strings"

	"golang.org/x/mod/semver"
)

// ParseGameVersion normalises a friendly version like "1.12.3" into semver
// form ("v1.12.3"). Strings that are not dotted versions ("for WiiU") report false.
func ParseGameVersion(friendly string) (string, bool) {
	v := strings.TrimSpace(friendly)
	if v == "" {
		return "", false
	}
	if v[0] == 'V' {
		v = "v" + v[1:]
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

// VersionsAfter counts how many candidates parse and are strictly newer than current.
// An unparsable current version has nothing to compare against and yields 0.
func VersionsAfter(current string, candidates []string) int {
	cur, ok := ParseGameVersion(current)
	if !ok {
		return 0
	}
	count := 0
	for _, c := range candidates {
		parsed, ok := ParseGameVersion(c)
		if !ok {
			continue
		}
		if semver.Compare(parsed, cur) > 0 {
			count++
		}
	}
	return count
}
