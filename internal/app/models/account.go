package models

import (
	"sort"

	"github.com/yigit/freshman/internal/pkg/auth"
)

// SortByPrecedence orders candidates for token: student-id matches first,
// then ticket matches, then name matches, the lowest row id winning within
// a kind. Records that do not match token at all are dropped.
func SortByPrecedence(candidates []*StudentRecord, token string) []*StudentRecord {
	matched := make([]*StudentRecord, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && c.Kind(token) != 0 {
			matched = append(matched, c)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ki, kj := matched[i].Kind(token), matched[j].Kind(token)
		if ki != kj {
			return ki < kj
		}
		return matched[i].ID < matched[j].ID
	})
	return matched
}

// ResolveAccount returns the first candidate, in precedence order, whose
// secret verifies. The bool is false when nothing matches.
func ResolveAccount(candidates []*StudentRecord, token, secret string) (*StudentRecord, bool) {
	for _, c := range SortByPrecedence(candidates, token) {
		if auth.VerifySecret(c.Secret, secret) {
			return c, true
		}
	}
	return nil, false
}

// FirstBoundTo returns the highest-precedence candidate bound to uid
func FirstBoundTo(candidates []*StudentRecord, token string, uid int32) (*StudentRecord, bool) {
	for _, c := range SortByPrecedence(candidates, token) {
		if c.IsBoundTo(uid) {
			return c, true
		}
	}
	return nil, false
}
