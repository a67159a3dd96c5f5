package provider

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/sirkon/protoguard/internal/facts"
)

const (
	// DefaultPrefix is the prefix of directive comments, without the leading "//".
	DefaultPrefix = "protoguard:"

	// DefaultTagKey is the struct tag key holding member field numbers.
	DefaultTagKey = "proto"
)

// predefinedDirectives returns directive names understood out of the box merged
// with custom aliases. Predefined names win over aliases.
func predefinedDirectives(custom map[string]facts.Kind) map[string]facts.Kind {
	predefined := map[string]facts.Kind{
		"contract": facts.KindContract,
		"include":  facts.KindInclude,
		"reserved": facts.KindReserved,
		"partial":  facts.KindPartialMember,
		"ignore":   facts.KindIgnore,
	}

	if custom == nil {
		custom = make(map[string]facts.Kind)
	} else {
		custom = maps.Clone(custom)
	}
	maps.Insert(custom, maps.All(predefined))

	return custom
}

// word is a single word of a directive line.
type word struct {
	text   string
	quoted bool
}

// tokenize splits a directive body into words. Quoted words may contain spaces and
// are unquoted with Go rules. Everything after a "//" word start is a comment.
func tokenize(s string) ([]word, error) {
	var res []word
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" || strings.HasPrefix(s, "//") {
			return res, nil
		}

		switch s[0] {
		case '"', '`':
			end := quotedEnd(s)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted string in %q", s)
			}
			v, err := strconv.Unquote(s[:end])
			if err != nil {
				return nil, fmt.Errorf("unquote %s: %w", s[:end], err)
			}
			res = append(res, word{text: v, quoted: true})
			s = s[end:]

		default:
			end := strings.IndexAny(s, " \t")
			if end < 0 {
				end = len(s)
			}
			res = append(res, word{text: s[:end]})
			s = s[end:]
		}
	}
}

// quotedEnd returns the index right after the closing quote of a quoted string at
// the start of s, -1 if there is no closing quote.
func quotedEnd(s string) int {
	q := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if q == '"' {
				i++
			}
		case q:
			return i + 1
		}
	}

	return -1
}

// splitKeyValue splits "key=value" words. ok is false for words without "=".
func splitKeyValue(s string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", false
	}

	return key, value, true
}

// splitRange splits "lo-hi" words. A leading minus belongs to lo.
func splitRange(s string) (lo, hi string, ok bool) {
	if len(s) < 3 {
		return "", "", false
	}
	i := strings.IndexByte(s[1:], '-')
	if i < 0 {
		return "", "", false
	}
	i++

	return s[:i], s[i+1:], true
}

// parseTag parses struct tag values like "3,name=title". The number part is
// returned as is for later resolution.
func parseTag(tag string) (number string, named map[string]string) {
	parts := strings.Split(tag, ",")
	number = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		k, v, ok := splitKeyValue(strings.TrimSpace(p))
		if !ok {
			continue
		}
		if named == nil {
			named = map[string]string{}
		}
		named[k] = v
	}

	return number, named
}
