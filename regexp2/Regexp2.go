// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package regexp2 translates SQL pattern-matching syntax (SIMILAR TO /
// LIKE style '%' and '_' wildcards) into a standard library regexp.
package regexp2

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// escapeChar is the rune used as the escape character in LIKE/SIMILAR TO patterns.
const escapeChar = rune(0x5C) // backslash

// MaxCharInRegex is the maximum number of characters in a pattern.
const MaxCharInRegex = 1000

// IsSupported determines whether expr is a supported pattern; returns nil if supported.
func IsSupported(expr string) error {
	nRunesExpr := utf8.RuneCountInString(expr)
	if nRunesExpr > MaxCharInRegex {
		return fmt.Errorf("pattern contains %v code-points which is more than the max %v", nRunesExpr, MaxCharInRegex)
	}
	return nil
}

// RegexType selects how Compile interprets expr.
type RegexType int

const (
	// SimilarTo treats '%' as any-length wildcard and '_' as single-char wildcard (SQL LIKE).
	SimilarTo RegexType = iota
	// GolangRegexp passes expr through to regexp.Compile unmodified.
	GolangRegexp
)

// Compile turns expr into a *regexp.Regexp according to regexType.
func Compile(expr string, regexType RegexType) (regex *regexp.Regexp, err error) {
	exprOrg := expr

	if regexType == SimilarTo {
		exprRunes := []rune(expr)
		newRegexRunes := make([]rune, 0, len(exprRunes))
		for index, r := range exprRunes {
			escaped := (index > 0) && (exprRunes[index-1] == escapeChar)
			switch r {
			case '.', '^', '$':
				if escaped {
					newRegexRunes = append(newRegexRunes, r)
				} else {
					newRegexRunes = append(newRegexRunes, escapeChar, r)
				}
			case '%':
				if escaped {
					newRegexRunes = append(newRegexRunes, r)
				} else {
					newRegexRunes = append(newRegexRunes, '.', '*')
				}
			case '_':
				if escaped {
					newRegexRunes = append(newRegexRunes, r)
				} else {
					newRegexRunes = append(newRegexRunes, '.')
				}
			default:
				newRegexRunes = append(newRegexRunes, r)
			}
		}
		expr = string(newRegexRunes)
	}

	switch regexType {
	case SimilarTo:
		if !strings.HasPrefix(exprOrg, "^") {
			expr = "^(" + expr + ")"
		}
		if !strings.HasSuffix(exprOrg, "$") {
			expr = "(" + expr + ")$"
		}
	case GolangRegexp:
		// pass through unmodified
	}
	return regexp.Compile(expr)
}
