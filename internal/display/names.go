// Package display holds the string helpers used when showing encounter data to a
// user: player name formatting, truncation and pseudo-tag stripping.
package display

import (
	"unicode"
	"unicode/utf8"

	"github.com/mcoot/encounterlog/internal/model"
)

// DeadPrefix is prepended to the display name of a dead entity
const DeadPrefix = "💀 "

// IsValidName reports whether word starts with an uppercase letter (Unicode Lu)
func IsValidName(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.Is(unicode.Lu, r)
}

// FormatPlayerName returns the text shown for an entity.
// Names that are not valid, or all names when hideNames is set, are replaced by
// the entity's class. Dead entities get DeadPrefix. The entity is not modified.
func FormatPlayerName(p *model.Entity, hideNames bool) string {
	if p == nil {
		return ""
	}

	name := p.Name
	if !IsValidName(name) || hideNames {
		// Class may be empty for entities the meter never identified
		name = p.Class
	}

	if p.IsDead {
		name = DeadPrefix + name
	}

	return name
}
