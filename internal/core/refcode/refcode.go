// Package refcode builds the short deterministic reference codes that act as
// the idempotency keys for upload. Identical inputs always yield identical
// codes; re-running a scrape therefore updates instead of duplicating.
package refcode

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	"rental-sync-service/internal/core/extract"
)

// MaxLength is the hard ceiling the inventory system puts on reference
// codes. It must never be exceeded.
const MaxLength = 30

const propertySuffix = "-001"

// Slugify folds accents and turns whitespace runs into single hyphens.
// Case is preserved: the unit-code derivation takes segment initials, and
// dropping case here would erase them.
func Slugify(s string) string {
	s = extract.FoldAccents(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}

// PropertyCode builds "<city>-<slugified name>-001". When that exceeds the
// ceiling the city segment is dropped whole; if the name alone still does not
// fit, trailing name segments are dropped one at a time. A name whose single
// remaining segment is still too long is shortened to a prefix plus a hash
// tag: plain mid-word cuts could collide across distinct names.
func PropertyCode(name, city string) string {
	nameSlug := Slugify(name)
	citySlug := strings.ToLower(Slugify(city))

	code := citySlug + "-" + nameSlug + propertySuffix
	if citySlug == "" {
		code = nameSlug + propertySuffix
	}
	if len(code) <= MaxLength {
		return code
	}

	code = nameSlug + propertySuffix
	for len(code) > MaxLength {
		segments := strings.Split(nameSlug, "-")
		if len(segments) <= 1 {
			return shortenSlug(nameSlug)
		}
		nameSlug = strings.Join(segments[:len(segments)-1], "-")
		code = nameSlug + propertySuffix
	}
	return code
}

// shortenSlug folds an irreducible over-long slug into
// "<prefix>-<8 hex of sha256>-001". The hash is taken over the whole slug, so
// two names sharing a prefix still get distinct codes, and the same name
// always gets the same one.
func shortenSlug(slug string) string {
	sum := sha256.Sum256([]byte(slug))
	tag := fmt.Sprintf("%x", sum[:4])

	keep := MaxLength - len(propertySuffix) - len(tag) - 1
	prefix := slug
	for len(prefix) > keep {
		_, size := utf8.DecodeLastRuneInString(prefix)
		prefix = prefix[:len(prefix)-size]
	}
	return prefix + "-" + tag + propertySuffix
}

// UnitCode derives a unit's code from its parent property code and the
// unit's zero-based index. For hyphen-delimited property codes it takes the
// first letter of every segment except the last, uppercased and
// hyphen-joined; a hyphenless code is used as-is. The appended ordinal is
// 1-based and zero-padded to three digits:
//
//	UnitCode("malaga-Malaga-Centro-001", 1) == "M-M-C-002"
func UnitCode(propertyCode string, index int) string {
	ordinal := fmt.Sprintf("-%03d", index+1)

	if !strings.Contains(propertyCode, "-") {
		return propertyCode + ordinal
	}

	segments := strings.Split(propertyCode, "-")
	initials := make([]string, 0, len(segments)-1)
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(seg)
		initials = append(initials, strings.ToUpper(string(first)))
	}
	return strings.Join(initials, "-") + ordinal
}
