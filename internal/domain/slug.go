package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Property key validation errors
var (
	ErrKeyTooShort           = errors.New("property key must be at least 3 characters")
	ErrKeyTooLong            = errors.New("property key must be at most 63 characters")
	ErrKeyInvalidChars       = errors.New("property key must contain only lowercase letters, numbers, and hyphens")
	ErrKeyInvalidStart       = errors.New("property key must start with a lowercase letter")
	ErrKeyInvalidEnd         = errors.New("property key must end with a lowercase letter or number")
	ErrKeyConsecutiveHyphens = errors.New("property key cannot contain consecutive hyphens")
)

const maxKeyLength = 63

// keyRegex matches keys that start with a letter, end with a letter or digit
// and hold only lowercase letters, digits and hyphens.
var keyRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)

// ValidateKey checks a property key. The key is embedded in the widget snippet,
// so it must stay URL and attribute safe.
func ValidateKey(key string) error {
	if len(key) < 3 {
		return ErrKeyTooShort
	}
	if len(key) > maxKeyLength {
		return ErrKeyTooLong
	}
	if strings.Contains(key, "--") {
		return ErrKeyConsecutiveHyphens
	}

	if !keyRegex.MatchString(key) {
		first := rune(key[0])
		if !unicode.IsLower(first) || !unicode.IsLetter(first) {
			return ErrKeyInvalidStart
		}

		last := rune(key[len(key)-1])
		if !unicode.IsLower(last) && !unicode.IsDigit(last) {
			return ErrKeyInvalidEnd
		}

		return ErrKeyInvalidChars
	}

	return nil
}

// GenerateKey derives a property key from a site name or domain.
// Dots, spaces and underscores become hyphens, everything else outside
// [a-z0-9-] is dropped, and short results get a "-site" suffix.
func GenerateKey(name string) string {
	if name == "" {
		return ""
	}

	key := strings.ToLower(name)
	key = strings.NewReplacer(" ", "-", "_", "-", ".", "-").Replace(key)

	var b strings.Builder
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	key = b.String()

	for strings.Contains(key, "--") {
		key = strings.ReplaceAll(key, "--", "-")
	}

	// keys must start with a letter
	key = strings.TrimLeftFunc(key, func(r rune) bool { return r < 'a' || r > 'z' })
	key = strings.Trim(key, "-")

	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	key = strings.TrimRight(key, "-")

	if len(key) > 0 && len(key) < 3 {
		key += "-site"
	}

	return key
}

// KeyWithSuffix returns base with a numeric suffix, trimming base so the
// result still fits the key length limit. n <= 1 returns base unchanged.
func KeyWithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	suffix := "-" + strconv.Itoa(n)
	if len(base)+len(suffix) > maxKeyLength {
		base = strings.TrimRight(base[:maxKeyLength-len(suffix)], "-")
	}
	return base + suffix
}
