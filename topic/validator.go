// Package topic validates MQTT topic names and topic filters: the
// structural rules around '/' level separators and the '+'/'#' wildcard
// characters. Grounded on the teacher's (github.com/axmq/ax)
// topic/validator.go, kept independent of the wire codec package so a
// caller validating a locally-constructed subscription string does not need
// to import a codec package to do it; wire/v311.go and wire/v5.go import
// this package and translate its sentinels into the codec's own ErrorKind
// taxonomy at the call site.
package topic

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

const maxLen = 65535

// Sentinel errors, kept distinct so callers can map each to a specific
// failure reason rather than losing the distinction to one generic message.
var (
	ErrEmpty              = errors.New("topic: empty")
	ErrTooLong            = errors.New("topic: exceeds 65535 bytes")
	ErrInvalidUTF8        = errors.New("topic: invalid UTF-8")
	ErrInternalNull       = errors.New("topic: contains U+0000")
	ErrWildcardInName     = errors.New("topic: name contains wildcard character")
	ErrWildcardPosition   = errors.New("topic: wildcard in invalid position")
	ErrInvalidShareSyntax = errors.New("topic: malformed $share/ prefix")
)

// ValidateTopic validates a topic name: non-empty, no wildcards, no 0x00, at
// most 65535 bytes of valid UTF-8.
func ValidateTopic(name string) error {
	if len(name) == 0 {
		return ErrEmpty
	}
	if len(name) > maxLen {
		return ErrTooLong
	}
	if !utf8.ValidString(name) {
		return ErrInvalidUTF8
	}
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '+', '#':
			return ErrWildcardInName
		case 0:
			return ErrInternalNull
		}
	}
	return nil
}

// ValidateTopicFilter validates a topic filter: non-empty, at most 65535
// bytes of valid UTF-8, no 0x00, and '#'/'+' each occupying an entire level,
// with '#' only ever the final level.
func ValidateTopicFilter(filter string) error {
	if len(filter) == 0 {
		return ErrEmpty
	}
	if len(filter) > maxLen {
		return ErrTooLong
	}
	if !utf8.ValidString(filter) {
		return ErrInvalidUTF8
	}
	for i := 0; i < len(filter); i++ {
		if filter[i] == 0 {
			return ErrInternalNull
		}
	}

	levels := splitLevels(filter)
	for i, level := range levels {
		if level == "" {
			continue // an empty level, e.g. "a//b", is legal
		}
		if containsByte(level, '#') {
			if level != "#" || i != len(levels)-1 {
				return ErrWildcardPosition
			}
		}
		if containsByte(level, '+') && level != "+" {
			return ErrWildcardPosition
		}
	}
	return nil
}

const sharePrefix = "$share/"

// IsSharedSubscription reports whether filter carries MQTT v5's
// "$share/<group>/<filter>" prefix. The wire format itself has no opinion
// on shared subscriptions — they are a filter-string convention every
// broker in the reference corpus implements the same way.
func IsSharedSubscription(filter string) bool {
	return len(filter) >= len(sharePrefix) && filter[:len(sharePrefix)] == sharePrefix
}

// SplitSharedSubscription parses a "$share/<group>/<filter>" string into its
// group name and underlying filter, validating the filter portion with
// ValidateTopicFilter.
func SplitSharedSubscription(filter string) (group, topicFilter string, err error) {
	if !IsSharedSubscription(filter) {
		return "", "", ErrInvalidShareSyntax
	}
	rest := filter[len(sharePrefix):]
	slash := -1
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			slash = i
			break
		}
	}
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", ErrInvalidShareSyntax
	}
	group = rest[:slash]
	topicFilter = rest[slash+1:]
	if err := ValidateTopicFilter(topicFilter); err != nil {
		return "", "", err
	}
	return group, topicFilter, nil
}

func splitLevels(s string) []string {
	levels := make([]string, 0, 8)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			levels = append(levels, s[start:i])
			start = i + 1
		}
	}
	return append(levels, s[start:])
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
