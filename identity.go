package main

import (
	"errors"
	"strings"
)

const (
	identityDigits = 13
	identityLength = 15
)

var ErrInvalidIdentity = errors.New("enter a complete, valid identity code")

// IdentityCode is a canonical DDDD-DDDD-DDDDD identity.
type IdentityCode string

func (c IdentityCode) String() string {
	return string(c)
}

// NormalizeIdentity drops every non-digit, keeps at most 13 digits and puts
// separators back after the 4th and 8th digit once there is something past
// them. It is meant to run on every keystroke.
func NormalizeIdentity(raw string) string {
	var digits strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
			if digits.Len() == identityDigits {
				break
			}
		}
	}

	d := digits.String()
	switch {
	case len(d) > 8:
		return d[:4] + "-" + d[4:8] + "-" + d[8:]
	case len(d) > 4:
		return d[:4] + "-" + d[4:]
	default:
		return d
	}
}

// ParseIdentity accepts only the full canonical form, it does not normalize.
func ParseIdentity(s string) (IdentityCode, error) {
	s = strings.TrimSpace(s)
	if len(s) != identityLength {
		return "", ErrInvalidIdentity
	}

	for i, c := range s {
		if i == 4 || i == 9 {
			if c != '-' {
				return "", ErrInvalidIdentity
			}
			continue
		}
		if c < '0' || c > '9' {
			return "", ErrInvalidIdentity
		}
	}

	return IdentityCode(s), nil
}
