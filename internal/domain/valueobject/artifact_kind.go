package valueobject

import (
	"fmt"
	"strings"
)

// ArtifactKind is an immutable value object classifying an identifier under
// investigation. The kind is fixed once classified for a run; only a
// company-to-domain redirect produces a new run with a new kind.
type ArtifactKind struct {
	value string
}

var (
	KindURL     = ArtifactKind{value: "url"}
	KindDomain  = ArtifactKind{value: "domain"}
	KindEmail   = ArtifactKind{value: "email"}
	KindPhone   = ArtifactKind{value: "phone"}
	KindCompany = ArtifactKind{value: "company"}
)

// ArtifactKindFromString reconstructs an ArtifactKind from its string representation.
func ArtifactKindFromString(s string) (ArtifactKind, error) {
	switch s {
	case "url":
		return KindURL, nil
	case "domain":
		return KindDomain, nil
	case "email":
		return KindEmail, nil
	case "phone":
		return KindPhone, nil
	case "company":
		return KindCompany, nil
	default:
		return ArtifactKind{}, fmt.Errorf("invalid artifact kind: %s", s)
	}
}

// ClassifyQuery derives the ArtifactKind for a raw query string. Rules are
// evaluated in priority order and the first match wins:
//
//  1. http:// or https:// prefix -> url
//  2. contains "." -> domain
//  3. contains "@" -> email
//  4. all digits after removing "+" and spaces -> phone
//  5. otherwise -> company
//
// The dot rule deliberately precedes the @ rule, so an email address whose
// local or domain part contains a dot classifies as domain. This reproduces
// the behavior the rest of the pipeline was built against; do not reorder.
func ClassifyQuery(raw string) ArtifactKind {
	q := strings.ToLower(strings.TrimSpace(raw))

	if strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://") {
		return KindURL
	}
	if strings.Contains(q, ".") {
		return KindDomain
	}
	if strings.Contains(q, "@") {
		return KindEmail
	}
	if isAllDigits(strings.ReplaceAll(strings.ReplaceAll(q, "+", ""), " ", "")) {
		return KindPhone
	}
	return KindCompany
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the string representation.
func (k ArtifactKind) String() string {
	return k.value
}

// IsZero returns true if the kind has not been set.
func (k ArtifactKind) IsZero() bool {
	return k.value == ""
}

// Equal checks equality with another ArtifactKind.
func (k ArtifactKind) Equal(other ArtifactKind) bool {
	return k.value == other.value
}

// Scorable reports whether the pipeline has signal providers for this kind.
// Email and phone currently fall through to a placeholder result.
func (k ArtifactKind) Scorable() bool {
	switch k.value {
	case "url", "domain", "company":
		return true
	default:
		return false
	}
}
