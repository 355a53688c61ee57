package model

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// ErrEmptyQuery is returned when a verification is requested for a blank query.
var ErrEmptyQuery = fmt.Errorf("empty query")

// Identifier is a classified query. For url and domain kinds Value is the
// normalized bare host (scheme and path stripped, lower-cased, trimmed),
// which is the artifact value carried through the whole run. For the other
// kinds Value is the trimmed raw query.
type Identifier struct {
	Raw   string
	Value string
	Kind  valueobject.ArtifactKind
}

// NewIdentifier classifies and normalizes a raw query. When kind is the zero
// value the kind is derived with valueobject.ClassifyQuery; a caller may pass
// an explicit kind to skip auto-detection.
func NewIdentifier(raw string, kind valueobject.ArtifactKind) (Identifier, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return Identifier{}, ErrEmptyQuery
	}

	if kind.IsZero() {
		kind = valueobject.ClassifyQuery(q)
	}

	value := q
	if kind.Equal(valueobject.KindURL) || kind.Equal(valueobject.KindDomain) {
		value = NormalizeHost(q)
	}

	return Identifier{Raw: q, Value: value, Kind: kind}, nil
}

// NormalizeHost strips scheme and path from a URL or domain string and
// returns the lower-cased bare host. Inputs without a scheme are returned
// trimmed and lower-cased.
func NormalizeHost(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		if u, err := url.Parse(v); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	return v
}

// RegistrableDomain returns the eTLD+1 for the identifier's host, falling
// back to the host itself when the public suffix list has no answer. Only
// meaningful for url and domain kinds; recorded as artifact metadata.
func (i Identifier) RegistrableDomain() string {
	registrable, err := publicsuffix.EffectiveTLDPlusOne(i.Value)
	if err != nil {
		return i.Value
	}
	return registrable
}
