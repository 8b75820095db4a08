package report

import (
	"regexp"
	"time"
)

// validUntilPattern matches the `"valid_until": "<value>"` fragment the
// payment writer embeds in event metadata. The metadata carries no
// enforced schema, so extraction is best effort.
var validUntilPattern = regexp.MustCompile(`"valid_until": "([^"]+)"`)

// ParseValidUntil extracts the payment expiration embedded in a
// metadata string. The MM/YY value is interpreted as the first day of
// that month. Returns false when the fragment is absent or does not
// parse; it never errors.
func ParseValidUntil(meta string) (time.Time, bool) {
	m := validUntilPattern.FindStringSubmatch(meta)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("01/06", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
