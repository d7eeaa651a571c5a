package quiz

import "fmt"

// Resolve maps a finished total score to its risk band. With well-formed
// band data exactly one band matches. If authored bands overlap, the
// match with the lowest MinScore wins deterministically and a
// WarnBandOverlap warning is returned. A nil band is a legitimate
// outcome, not an error: the score sits outside every configured band.
func Resolve(score int, bands []RiskBand) (*RiskBand, *Warning) {
	var match *RiskBand
	overlap := false

	for i := range bands {
		b := &bands[i]
		if !b.Contains(score) {
			continue
		}
		if match == nil {
			match = b
			continue
		}
		overlap = true
		if b.MinScore < match.MinScore {
			match = b
		}
	}

	if match == nil {
		return nil, nil
	}

	var warn *Warning
	if overlap {
		warn = &Warning{
			Code:   WarnBandOverlap,
			Detail: fmt.Sprintf("multiple bands claim score %d; resolved to %q", score, match.Label),
		}
	}

	out := *match
	return &out, warn
}
