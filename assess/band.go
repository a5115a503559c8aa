package assess

import (
	"fmt"
	"strings"
)

// Band is a named likelihood category derived from a numeric score.
type Band string

// The five likelihood bands, in ascending score order.
const (
	HighlyUnlikely Band = "Highly Unlikely"
	Unlikely       Band = "Unlikely"
	SomewhatLikely Band = "Somewhat Likely"
	Likely         Band = "Likely"
	HighlyLikely   Band = "Highly Likely"
)

// bandRange is an inclusive score interval mapped to a band.
type bandRange struct {
	band Band
	min  int
	max  int
}

// bandRanges partitions [0,100]. Matched in order, first hit wins, so
// boundary scores resolve deterministically (50 is Unlikely).
var bandRanges = []bandRange{
	{HighlyUnlikely, 0, 20},
	{Unlikely, 21, 50},
	{SomewhatLikely, 51, 65},
	{Likely, 66, 80},
	{HighlyLikely, 81, 100},
}

// BandFor returns the band whose range contains score.
func BandFor(score int) Band {
	for _, r := range bandRanges {
		if score >= r.min && score <= r.max {
			return r.band
		}
	}
	return SomewhatLikely
}

// scoringFramework renders the band table as prompt text, one band per
// line, so the prompt and the validator share a single definition.
func scoringFramework() string {
	var b strings.Builder
	for i, r := range bandRanges {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %q: %d–%d%%", string(r.band), r.min, r.max)
	}
	return b.String()
}

// bandNames returns the five band names in table order.
func bandNames() []string {
	names := make([]string, len(bandRanges))
	for i, r := range bandRanges {
		names[i] = string(r.band)
	}
	return names
}
