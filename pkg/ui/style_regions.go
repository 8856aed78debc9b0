package ui

import (
	"cmp"
	"slices"

	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/diag"
)

// StylingRegion is a range of source code and the styling a highlighter
// assigns to it.
type StylingRegion struct {
	diag.Ranging
	Styling  Styling
	Priority int
}

// StyleRegions renders s with the styling of each region applied to its
// range. Text outside all regions is unstyled.
//
// Regions are applied in order of their start. Among regions starting at the
// same position only the one with the highest priority is used, and a region
// starting inside an earlier one is ignored. Regions are clipped to s.
func StyleRegions(s string, regions []StylingRegion) Text {
	var text Text
	pos := 0
	for _, r := range usableRegions(regions, len(s)) {
		if pos < r.From {
			text = append(text, &Segment{Text: s[pos:r.From]})
		}
		text = append(text, StyleSegment(&Segment{Text: s[r.From:r.To]}, r.Styling))
		pos = r.To
	}
	if pos < len(s) {
		text = append(text, &Segment{Text: s[pos:]})
	}
	return text
}

// Returns the regions to apply to a string of length n, sorted and without
// overlaps.
func usableRegions(regions []StylingRegion, n int) []StylingRegion {
	sorted := slices.Clone(regions)
	slices.SortStableFunc(sorted, func(a, b StylingRegion) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(b.Priority, a.Priority)
	})
	var usable []StylingRegion
	end := 0
	for _, r := range sorted {
		if r.From < end || r.From < 0 || r.From > n || r.To < r.From {
			continue
		}
		r.To = min(r.To, n)
		usable = append(usable, r)
		end = r.To
	}
	return usable
}
