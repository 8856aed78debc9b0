package ui

import (
	"strconv"
	"strings"
)

// Color is one of the eight basic terminal colors. The zero value is the
// terminal's default color.
type Color uint8

// The basic colors.
const (
	Black Color = iota + 1
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = [...]string{"default",
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "color" + strconv.Itoa(int(c))
}

// Style is the appearance of a Segment.
type Style struct {
	Foreground Color
	Background Color
	Bold       bool
	Dim        bool
	Underlined bool
}

// SGR returns the parameters of the SGR escape sequence selecting the style,
// or "" for the default style.
func (s Style) SGR() string {
	var params []string
	for _, attr := range []struct {
		on   bool
		code string
	}{{s.Bold, "1"}, {s.Dim, "2"}, {s.Underlined, "4"}} {
		if attr.on {
			params = append(params, attr.code)
		}
	}
	if s.Foreground != 0 {
		params = append(params, strconv.Itoa(29+int(s.Foreground)))
	}
	if s.Background != 0 {
		params = append(params, strconv.Itoa(39+int(s.Background)))
	}
	return strings.Join(params, ";")
}

// Styling modifies a Style. Stylings are comparable values, so regions and
// themes holding them can be compared in tests.
type Styling interface{ apply(*Style) }

// Stylings used by the shell.
var (
	FgRed     Styling = fg(Red)
	FgGreen   Styling = fg(Green)
	FgYellow  Styling = fg(Yellow)
	FgBlue    Styling = fg(Blue)
	FgMagenta Styling = fg(Magenta)
	FgCyan    Styling = fg(Cyan)

	BgRed Styling = bg(Red)

	Bold       Styling = attr(1)
	Dim        Styling = attr(2)
	Underlined Styling = attr(4)
)

type fg Color
type bg Color
type attr uint8
type joined []Styling

func (c fg) apply(s *Style) { s.Foreground = Color(c) }
func (c bg) apply(s *Style) { s.Background = Color(c) }

func (a attr) apply(s *Style) {
	switch a {
	case 1:
		s.Bold = true
	case 2:
		s.Dim = true
	case 4:
		s.Underlined = true
	}
}

func (j joined) apply(s *Style) { *s = ApplyStyling(*s, j...) }

// Stylings combines several stylings into one, applied in order.
func Stylings(ts ...Styling) Styling { return joined(ts) }

// ApplyStyling returns s with the stylings applied in order. Nil stylings are
// skipped.
func ApplyStyling(s Style, ts ...Styling) Style {
	for _, t := range ts {
		if t != nil {
			t.apply(&s)
		}
	}
	return s
}

// StyleSegment returns a copy of seg with the stylings applied.
func StyleSegment(seg *Segment, ts ...Styling) *Segment {
	return &Segment{Style: ApplyStyling(seg.Style, ts...), Text: seg.Text}
}

// StyleText returns a copy of t with the stylings applied to every segment.
func StyleText(t Text, ts ...Styling) Text {
	styled := make(Text, len(t))
	for i, seg := range t {
		styled[i] = StyleSegment(seg, ts...)
	}
	return styled
}
