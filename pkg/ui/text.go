// Package ui contains types for rendering results as styled text.
package ui

import (
	"fmt"
	"strings"
)

// Text is a sequence of styled Segments. It is the renderable projection
// every result in the shell is reduced to.
type Text []*Segment

// Segment is a string that has some style applied to it.
type Segment struct {
	Style
	Text string
}

// T constructs a new Text with the given content and the given Styling's
// applied.
func T(s string, ts ...Styling) Text {
	return StyleText(Text{&Segment{Text: s}}, ts...)
}

// Concat returns a new Text with the given Text's appended, leaving t
// unmodified.
func (t Text) Concat(ts ...Text) Text {
	out := append(Text(nil), t...)
	for _, t2 := range ts {
		out = append(out, t2...)
	}
	return out
}

// String returns the text without any styling.
func (t Text) String() string {
	var sb strings.Builder
	for _, seg := range t {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// VTString renders the styled text using VT-style escape sequences.
func (t Text) VTString() string {
	var sb strings.Builder
	for _, seg := range t {
		sb.WriteString(seg.VTString())
	}
	return sb.String()
}

// VTString renders the styled segment using VT-style escape sequences. Any
// existing SGR state will be cleared.
func (s *Segment) VTString() string {
	sgr := s.SGR()
	if sgr == "" {
		return "\033[m" + s.Text
	}
	return fmt.Sprintf("\033[;%sm%s\033[m", sgr, s.Text)
}
