package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Context is a range of text in a source code. It is typically used for
// errors that can be associated with a part of the source code, like parse
// errors and type errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Variables controlling the style of the culprit. Can be changed for testing.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Position returns the 1-based line and column numbers of the start of the
// range. Columns count runes.
func (c *Context) Position() (line, col int) {
	before := c.Source[:clamp(c.From, len(c.Source))]
	line = strings.Count(before, "\n") + 1
	col = utf8.RuneCountInString(lastLine(before)) + 1
	return line, col
}

// Describe returns "name:line:col", the position prefix used in messages.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	line, col := c.Position()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// Show shows the position of the range followed by the line containing its
// start, with the culprit highlighted.
func (c *Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return indent + err.Error()
	}
	head, culprit, tail := c.Excerpt()
	return fmt.Sprintf("%s%s: %s%s%s%s%s",
		indent, c.Describe(), head, culpritStart, culprit, culpritEnd, tail)
}

// Excerpt splits the line containing the start of the range into the text
// before the culprit, the culprit and the text after it. Only the first line
// of a multi-line culprit is kept; an empty culprit is replaced by a
// placeholder. The range must be valid.
func (c *Context) Excerpt() (head, culprit, tail string) {
	before, culprit, after := c.Source[:c.From], c.Source[c.From:c.To], c.Source[c.To:]
	head = lastLine(before)
	if i := strings.IndexByte(culprit, '\n'); i != -1 {
		culprit = culprit[:i]
	} else {
		tail = firstLine(after)
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	return head, culprit, tail
}

// Valid reports whether the range lies within the source.
func (c *Context) Valid() bool { return c.checkPosition() == nil }

func (c *Context) checkPosition() error {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	} else if i > n {
		return n
	}
	return i
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
