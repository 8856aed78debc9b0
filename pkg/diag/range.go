// Package diag locates and renders diagnostics within source code: syntax
// errors raised by parsers and messages produced by analyzers.
package diag

// Ranger is implemented by values that occupy a span of source code.
type Ranger interface {
	Range() Ranging
}

// Ranging is a half-open byte range [From, To) of a source. Embedding it
// makes a struct a Ranger.
type Ranging struct {
	From int
	To   int
}

func (r Ranging) Range() Ranging { return r }

// PointRanging returns an empty Ranging at p, for diagnostics that point at a
// position rather than span text.
func PointRanging(p int) Ranging { return Ranging{p, p} }
