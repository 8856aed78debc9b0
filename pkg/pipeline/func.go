// Package pipeline composes the stages of a language implementation (read,
// parse, analyze, transform, evaluate) into fallible pipelines.
package pipeline

import "github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/result"

// Func is a pipeline stage: it turns an artifact of type A into an artifact of
// type B, or fails with a result describing why.
type Func[A, B any] func(A) result.FailOrSuccess[B, result.Result]

// Then returns a Func that runs f and then g on its success. If f fails, its
// failure is returned unchanged and g is not called.
func Then[A, B, C any](f Func[A, B], g Func[B, C]) Func[A, C] {
	return func(a A) result.FailOrSuccess[C, result.Result] {
		return result.Bind[B, C, result.Result](f(a), g)
	}
}

// Then3 is Then(Then(f, g), h).
func Then3[A, B, C, D any](f Func[A, B], g Func[B, C], h Func[C, D]) Func[A, D] {
	return Then(Then(f, g), h)
}

// Run runs f on a and collapses its outcome into a single result.
func Run[A any, B result.Result](f Func[A, B], a A) result.Result {
	return result.Collapse(f(a))
}
