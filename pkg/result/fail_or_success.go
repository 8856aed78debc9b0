package result

import "runtime/debug"

// FailOrSuccess holds exactly one of a success value of type S or a failure
// value of type F. The zero value is a success holding the zero S; use
// Success and Excepted to construct values.
type FailOrSuccess[S, F any] struct {
	success S
	failure F
	failed  bool
}

// Success returns a FailOrSuccess holding a success value.
func Success[S, F any](s S) FailOrSuccess[S, F] {
	return FailOrSuccess[S, F]{success: s}
}

// Excepted returns a FailOrSuccess holding a failure value.
func Excepted[S, F any](f F) FailOrSuccess[S, F] {
	return FailOrSuccess[S, F]{failure: f, failed: true}
}

// IsSuccess reports whether r holds a success value.
func (r FailOrSuccess[S, F]) IsSuccess() bool { return !r.failed }

// Get returns the success value and true, or the zero S and false if r holds
// a failure.
func (r FailOrSuccess[S, F]) Get() (S, bool) {
	if r.failed {
		var zero S
		return zero, false
	}
	return r.success, true
}

// Failure returns the failure value and true, or the zero F and false if r
// holds a success.
func (r FailOrSuccess[S, F]) Failure() (F, bool) {
	if !r.failed {
		var zero F
		return zero, false
	}
	return r.failure, true
}

// Visit calls exactly one of onSuccess and onFailure, depending on what r
// holds.
func (r FailOrSuccess[S, F]) Visit(onSuccess func(S), onFailure func(F)) {
	if r.failed {
		onFailure(r.failure)
	} else {
		onSuccess(r.success)
	}
}

// Fold is like Visit, but returns the value returned by the handler.
func Fold[S, F, R any](r FailOrSuccess[S, F], onSuccess func(S) R, onFailure func(F) R) R {
	if r.failed {
		return onFailure(r.failure)
	}
	return onSuccess(r.success)
}

// Bind chains a fallible function after r. If r holds a success, fn is called
// with it and its return value is returned verbatim. If r holds a failure, it
// is returned unchanged and fn is never called.
func Bind[A, B, F any](r FailOrSuccess[A, F], fn func(A) FailOrSuccess[B, F]) FailOrSuccess[B, F] {
	if r.failed {
		return Excepted[B](r.failure)
	}
	return fn(r.success)
}

// Map is like Bind, but for infallible functions.
func Map[A, B, F any](r FailOrSuccess[A, F], fn func(A) B) FailOrSuccess[B, F] {
	if r.failed {
		return Excepted[B](r.failure)
	}
	return Success[B, F](fn(r.success))
}

// Of calls fn and converts its outcome into a FailOrSuccess. A non-nil error
// becomes a failure holding ExceptionResult{err}; a panic becomes a failure
// holding ExceptionResult{*PanicError}.
func Of[S any](fn func() (S, error)) (r FailOrSuccess[S, Result]) {
	defer func() {
		if p := recover(); p != nil {
			r = Excepted[S, Result](ExceptionResult{&PanicError{Value: p, Stack: debug.Stack()}})
		}
	}()
	s, err := fn()
	if err != nil {
		return Excepted[S, Result](ExceptionResult{err})
	}
	return Success[S, Result](s)
}

// Catch calls fn and returns its result, converting a panic into an
// ExceptionResult holding a *PanicError.
func Catch(fn func() Result) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = ExceptionResult{&PanicError{Value: p, Stack: debug.Stack()}}
		}
	}()
	return fn()
}

// Collapse returns whichever result r holds.
func Collapse[S Result](r FailOrSuccess[S, Result]) Result {
	if r.failed {
		return r.failure
	}
	return r.success
}
