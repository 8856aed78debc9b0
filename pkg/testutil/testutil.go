// Package testutil contains helpers shared by the tests of several packages.
package testutil

// Cleanuper is the subset of [testing.TB] needed to register cleanup
// functions.
type Cleanuper interface {
	Cleanup(func())
}

// TempDirer is the subset of [testing.TB] needed to create temporary
// directories.
type TempDirer interface {
	Cleanuper
	TempDir() string
}

// Set sets *p to v until the test finishes.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}
