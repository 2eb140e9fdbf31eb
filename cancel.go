package zipdir

// Canceler reports whether the caller has asked the build to stop.
// It is polled between entries and never mutated by the builder.
type Canceler interface {
	Canceled() bool
}

// CancelFunc adapts a plain function to the Canceler interface.
type CancelFunc func() bool

// Canceled implements Canceler.
func (f CancelFunc) Canceled() bool {
	return f != nil && f()
}
