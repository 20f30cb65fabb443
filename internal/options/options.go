// Package options implements generic functional options shared by the
// constructors of the vicar packages.
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

// Func adapts an ordinary function to the Option interface.
type Func[T any] func(T) error

func (f Func[T]) apply(target T) error {
	return f(target)
}

// New wraps fn as an option that may fail.
func New[T any](fn func(T) error) Func[T] {
	return Func[T](fn)
}

// NoError wraps fn as an option that never fails.
func NoError[T any](fn func(T)) Func[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply applies opts to target in order and stops at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
