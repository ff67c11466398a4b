package analysis

import "fmt"

// LoadError indicates the byte source could not be parsed as its declared kind.
// It is the only error the analysis engine returns.
type LoadError struct {
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	if e.Kind == "" {
		return fmt.Sprintf("load failed: %v", e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(kind Kind, format string, args ...any) error {
	return &LoadError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
