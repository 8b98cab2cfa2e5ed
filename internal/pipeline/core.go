package pipeline

// TransientError marks an error as caused by a transient network condition
// (connectivity, timeout). Callers absorb these at call scope; they never
// abort a batch.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
