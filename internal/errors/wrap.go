package errors

import "fmt"

// Wrap prefixes err with msg, keeping the chain intact for errors.Is.
// A nil err stays nil, so the call can wrap a return value inline:
//
//	return errors.Wrap(store.EnsureDir(), "prepare reports")
//
// Wrap at package boundaries only; nested wrapping makes console messages long.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted prefix.
//
//	return errors.Wrapf(err, "failed to read %s", constants.ReportSummary)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
