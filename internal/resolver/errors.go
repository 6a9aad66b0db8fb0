package resolver

import "fmt"

// IdentityMismatchError reports a resolved record whose ID disagrees with
// the requested ID. It signals cache corruption or a remote-source anomaly
// and always aborts the run.
type IdentityMismatchError struct {
	Requested string
	Got       string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("record identity mismatch: requested %q, got %q", e.Requested, e.Got)
}

// RemoteFetchError reports that the remote data source failed to return a
// requested record.
type RemoteFetchError struct {
	ID  string
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch of %q failed: %v", e.ID, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }
