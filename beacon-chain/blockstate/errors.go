package blockstate

import "errors"

// ErrStateNotFound is raised by GetStateInfoOrFail when neither the cache nor the
// backing database holds a root.
var ErrStateNotFound = errors.New("blockstate: state not found")

// ErrStoreFault wraps a non-recoverable error returned by the backing
// database. Unlike ErrStateNotFound, it is never the caller's fault: the
// database itself is misbehaving or unreachable.
var ErrStoreFault = errors.New("blockstate: store fault")
