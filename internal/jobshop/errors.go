package jobshop

import "errors"

// ErrInconsistentEncoding is returned by Decode when an encoding cannot be
// turned into a schedule: wrong operation counts, a task on the wrong
// machine, or a cyclic wait between machine orders.
var ErrInconsistentEncoding = errors.New("jobshop: inconsistent encoding")

// ErrMalformedInstance is returned when an instance violates its invariants.
var ErrMalformedInstance = errors.New("jobshop: malformed instance")

// ErrInstanceMismatch is returned when two values built from different
// instances are combined.
var ErrInstanceMismatch = errors.New("jobshop: instance mismatch")
