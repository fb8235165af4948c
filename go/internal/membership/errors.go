package membership

import "errors"

// ErrNotAMember is returned whenever an actor cannot be proven to belong to a
// league. An unresolved or missing identity gets this error too: absence of
// identity is never treated as "allowed", and callers must surface it as a
// denial rather than an empty result set.
var ErrNotAMember = errors.New("not a member of league")
