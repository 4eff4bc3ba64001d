package topology

import "errors"

// ErrDegreeOverflow is returned by Build when some node accumulates more
// than 254 in-edges or out-edges. This is the only construction-time failure
// mode once the builder's own bounds checks pass: dangling edges are
// rejected immediately by AddEdge, never deferred to Build.
var ErrDegreeOverflow = errors.New("topology: node exceeds 254 edges in one direction")

// ErrNodeNotFound is returned by AddEdge when either endpoint does not name
// a node already added to the builder.
var ErrNodeNotFound = errors.New("topology: edge references unknown node")
