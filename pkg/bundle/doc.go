// Package bundle provides Bundle, a typed heterogeneous container.
//
// Each entry is addressed by a types.Key[T]; Put and Get are checked against
// T at compile time while the entries themselves live in an untyped
// types.Map. Values are classified into a closed set of storage kinds when
// they are put, and converted back to T, with a checked assertion, when they
// are read.
//
// Example:
//
//	count := types.MustKey[int]("count")
//	b := bundle.New()
//	if _, err := bundle.Put(b, count, 5); err != nil {
//	    return err
//	}
//	n, ok, err := bundle.Get(b, count) // 5, true, nil
//
// A Bundle is not safe for concurrent use; callers that share one across
// goroutines must synchronize around it.
package bundle
