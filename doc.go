// Package flatpack implements a schema-less, zero-copy structured-data wire
// format: a mutable tree (Value) that can be finalized into a single
// contiguous immutable buffer (Buffer) and queried directly off its bytes --
// object key lookup and array indexing never decode the whole structure, and
// predicates and scalar reads on a finalized buffer never allocate. Get, Index
// and the buffer iterators allocate one small view handle per returned child.
package flatpack
