// Package neighbor provides the per-particle neighbor sequences consumed by
// the force kernels.
//
// A [List] stores rows in compressed (CSR) form: row i is the ordered slice of
// candidate indices for local particle i. Candidates are not filtered by the
// interaction cutoff; kernels test the distance themselves.
//
// Two construction paths produce the same rows:
//
//   - [BuildCSR]: parallel count pass, prefix sum, parallel fill pass
//   - [BuildMapConstr]: pairs collected into a map, then flattened
//
// Half lists hold each unordered pair once (j > i, in row i). Full lists hold
// it from both sides. Boundaries are open: no periodic images are generated.
package neighbor
