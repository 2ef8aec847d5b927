// Package relation implements the logical relations that decide whether a
// permutation satisfies a condition set, and the registry that resolves a
// relation identifier to its evaluator.
//
// Three relations are built in:
//
//   - and: every condition state is active. Asking for two states of the same
//     group is unsatisfiable and rejected as an invalid state representation.
//   - or: at least one condition state is active.
//   - xor: exactly one condition state is active.
//
// Further relations can be registered under a new identifier. Registration is
// validated eagerly, so evaluation never has to instantiate anything.
package relation
