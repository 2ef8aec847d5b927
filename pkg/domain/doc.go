/*
Package domain contains the core data model of the statewrap generator.

It defines the declarative description of a stateful entity (state groups and
capabilities with their availability and transition rules) and the generated-type
model produced from it. The package is pure and free of I/O so that every other
layer (providers, emitters, the CLI) can depend on it.

# Key Entities

  - StateGroup: a named partition of mutually exclusive states.
  - Permutation: one concrete combination of states, one per group.
  - ConditionSet: a set of states plus a relation kind (and/or/xor) tested against a permutation.
  - Capability: an operation of the entity, gated by availability rules and optionally transitioning.
  - WrapperDescription: the generated type for one permutation.
  - CompilationUnit: every wrapper of an entity, in enumeration order, with linked successors.
*/
package domain
