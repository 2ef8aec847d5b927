/*
Package ports defines the driven ports (interfaces) for the statewrap engine.

These interfaces decouple the generator from external implementations, allowing
the engine to read descriptions from various sources, cache compilation units in
various backends, and render them in several output formats.

# Key Interfaces

  - DescriptionProvider: Supplies entity descriptions (e.g., from files, Loam or Memory).
  - UnitStore: Caches generated CompilationUnits keyed by description fingerprint.
  - Emitter: Serializes a CompilationUnit into a target format (Go source, JSON, diagrams).
*/
package ports
