/*
Package statewrap generates state-typed wrappers for stateful entities.

A description lists the entity's mutually exclusive state groups and, for every
capability, the permutations it is available in and the permutation it moves the
entity to. statewrap expands the description into one wrapper type per
permutation of states, each exposing only the capabilities legal in that
permutation. Transition capabilities return the wrapper of the successor
permutation, so illegal call sequences stop compiling.

# Concept

Descriptions come from a DescriptionProvider (a Loam repository of markdown or
YAML documents by default, or memory and plain file providers). The engine
expands each one into a CompilationUnit, a language-neutral model of every
wrapper, and hands it to an Emitter: Go source, JSON for external emitters, or a
Mermaid transition diagram.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/statewrap"
	)

	func main() {
		// Reads descriptions from ./states
		eng, err := statewrap.New("./states")
		if err != nil {
			log.Fatal(err)
		}

		unit, err := eng.Generate(context.Background(), "Robot")
		if err != nil {
			log.Fatal(err)
		}

		if err := eng.Emit(os.Stdout, unit, "go"); err != nil {
			log.Fatal(err)
		}
	}

Invalid descriptions fail with an error matching domain.ErrInvalidStateRepresentation;
no partial unit is ever returned.
*/
package statewrap
