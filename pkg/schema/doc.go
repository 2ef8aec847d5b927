// Package schema defines the document format of entity descriptions.
//
// The same shape is read from YAML or JSON files and from Loam frontmatter.
// Besides the long form, which mirrors domain.Entity field by field, documents
// accept shorthands that keep hand-written descriptions short:
//
//	name: Robot
//	package: robot
//	groups:
//	  - Position: [Left, Middle, Right, Up, Down]
//	  - Movable: [On, Off]
//	capabilities:
//	  - name: MoveUp
//	    available:
//	      - and: [On, Middle]
//	      - and: [On, Down]
//	    transitions:
//	      Up: [Middle]
//	      Middle: [Down]
//	  - name: Stay
//	    available: all
//	  - name: Rename
//	    params: ["name string"]
//	    result: string
//	    available: [On, Off]
//
// A bare state list is a single condition set with the context default relation.
// Decoding reports every structural problem at once through an AggregateError;
// semantic checks (unknown states, ambiguous transitions) are left to the generator.
package schema
