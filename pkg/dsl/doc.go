/*
Package dsl provides a fluent builder for constructing entity descriptions in Go.

It replaces YAML or markdown documents when descriptions are generated by code,
in unit tests, or when IDE autocompletion is preferred over a schema.

Example usage:

	package main

	import (
		"github.com/aretw0/statewrap/pkg/dsl"
	)

	func main() {
		b := dsl.New("Door").Package("door")
		b.Group("Lock", "Locked", "Unlocked")
		b.Group("Hinge", "Open", "Closed")

		b.Capability("Unlock").AvailableIn("Locked").To("Unlocked")
		b.Capability("Lock").AvailableWhen(dsl.And("Unlocked", "Closed")).To("Locked")
		b.Capability("Open").AvailableWhen(dsl.And("Unlocked", "Closed")).To("Open")
		b.Capability("Close").AvailableIn("Open").To("Closed")
		b.Capability("Name").Returns("string").Always()

		// The resulting provider can be passed to statewrap.WithProvider.
		provider, err := dsl.Provider(b)
		// ...
	}
*/
package dsl
