/*
Package cache orchestrates access to stored compilation units.

It serializes concurrent generations of the same description fingerprint, locally
through reference-counted mutexes and across replicas through an optional
distributed locker, so a unit is generated once and then served from the store.
*/
package cache
