// Package schema defines the typed representation of a server-provided form:
// an ordered tree of field definitions mixing leaf inputs and group
// containers, plus decoding normalisation and descriptor invariants. Every
// other package in the module consumes these types.
package schema
