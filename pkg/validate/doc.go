// Package validate checks node graphs against their structural and semantic
// invariants.
//
// [ValidateGraph] walks a graph and reports every problem it finds as an
// error or a warning. Errors make a graph invalid. Warnings are advisory,
// for example an automation lane bound to an int parameter.
//
// The package also guards the connection table. [ValidateNoDuplicateConnections]
// detects a second connection into an occupied port or parameter, and
// [AddConnectionWithValidation] inserts a connection, replacing the previous
// occupant of its target in place.
//
// Nothing here mutates its input, logs, or panics on malformed data.
package validate
