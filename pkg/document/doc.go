// Package document reads and writes node graphs as versioned JSON documents.
//
// A document is an envelope around the graph:
//
//	{
//	  "format": "shader-composer-node-graph",
//	  "formatVersion": "2.0",
//	  "graph": { ... },
//	  "audioSetup": { ... }
//	}
//
// [SerializeGraph] writes an envelope. [DeserializeGraph] parses one in two
// phases. The envelope is first decoded with its members left raw, and its
// format and version are checked before the graph body is decoded. Then the
// [Registry] migrations rewrite legacy shapes and the result is validated.
// [DeserializeGraphUnvalidated] stops after migration.
//
// Problems in the input never cause a panic or a Go error. They are returned
// as [errors.Error] values in [Result], with a nil Graph for fatal ones.
//
// # Migrations
//
// A [Migration] is matched on the document version and content and rewrites
// the graph and audio setup. Every migration must be idempotent: running the
// registry on an already migrated document returns it unchanged.
package document
