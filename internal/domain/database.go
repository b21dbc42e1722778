package domain

import "context"

// Database is the dump/replay contract for the application database.
type Database interface {
	// Dump writes a logical dump (schema, data, routines, triggers) to outputPath.
	Dump(ctx context.Context, outputPath string) error
	// Restore replays a raw (decompressed) dump into the target schema.
	Restore(ctx context.Context, dumpPath string) error
	// SchemaDigest returns a stable hash of the schema structure only.
	SchemaDigest(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Engine() string
	// DumpExt is the file extension of a raw dump, e.g. ".sql".
	DumpExt() string
}
