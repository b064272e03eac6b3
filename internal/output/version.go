package output

// SchemaVersion is the current version of the NDJSON status objects.
// Increment this when making breaking changes to their layout.
const SchemaVersion = 1
