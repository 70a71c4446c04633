// Package simplepost provides a reusable library for schema-driven post
// editing. A post's shape (regions, fields, blocks) is defined at runtime by
// pluggable type registries, and the package converts between the persisted
// dynamic record and a stable edit model an administrative UI can render and
// write back.
//
// It exposes a single Service interface that orchestrates the forward
// transform (record to edit model), the inverse transform (edited model back
// onto a record), and lifecycle state. Repository implementations (memory,
// Postgres) are provided under subpackages.
//
// The edit model is a request-scoped projection: it is rebuilt from the
// record on every read and discarded after every write. Concurrent edits to
// the same record must be serialized by the caller or the repository.
package simplepost
