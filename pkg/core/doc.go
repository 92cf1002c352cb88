// Package core defines the shared language of the brackish layer.
//
// This package contains:
//   - The canonical error taxonomy (Kind, Error, the Err* sentinels)
//   - Connection configuration (Config)
//   - Dialect parameters (Dialect, PlaceholderStyle, Folding)
//   - Schema types (ColumnDescriptor, ColumnSpec, Row)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
