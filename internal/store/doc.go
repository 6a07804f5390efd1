// Package store persists the résumé document and its uploaded images.
//
// Both stores are single-instance: one document per installation and one
// flat image directory with a JSON metadata list beside it. File-backed
// implementations replace files with write-then-rename; in-memory variants
// exist for tests.
package store
