// Package importer loads keyword research exports into the store.
//
// Two source formats are supported: keyword CSV exports (one keyword
// per row with volume and intent columns) and PAA JSONL files (one
// question object per line). Both importers dedupe by slug and report
// what they loaded, imported, and skipped.
package importer
