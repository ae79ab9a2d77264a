// Package parser decodes the archival chat export dialect.
//
// An export file is a metadata header block, a separator line of 65 '#'
// characters, and a run of message lines. The package provides:
//   - ResolveTimestamp for the several date/time spellings found in exports
//   - ParseLine for single message lines (regular, edited, system, archive,
//     file-share and bot dialects, including embedded JSON payloads)
//   - ParseMetadata for channel and direct-message header blocks
//   - ParseFile for whole conversation files
//
// Malformed message lines are reported to the caller as line failures and
// never abort the surrounding file.
package parser
