// Package tables reads the channel and connector tables produced by the
// upstream ICD generator.
//
// Both tables are CSV with a header row; columns are located by name
// (case-insensitive), so column order and extra columns do not matter.
// List-valued cells are ';'-separated.
//
// Channel table columns:
//
//	net, type, library, compatible, from_device, from_channel,
//	to_device, to_channel, splice
//
// Connector table columns:
//
//	connector, device, net, disconnect, channels
//
// A row that cannot be used is skipped with a warning; only an unreadable
// file or a header missing required columns is an error.
package tables
