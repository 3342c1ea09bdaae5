// Package ir provides the shared record types for wireplan.
//
// This package contains type definitions and small value helpers only. All
// other internal packages import ir; ir imports nothing internal, which keeps
// it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Identifiers (device references, channel ids, type names, net names)
//     are NFC-normalised and trimmed before they are compared or stored
//   - ChannelKey has a single canonical string form, DEVICE:CHANNEL
//   - All JSON tags use snake_case
//   - Ordering is always by value (sorted keys), never by input position
package ir
