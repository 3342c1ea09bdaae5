// Package library compiles device-library definitions written in CUE into
// a compat.Library.
//
// A library declares channel types and, per type, the types it may be
// joined to:
//
//	library: "daq"
//	strict:  false
//	type: {
//		mic_in:  compatible: ["mic_out"]
//		mic_out: {}
//		excitation_out: {
//			library:    "sensors"
//			compatible: ["daq/excitation_in"]
//		}
//	}
//
// Declarations are one-directional as written; the resolver applies them
// in both directions. Compatible entries are "name" or "library/name".
package library
