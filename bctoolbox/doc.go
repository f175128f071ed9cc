// Package bctoolbox provides the linked list value used by the Belledonne
// libraries to pass ordered string and buffer collections.
//
// A native bctbx_list_t owns its nodes but not the data they point at, so a
// List keeps every payload buffer alive, paired with its node, for as long
// as the list exists.
package bctoolbox
