// Package label implements the VICAR label model and the label area text
// format.
//
// A label area is a run of KEYWORD=VALUE tokens padded with spaces to a
// multiple of the record size. It starts with LBLSIZE, then the system label
// (geometry and encoding keywords), then zero or more groups:
//
//	LBLSIZE=00000512  FORMAT='BYTE'  ...  NB=1
//	PROPERTY='MAP'  SCALE=1.5 <km>
//	TASK='GEN'  USER='me'  DAT_TIM='Mon Jan  1 00:00:00 2024'  IVAL=0
//
// Decode and Encode convert between the text and SystemLabel plus Store.
// Unknown keywords are kept in their groups and written back with the same
// value text, so decode-encode of an unmodified area preserves every label.
//
// # Thread Safety
//
// Values, Labels and Groups are immutable and safe to share. A Store is safe
// for concurrent reads; Append must not race with other calls.
package label
