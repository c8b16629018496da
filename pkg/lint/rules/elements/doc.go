// Package elements contains lint rules over element classification and
// edge validation findings.
//
// Rules in this package:
//   - LB01: element-types/no-allow-entry - import with no allow entry
//   - LB02: element-types/capture-mismatch - allowed type, wrong captures
//   - LB03: no-unknown - import to or from an unclassified file
//   - LB04: no-unknown-files - file that matches no element type
package elements
