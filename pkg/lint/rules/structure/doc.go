// Package structure contains lint rules over the shape of the import graph
// and the element catalog.
//
// Rules in this package:
//   - LB05: import-cycle - files that import each other
//   - LB06: shadowed-element - catalog entry that can never match
package structure
