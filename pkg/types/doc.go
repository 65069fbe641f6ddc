// Package types defines the Table and ReadOnlyTable interfaces, the Row view,
// table configuration, column kinds, and the standard errors for csvtable.
//
// A Table is built once from delimited text and then mutated in place. Every
// value handed out (rows, columns, headers) is a copy; changing it has no
// effect on the table it came from.
package types
