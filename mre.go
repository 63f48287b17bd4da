// Package mre is the Muldis Reference Engine: the value-representation core of
// a Muldis D implementation.  Values live in pkg/mem; hosts reach them through
// the protocol adapter in pkg/mdbp.
package mre

const Version = "0.1.0"
