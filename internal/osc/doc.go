// Package osc drives the Open Build Service command-line client to check
// out branched packages and submit vendored updates.
package osc
