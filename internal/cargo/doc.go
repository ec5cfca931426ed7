// Package cargo wraps the cargo subcommands used to prepare vendored
// dependency tarballs: update and vendor.
package cargo
