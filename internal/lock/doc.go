// Package lock reads Cargo.lock files. Lock files pin the exact resolved
// version of every package and are bundled next to the vendored sources.
package lock
