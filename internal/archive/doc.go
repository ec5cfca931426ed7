// Package archive writes and reads the vendor tarball in one of three
// compressed tar formats: gzip, xz and zstd.
package archive
