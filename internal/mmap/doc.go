// Package mmap provides anonymous, off-heap memory mappings.
//
// Mappings are private, read-write and not backed by a file. The kernel hands
// out zero-filled, page-aligned memory that the Go garbage collector neither
// scans nor moves, which makes it suitable as arena storage for pointer-free
// values.
package mmap
