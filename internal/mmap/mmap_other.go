//go:build !unix

package mmap

import "os"

// PageSize is the alignment of every mapping returned by MapAnon.
var PageSize = os.Getpagesize()

func osMapAnon(int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrUnsupported
}
