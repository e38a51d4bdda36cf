//go:build unix

package mmap

import "golang.org/x/sys/unix"

// PageSize is the alignment of every mapping returned by MapAnon.
var PageSize = unix.Getpagesize()

func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE

	data, err := unix.Mmap(-1, 0, size, prot, flags)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}
