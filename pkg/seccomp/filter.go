package seccomp

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Filter is the BPF seccomp filter value
type Filter []unix.SockFilter

// SockFprog converts Filter to SockFprog for seccomp syscall
func (f Filter) SockFprog() *unix.SockFprog {
	b := []unix.SockFilter(f)
	return &unix.SockFprog{
		Len:    uint16(len(b)),
		Filter: (*unix.SockFilter)(unsafe.Pointer(&b[0])),
	}
}
