// Package seccomp provides a generated filter format for seccomp filter.
//
// The filter is built by the parent from a syscall deny list and loaded by the
// container init right before it execs the command. Denied syscalls fail with
// EPERM, every other syscall is allowed.
package seccomp
