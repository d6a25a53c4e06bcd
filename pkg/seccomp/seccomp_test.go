package seccomp

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestBuildEmpty(t *testing.T) {
	f, err := (&Builder{}).Build()
	assert.NilError(t, err)
	assert.Check(t, is.Len(f, 0))
	assert.NilError(t, f.Load())
}

func TestBuildDeny(t *testing.T) {
	b := Builder{Deny: []string{"mount", "reboot", "unshare"}}
	f, err := b.Build()
	assert.NilError(t, err)
	assert.Check(t, len(f) > 0)

	prog := f.SockFprog()
	assert.Equal(t, int(prog.Len), len(f))
	assert.Equal(t, *prog.Filter, f[0])
}

func TestBuildUnknownSyscall(t *testing.T) {
	b := Builder{Deny: []string{"mount", "not_a_syscall"}}
	_, err := b.Build()
	assert.ErrorContains(t, err, "not_a_syscall")
}

// BenchmarkBuildFilter measures building a typical deny list
func BenchmarkBuildFilter(b *testing.B) {
	builder := Builder{
		Deny: []string{"mount", "umount2", "reboot", "swapon", "swapoff", "kexec_load", "init_module", "delete_module"},
	}
	for i := 0; i < b.N; i++ {
		builder.Build()
	}
}
