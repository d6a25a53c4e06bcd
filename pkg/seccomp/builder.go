package seccomp

import (
	"fmt"

	libseccomp "github.com/elastic/go-seccomp-bpf"
	"github.com/elastic/go-seccomp-bpf/arch"
	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"
)

// Builder is used to build the deny list filter
type Builder struct {
	Deny []string
}

// Build builds the filter, an empty deny list gives a nil filter
func (b *Builder) Build() (Filter, error) {
	if len(b.Deny) == 0 {
		return nil, nil
	}
	info, err := arch.GetInfo("")
	if err != nil {
		return nil, fmt.Errorf("seccomp: %w", err)
	}
	for _, name := range b.Deny {
		if _, ok := info.SyscallNames[name]; !ok {
			return nil, fmt.Errorf("seccomp: unknown syscall %q", name)
		}
	}

	policy := libseccomp.Policy{
		DefaultAction: libseccomp.ActionAllow,
		Syscalls: []libseccomp.SyscallGroup{
			{
				Action: libseccomp.ActionErrno,
				Names:  b.Deny,
			},
		},
	}
	insts, err := policy.Assemble()
	if err != nil {
		return nil, fmt.Errorf("seccomp: assemble policy: %w", err)
	}
	raw, err := bpf.Assemble(insts)
	if err != nil {
		return nil, fmt.Errorf("seccomp: assemble bpf: %w", err)
	}
	return toFilter(raw), nil
}

func toFilter(raw []bpf.RawInstruction) Filter {
	f := make(Filter, 0, len(raw))
	for _, r := range raw {
		f = append(f, unix.SockFilter{
			Code: r.Op,
			Jt:   r.Jt,
			Jf:   r.Jf,
			K:    r.K,
		})
	}
	return f
}
