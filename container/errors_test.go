package container

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/criyle/go-container/pkg/netdev"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestErrorKind(t *testing.T) {
	dnf := &netdev.DeviceNotFoundError{Name: "cethabc"}
	err := fmt.Errorf("launch: %w", newError(ErrNetworkSetup, "move device", dnf))

	assert.Check(t, is.ErrorIs(err, ErrNetworkSetup))
	assert.Check(t, !errors.Is(err, ErrConfiguration))

	var de *netdev.DeviceNotFoundError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Name, "cethabc")
	assert.Check(t, is.ErrorContains(err, "NetworkSetupError"))
	assert.Check(t, is.ErrorContains(err, "move device"))
}

func TestKindString(t *testing.T) {
	for k, s := range map[Kind]string{
		ErrConfiguration:  "ConfigurationError",
		ErrSpawn:          "SpawnError",
		ErrNetworkSetup:   "NetworkSetupError",
		ErrNamespaceSetup: "NamespaceSetupError",
		ErrResourceLimit:  "ResourceLimitError",
		ErrExec:           "ExecError",
		Kind(100):         "invalid",
	} {
		assert.Equal(t, k.String(), s)
	}
}

func TestErrorReplyErrno(t *testing.T) {
	errno := syscall.ENOENT
	rep := &errorReply{Kind: ErrExec, Op: "execve", Msg: "no such file", Errno: &errno}
	err := newError(ErrExec, rep.Op, rep)
	assert.Check(t, is.ErrorIs(err, ErrExec))
	assert.Check(t, is.ErrorIs(err, syscall.ENOENT))
}
