package netdev

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
)

const (
	// MaxNameLen is IFNAMSIZ - 1
	MaxNameLen = 15

	// DefaultSuffixLen is the random suffix length appended to a prefix
	DefaultSuffixLen = 8

	maxNameAttempts = 16

	nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrNameExhausted is returned when no free name was found in the attempts
var ErrNameExhausted = errors.New("netdev: could not generate interface name")

// Namer generates interface names unique within the process. A generated name
// stays reserved until Release is called.
type Namer struct {
	mu       sync.Mutex
	reserved map[string]struct{}
}

// defaultNamer is shared by every Provisioner of the process
var defaultNamer = NewNamer()

// NewNamer creates an empty namer
func NewNamer() *Namer {
	return &Namer{reserved: make(map[string]struct{})}
}

// Generate returns prefix + n random lowercase alphanumerics. exists, when not
// nil, reports names taken outside the process (e.g. an existing link).
func (n *Namer) Generate(prefix string, size int, exists func(string) (bool, error)) (string, error) {
	if size <= 0 || len(prefix)+size > MaxNameLen {
		return "", fmt.Errorf("netdev: name %q with %d random chars exceeds %d bytes", prefix, size, MaxNameLen)
	}
	for i := 0; i < maxNameAttempts; i++ {
		name, err := randomName(prefix, size)
		if err != nil {
			return "", err
		}
		if !n.reserve(name) {
			continue
		}
		if exists == nil {
			return name, nil
		}
		taken, err := exists(name)
		if err != nil {
			n.Release(name)
			return "", err
		}
		if !taken {
			return name, nil
		}
		n.Release(name)
	}
	return "", ErrNameExhausted
}

// Release makes the name available again
func (n *Namer) Release(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.reserved, name)
}

// Reserved reports whether the name is currently reserved
func (n *Namer) Reserved(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.reserved[name]
	return ok
}

func (n *Namer) reserve(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.reserved[name]; ok {
		return false
	}
	n.reserved[name] = struct{}{}
	return true
}

func randomName(prefix string, size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = nameAlphabet[int(b[i])%len(nameAlphabet)]
	}
	return prefix + string(b), nil
}
