// Package cgroup provides per-container resource limiting through cgroups
// mounted under the systemd defined path (i.e. /sys/fs/cgroup), including v1
// and v2 implementation.
//
// Available cgroup controller:
//  cpu
//  memory
//
// Each container gets its own sub-cgroup named after the container under a
// shared prefix, so concurrent containers never share limits or membership.
package cgroup
