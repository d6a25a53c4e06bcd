// Package container launches a single command in isolated Linux namespaces
// (UTS, mount, PID and network) with a private root file system, a veth link
// attached to a host bridge and optional cgroup cpu / memory limits.
//
// # Overview
//
// The host re-executes the current binary as the container init process
// (registered as container_init, see Init) within new namespaces and
// communicates with it using a SOCK_SEQPACKET unix socket at fd 3 with
// commands encoded by gob.
//
// # Protocol
//
// Host to container communication protocol is single threaded and always
// initiated by the host:
//
// ## ping (alive check)
//
// - send: ping
// - reply: pong
//
// ## conf (set up the environment and execve)
//
// - send: hostname, domainname, root, mounts, interface, argv, env, seccomp
// - reply (failed): error with the setup step or exec failure
// - reply (success): none, the socket is close_on_exec so the host reads EOF
//
// The host sends conf only after the veth end was moved into the network
// namespace of the container and the cgroup limits were applied, so conf is
// the synchronization point of the launch.
//
// Any socket related error will cause the container init to exit
package container
