// Package unixsocket provides wrapper for Linux SOCK_SEQPACKET unix socket
// pairs used to synchronize a parent with its re-executed child.
package unixsocket
