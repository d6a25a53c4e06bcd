// Package netdev provisions the veth link of a container.
//
// The host side creates a veth pair, attaches one end to an existing bridge
// and migrates the other end into the network namespace of the container
// process, renaming it on the way. Inside the namespace ConfigureInterface
// assigns the address, the default route and a fresh MAC.
package netdev
