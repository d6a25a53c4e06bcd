package netdev

import (
	"crypto/rand"
	"net"
)

// RandomHostMAC returns a random locally administered unicast address with the
// first byte 0xfe, so that the bridge never adopts it as its own address
func RandomHostMAC() net.HardwareAddr {
	hw := randomMAC()
	hw[0] = 0xfe
	return hw
}

// RandomContainerMAC returns a random address in the 02:42 private range
func RandomContainerMAC() net.HardwareAddr {
	hw := randomMAC()
	hw[0] = 0x02
	hw[1] = 0x42
	return hw
}

func randomMAC() net.HardwareAddr {
	hw := make(net.HardwareAddr, 6)
	// crypto/rand.Read never returns an error on linux
	rand.Read(hw)
	return hw
}
