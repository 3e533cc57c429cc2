/*
Package netx discovers the address under which the server is reachable on the
local network. The result is informational only.
*/
package netx

import "net"

// Fallback is returned when no external IPv4 interface is up.
const Fallback = "localhost"

// LocalIPv4 returns the first IPv4 address of an interface that is up and not
// a loopback device.
func LocalIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return Fallback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		if ip := firstIPv4(addrs); ip != "" {
			return ip
		}
	}

	return Fallback
}

func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}

		if ip == nil || ip.IsLoopback() {
			continue
		}

		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}
