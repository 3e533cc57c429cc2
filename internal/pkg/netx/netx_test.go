package netx

import (
	"net"
	"testing"
)

func TestFirstIPv4(t *testing.T) {
	_, lan, _ := net.ParseCIDR("192.168.1.20/24")
	lan.IP = net.ParseIP("192.168.1.20")
	loop := &net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)}
	v6 := &net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)}

	tests := []struct {
		name  string
		addrs []net.Addr
		want  string
	}{
		{"empty", nil, ""},
		{"loopback only", []net.Addr{loop}, ""},
		{"ipv6 then ipv4", []net.Addr{v6, lan}, "192.168.1.20"},
		{"ip addr", []net.Addr{&net.IPAddr{IP: net.ParseIP("10.0.0.7")}}, "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstIPv4(tt.addrs); got != tt.want {
				t.Errorf("firstIPv4() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalIPv4NeverEmpty(t *testing.T) {
	if LocalIPv4() == "" {
		t.Fatal("LocalIPv4 returned an empty string")
	}
}
