package netutil

import "net"

// LANAddr returns the first non-loopback IPv4 address of an up interface,
// skipping Tailscale CGNAT (100.64.0.0/10) addresses. Empty when the host
// has no usable LAN address.
func LANAddr() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := addrIP(addr)
			if ip == nil || ip.IsLoopback() {
				continue
			}
			v4 := ip.To4()
			if v4 == nil {
				continue
			}
			if v4[0] == 100 && v4[1] >= 64 && v4[1] <= 127 {
				continue
			}
			return v4.String()
		}
	}
	return ""
}

func addrIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	}
	return nil
}
