package utils

import (
	"fmt"
	"net"
	"os"
)

// ServiceAddress returns "hostname/ip:port", used to record which instance
// answered a request when assembling composite views.
func ServiceAddress(port int) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s/%s:%d", hostname, localIP(), port)
}

func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return "127.0.0.1"
}
