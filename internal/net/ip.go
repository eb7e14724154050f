package net

import (
	"fmt"
	"log"
	"net"
	"strings"
)

// LinkScheme prefixes share links handed to remote controllers.
const LinkScheme = "pixelboard://"

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// getLocalIPFallback is used on networks without internet access.
func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	log.Println("[NET] No suitable local IP found, share link uses loopback.")
	return "127.0.0.1", nil
}

// ShareLink is the link a controller uses to reach this host.
func ShareLink(port int) string {
	ip, err := GetOutgoingIP()
	if err != nil {
		ip = "127.0.0.1"
	}
	return fmt.Sprintf("%s%s:%d", LinkScheme, ip, port)
}

// ParseShareLink returns the host:port inside a share link. Plain
// addresses are returned unchanged.
func ParseShareLink(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("invalid share link %q: %w", link, err)
	}
	return addr, nil
}
