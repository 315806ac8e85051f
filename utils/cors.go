package utils

import (
	"net"
	"net/url"
	"strings"
)

// privateNetworks covers loopback, RFC1918, link-local and ULA ranges.
var privateNetworks = []*net.IPNet{
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
	mustParseCIDR("169.254.0.0/16"),
	mustParseCIDR("::1/128"),
	mustParseCIDR("fc00::/7"),
	mustParseCIDR("fe80::/10"),
}

func mustParseCIDR(s string) *net.IPNet {
	_, ipNet, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return ipNet
}

func isPrivateIP(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// IsAllowedOrigin reports whether a browser origin may use the API.
// Local development origins (localhost, .local hostnames, private IPs)
// are always allowed; anything else must appear in extra.
func IsAllowedOrigin(origin string, extra []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range extra {
		if strings.EqualFold(strings.TrimRight(allowed, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	// Single-label hostnames only resolve on the local network
	if !strings.Contains(host, ".") && net.ParseIP(host) == nil {
		return true
	}
	return isPrivateIP(host)
}
