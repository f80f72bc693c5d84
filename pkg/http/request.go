package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig lists the proxies whose forwarding headers are believed. Build
// it with ParseTrustedProxies; the zero value trusts nobody.
type IPConfig struct {
	proxies []netip.Prefix
}

// ParseTrustedProxies parses the TRUSTED_PROXIES entries. Each entry is a
// CIDR range or a single address. Blank entries are skipped; anything else
// that does not parse is an error, so a typo cannot silently turn header
// trust off.
func ParseTrustedProxies(entries []string) (*IPConfig, error) {
	cfg := &IPConfig{}
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid CIDR %q: %w", entry, err)
			}
			cfg.proxies = append(cfg.proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q: %w", entry, err)
		}
		addr = addr.Unmap()
		cfg.proxies = append(cfg.proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return cfg, nil
}

// Trusts reports whether addr belongs to a trusted proxy.
func (c *IPConfig) Trusts(addr netip.Addr) bool {
	if c == nil || !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	for _, p := range c.proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ExtractClientIP returns the address used for request logs and the
// search rate limit.
//
// Forwarding headers count only when the peer is a trusted proxy. Then
// X-Forwarded-For is read right to left and the first hop that is not
// itself a trusted proxy wins, since entries to its left are whatever the
// client chose to send. X-Real-IP is the fallback, then the peer address.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	peer := remoteAddr(r)
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !config.Trusts(peerAddr) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil || config.Trusts(hop) {
				continue
			}
			return hop.Unmap().String()
		}
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return peer
}

// remoteAddr strips the port from RemoteAddr.
func remoteAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
