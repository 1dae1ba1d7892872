package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLValidator checks URLs before they reach the network or another program.
type URLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// AllowQuery permits a query string and fragment
	AllowQuery bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewLinkValidator is used for article links handed to a browser, an image
// viewer or the clipboard. Links come from remote data, so local targets are
// refused.
func NewLinkValidator() *URLValidator {
	return &URLValidator{
		AllowQuery: true,
		MaxLength:  4096,
	}
}

// NewBaseURLValidator is used for the configured API endpoint. The user
// chose it, so local proxies are fine, but it must be a bare origin or path.
func NewBaseURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// Validate returns the normalized form of input.
func (v *URLValidator) Validate(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	for _, r := range input {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("URL contains control characters")
		}
	}
	if strings.ContainsAny(input, "<>\"`") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsedURL.User != nil {
		return "", fmt.Errorf("URL must not embed credentials")
	}
	if !v.AllowQuery && (parsedURL.RawQuery != "" || parsedURL.Fragment != "") {
		return "", fmt.Errorf("URL must not have a query or fragment")
	}

	if err := v.validateHost(parsedURL.Hostname()); err != nil {
		return "", err
	}
	if strings.Contains(parsedURL.Path, "/../") || strings.HasSuffix(parsedURL.Path, "/..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	return parsedURL.String(), nil
}

func (v *URLValidator) validateHost(hostname string) error {
	if hostname == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsUnspecified() || ip.Equal(net.IPv4bcast) {
			return fmt.Errorf("invalid IP address")
		}
		if !v.AllowPrivateIPs && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}
	return nil
}

// isLocalhost checks if a hostname refers to localhost
func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "::1" ||
		strings.HasPrefix(hostname, "127.") ||
		strings.HasSuffix(hostname, ".localhost")
}

// isPrivateIP covers RFC 1918, loopback, link-local and IPv6 ULA ranges.
func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}
