package request

import "strings"

const (
	ClientTypeWeb    = "web"
	ClientTypeMobile = "mobile"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls back
// to a user-agent sniff. Web clients get httpOnly cookies; mobile clients
// consume tokens from the response body.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	}

	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "okhttp") || strings.Contains(ua, "darwin") || strings.Contains(ua, "dart") {
		return ClientTypeMobile
	}
	return ClientTypeWeb
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
