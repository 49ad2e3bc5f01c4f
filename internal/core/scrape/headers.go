package scrape

import "net/http"

// HeaderProfile is the set of request headers presented to the portfolio
// host and its CDN.
type HeaderProfile struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
}

// DesktopProfile returns the desktop browser profile for the given user agent.
func DesktopProfile(userAgent string) HeaderProfile {
	return HeaderProfile{
		UserAgent:      userAgent,
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.9",
	}
}

// Apply sets the profile's headers on req.
func (p HeaderProfile) Apply(req *http.Request) {
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	if p.Accept != "" {
		req.Header.Set("Accept", p.Accept)
	}
	if p.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", p.AcceptLanguage)
	}
}

// ExtraHeaders returns the headers that are not carried by the user agent
// option of a browser context.
func (p HeaderProfile) ExtraHeaders() map[string]string {
	out := map[string]string{}
	if p.AcceptLanguage != "" {
		out["Accept-Language"] = p.AcceptLanguage
	}
	return out
}
