package browser

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Cookie is one entry of a JSON cookie export (Cookie-Editor, EditThisCookie).
// Some exporters write expirationDate instead of expires.
type Cookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Expires        float64 `json:"expires"`
	ExpirationDate float64 `json:"expirationDate"`
	HTTPOnly       bool    `json:"httpOnly"`
	Secure         bool    `json:"secure"`
	SameSite       string  `json:"sameSite"`
}

// LoadCookies reads a cookie export for a logged-in session. Cookies that
// expired before now or have no name or domain are skipped, and the skipped
// count is returned so callers can tell the user to re-export.
func LoadCookies(path string, now time.Time) ([]playwright.OptionalCookie, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read cookies %s: %w", path, err)
	}

	var exported []Cookie
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, 0, fmt.Errorf("parse cookies %s: %w", path, err)
	}

	out := make([]playwright.OptionalCookie, 0, len(exported))
	skipped := 0
	for _, c := range exported {
		if c.Name == "" || c.Domain == "" || c.expired(now) {
			skipped++
			continue
		}
		out = append(out, c.ToPlaywright())
	}
	return out, skipped, nil
}

func (c Cookie) expiry() float64 {
	if c.Expires > 0 {
		return c.Expires
	}
	return c.ExpirationDate
}

// expired reports whether a persistent cookie is past its expiry. Session
// cookies never expire here.
func (c Cookie) expired(now time.Time) bool {
	exp := c.expiry()
	return exp > 0 && exp < float64(now.Unix())
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	pc := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(cmp.Or(c.Path, "/")),
	}
	if exp := c.expiry(); exp > 0 {
		pc.Expires = playwright.Float(exp)
	}
	if c.HTTPOnly {
		pc.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		pc.Secure = playwright.Bool(true)
	}

	switch strings.ToLower(c.SameSite) {
	case "lax":
		pc.SameSite = playwright.SameSiteAttributeLax
	case "strict":
		pc.SameSite = playwright.SameSiteAttributeStrict
	case "none", "no_restriction":
		pc.SameSite = playwright.SameSiteAttributeNone
	}
	return pc
}
