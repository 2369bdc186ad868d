package models

import (
	"fmt"
	"strings"
	"time"
)

type Platform string

const (
	PlatformOCC      Platform = "OCC"
	PlatformIndeed   Platform = "Indeed"
	PlatformLinkedIn Platform = "LinkedIn"
)

// Platforms lists every supported platform in default run order.
var Platforms = []Platform{PlatformOCC, PlatformIndeed, PlatformLinkedIn}

// ParsePlatform resolves a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Link builds the public posting URL for an identifier.
func (p Platform) Link(id string) string {
	switch p {
	case PlatformOCC:
		return fmt.Sprintf("https://www.occ.com.mx/empleo/oferta/%s/", id)
	case PlatformIndeed:
		return fmt.Sprintf("https://mx.indeed.com/viewjob?jk=%s", id)
	case PlatformLinkedIn:
		return fmt.Sprintf("https://www.linkedin.com/jobs/view/%s/", id)
	}
	return ""
}

// Unspecified fills optional text fields the source did not provide.
const Unspecified = "No especificado"

// TimestampLayout is how discovery timestamps are stored.
const TimestampLayout = "2006-01-02 15:04:05"

// Key identifies a record. Uniqueness of raw ids is only guaranteed per platform.
type Key struct {
	Platform Platform
	ID       string
}

func (k Key) String() string {
	if k.Platform == "" {
		return k.ID
	}
	return string(k.Platform) + ":" + k.ID
}

// JobRecord is one accepted posting.
type JobRecord struct {
	ID           string
	Platform     Platform
	Title        string
	Company      string
	Salary       string
	Location     string
	PostedDate   string
	DiscoveredAt time.Time
}

func (j JobRecord) Key() Key {
	return Key{Platform: j.Platform, ID: j.ID}
}

func (j JobRecord) Link() string {
	return j.Platform.Link(j.ID)
}

// Row converts the record into its tabular form. Location and posted date are
// carried so callers can choose to keep them in the schema.
func (j JobRecord) Row() Row {
	return Row{
		ColJobID:          j.ID,
		ColPlatform:       string(j.Platform),
		ColTitle:          j.Title,
		ColCompany:        orUnspecified(j.Company),
		ColSalary:         orUnspecified(j.Salary),
		ColLocation:       orUnspecified(j.Location),
		ColPostedDate:     j.PostedDate,
		ColTimestampFound: j.DiscoveredAt.Format(TimestampLayout),
		ColLink:           j.Link(),
	}
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unspecified
	}
	return s
}
