package entities

import "strings"

// SocialConnection mirrors the social-connect service's per-provider report.
type SocialConnection struct {
	Provider  string
	Connected bool
	Expired   bool
}

// CreatorProfile is the read model eligibility consumes. Location comes from
// the geocoding collaborator as bare coordinates; raw addresses never reach
// the engine.
type CreatorProfile struct {
	CreatorID         string
	FollowersCount    int
	ShippingName      string
	AddressLine1      string
	City              string
	PostalCode        string
	Country           string
	DigitalOnlyOptOut bool
	Lat               *float64
	Lng               *float64
	Socials           []SocialConnection
}

func (p CreatorProfile) HasLocation() bool {
	return p.Lat != nil && p.Lng != nil
}

// ShippingComplete reports whether the contact/shipping fields needed for a
// physical offer are present. Digital-only offers accept the explicit opt-out.
func (p CreatorProfile) ShippingComplete(physical bool) bool {
	if !physical && p.DigitalOnlyOptOut {
		return true
	}
	return strings.TrimSpace(p.ShippingName) != "" &&
		strings.TrimSpace(p.AddressLine1) != "" &&
		strings.TrimSpace(p.City) != "" &&
		strings.TrimSpace(p.PostalCode) != "" &&
		strings.TrimSpace(p.Country) != ""
}

func (p CreatorProfile) Connection(provider string) (SocialConnection, bool) {
	for _, conn := range p.Socials {
		if strings.EqualFold(conn.Provider, provider) {
			return conn, true
		}
	}
	return SocialConnection{}, false
}
