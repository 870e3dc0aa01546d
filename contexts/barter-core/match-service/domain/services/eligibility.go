package services

import (
	"gifted/contexts/barter-core/match-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/ports"
)

// EvaluateClaimEligibility runs the claim checks in their messaging-precedence
// order and short-circuits on the first failure. The returned reason is the
// one the creator should be routed on.
func EvaluateClaimEligibility(
	offer ports.OfferView,
	creator entities.CreatorProfile,
	existing []entities.Match,
) *domainerrors.DenialReason {
	if !offer.Published {
		return denial(domainerrors.DenialOfferNotActive)
	}
	if offer.ActiveMatchCount >= offer.MaxClaims {
		return denial(domainerrors.DenialOfferFull)
	}

	for _, match := range existing {
		if match.CreatorID != creator.CreatorID {
			continue
		}
		if match.Status == entities.MatchStatusRevoked {
			return denial(domainerrors.DenialPreviouslyRevoked)
		}
		if match.OccupiesSlot() {
			return denial(domainerrors.DenialAlreadyClaimed)
		}
	}

	if !creator.ShippingComplete(offer.RequiresShipment) {
		return denial(domainerrors.DenialProfileIncomplete)
	}

	if len(offer.Platforms) > 0 {
		connected := false
		expired := false
		for _, platform := range offer.Platforms {
			conn, ok := creator.Connection(platform)
			if !ok || !conn.Connected {
				continue
			}
			if conn.Expired {
				expired = true
				continue
			}
			connected = true
			break
		}
		if !connected {
			if expired {
				return denial(domainerrors.DenialSocialExpired)
			}
			return denial(domainerrors.DenialSocialMissing)
		}
	}

	if offer.LocationRadiusKm > 0 && offer.BrandLat != nil && offer.BrandLng != nil {
		// Missing creator location routes to the location-capture flow, which
		// is a different denial than being out of radius.
		if !creator.HasLocation() {
			return denial(domainerrors.DenialLocationMissing)
		}
		distance := DistanceKm(*creator.Lat, *creator.Lng, *offer.BrandLat, *offer.BrandLng)
		if distance > offer.LocationRadiusKm {
			return denial(domainerrors.DenialOutOfRadius)
		}
	}

	return nil
}

func denial(reason domainerrors.DenialReason) *domainerrors.DenialReason {
	return &reason
}
