package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "gifted/contexts/barter-core/offer-service/application"
	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/domain/services"
	"gifted/contexts/barter-core/offer-service/ports"
)

type CreateOfferCommand struct {
	BrandID                      string
	IdempotencyKey               string
	Title                        string
	Template                     string
	CountriesAllowed             []string
	MaxClaims                    int
	DeadlineDaysAfterDelivery    int
	AcceptanceFollowersThreshold int
	AboveThresholdAutoAccept     bool
	UsageRightsRequired          bool
	UsageRightsScope             string
	Metadata                     services.MetadataInput
	Publish                      bool
}

type CreateOfferResult struct {
	Offer    entities.Offer
	Replayed bool
}

type CreateOfferUseCase struct {
	Offers         ports.OfferRepository
	Idempotency    ports.IdempotencyStore
	Billing        ports.BillingGate
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (uc CreateOfferUseCase) Execute(ctx context.Context, cmd CreateOfferCommand) (CreateOfferResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.BrandID) == "" {
		return CreateOfferResult{}, domainerrors.ErrInvalidOfferInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateOfferResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.Clock.Now().UTC()
	requestHash := hashCreateOfferCommand(cmd)
	if record, found, err := uc.Idempotency.GetRecord(ctx, cmd.IdempotencyKey, now); err != nil {
		return CreateOfferResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CreateOfferResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		offer, err := uc.Offers.GetOffer(ctx, record.OfferID)
		if err != nil {
			return CreateOfferResult{}, err
		}
		logger.Info("offer create replayed from idempotency",
			"event", "offer_create_replayed",
			"module", "barter-core/offer-service",
			"layer", "application",
			"offer_id", offer.OfferID,
		)
		return CreateOfferResult{Offer: offer, Replayed: true}, nil
	}

	countries := normalizeCountries(cmd.CountriesAllowed)
	mode := services.ModeDraft
	if cmd.Publish {
		mode = services.ModePublish
	}
	meta, issues := services.ValidateMetadata(cmd.Metadata, countries, mode)
	if len(issues) > 0 {
		return CreateOfferResult{}, domainerrors.NewValidationError(issues)
	}

	offerID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateOfferResult{}, err
	}

	offer := entities.Offer{
		OfferID:                      offerID,
		BrandID:                      strings.TrimSpace(cmd.BrandID),
		Title:                        strings.TrimSpace(cmd.Title),
		Status:                       entities.OfferStatusDraft,
		Template:                     entities.OfferTemplate(strings.ToLower(strings.TrimSpace(cmd.Template))),
		CountriesAllowed:             countries,
		MaxClaims:                    cmd.MaxClaims,
		DeadlineDaysAfterDelivery:    cmd.DeadlineDaysAfterDelivery,
		AcceptanceFollowersThreshold: cmd.AcceptanceFollowersThreshold,
		AboveThresholdAutoAccept:     cmd.AboveThresholdAutoAccept,
		UsageRightsRequired:          cmd.UsageRightsRequired,
		UsageRightsScope:             strings.TrimSpace(cmd.UsageRightsScope),
		Metadata:                     meta,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}

	if cmd.Publish {
		if publishIssues := services.ValidatePublish(offer); len(publishIssues) > 0 {
			return CreateOfferResult{}, domainerrors.NewValidationError(publishIssues)
		}
		if err := checkBillingGate(ctx, uc.Billing, offer.BrandID); err != nil {
			return CreateOfferResult{}, err
		}
		offer.Status = entities.OfferStatusPublished
		offer.PublishedAt = &now
	}

	if err := uc.Offers.CreateOffer(ctx, offer); err != nil {
		return CreateOfferResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:         cmd.IdempotencyKey,
		RequestHash: requestHash,
		OfferID:     offer.OfferID,
		ExpiresAt:   now.Add(uc.IdempotencyTTL),
	}); err != nil {
		return CreateOfferResult{}, err
	}

	logger.Info("offer created",
		"event", "offer_created",
		"module", "barter-core/offer-service",
		"layer", "application",
		"offer_id", offer.OfferID,
		"brand_id", offer.BrandID,
		"status", string(offer.Status),
	)
	return CreateOfferResult{Offer: offer}, nil
}

// checkBillingGate translates a missing subscription into the paywall error.
// A nil gate means billing is disabled for this deployment.
func checkBillingGate(ctx context.Context, billing ports.BillingGate, brandID string) error {
	if billing == nil {
		return nil
	}
	active, err := billing.SubscriptionActive(ctx, brandID)
	if err != nil {
		return err
	}
	if !active {
		return domainerrors.ErrPaywall
	}
	return nil
}

func normalizeCountries(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		value = strings.ToUpper(strings.TrimSpace(value))
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

func hashCreateOfferCommand(cmd CreateOfferCommand) string {
	payload, _ := json.Marshal(cmd)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
