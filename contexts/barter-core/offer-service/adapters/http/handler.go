package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gifted/contexts/barter-core/offer-service/application/commands"
	"gifted/contexts/barter-core/offer-service/application/queries"
	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/domain/services"
	httptransport "gifted/contexts/barter-core/offer-service/transport/http"
)

type Handler struct {
	CreateOffer    commands.CreateOfferUseCase
	UpdateOffer    commands.UpdateOfferUseCase
	ChangeStatus   commands.ChangeStatusUseCase
	DuplicateOffer commands.DuplicateOfferUseCase
	SaveDraft      commands.SaveDraftUseCase
	GetOffer       queries.GetOfferUseCase
	ListOffers     queries.ListOffersUseCase
	GetDraft       queries.GetDraftUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateOfferHandler(
	ctx context.Context,
	userID string,
	idempotencyKey string,
	req httptransport.CreateOfferRequest,
) (httptransport.CreateOfferResponse, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && status != string(entities.OfferStatusDraft) && status != string(entities.OfferStatusPublished) {
		return httptransport.CreateOfferResponse{}, domainerrors.ErrInvalidOfferInput
	}
	result, err := h.CreateOffer.Execute(ctx, commands.CreateOfferCommand{
		BrandID:                      userID,
		IdempotencyKey:               idempotencyKey,
		Title:                        req.Title,
		Template:                     req.Template,
		CountriesAllowed:             append([]string(nil), req.CountriesAllowed...),
		MaxClaims:                    req.MaxClaims,
		DeadlineDaysAfterDelivery:    req.DeadlineDaysAfterDelivery,
		AcceptanceFollowersThreshold: req.AcceptanceFollowersThreshold,
		AboveThresholdAutoAccept:     req.AboveThresholdAutoAccept,
		UsageRightsRequired:          req.UsageRightsRequired,
		UsageRightsScope:             req.UsageRightsScope,
		Metadata:                     metadataInputFromPayload(req.Metadata),
		Publish:                      status == string(entities.OfferStatusPublished),
	})
	if err != nil {
		return httptransport.CreateOfferResponse{}, err
	}
	return httptransport.CreateOfferResponse{
		Offer:    mapOffer(result.Offer),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) UpdateOfferHandler(
	ctx context.Context,
	userID string,
	offerID string,
	req httptransport.UpdateOfferRequest,
) (httptransport.GetOfferResponse, error) {
	// A status target in the body routes to the lifecycle transition; field
	// edits apply only to drafts.
	if req.Status != nil {
		action, err := statusTargetAction(*req.Status)
		if err != nil {
			return httptransport.GetOfferResponse{}, err
		}
		if err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
			OfferID: offerID,
			ActorID: userID,
			Action:  action,
			Reason:  req.Reason,
		}); err != nil {
			return httptransport.GetOfferResponse{}, err
		}
	}

	if hasFieldEdits(req) {
		var metadata *services.MetadataInput
		if req.Metadata != nil {
			input := metadataInputFromPayload(*req.Metadata)
			metadata = &input
		}
		offer, err := h.UpdateOffer.Execute(ctx, commands.UpdateOfferCommand{
			OfferID:                      offerID,
			ActorID:                      userID,
			Title:                        req.Title,
			Template:                     req.Template,
			CountriesAllowed:             req.CountriesAllowed,
			MaxClaims:                    req.MaxClaims,
			DeadlineDaysAfterDelivery:    req.DeadlineDaysAfterDelivery,
			AcceptanceFollowersThreshold: req.AcceptanceFollowersThreshold,
			AboveThresholdAutoAccept:     req.AboveThresholdAutoAccept,
			UsageRightsRequired:          req.UsageRightsRequired,
			UsageRightsScope:             req.UsageRightsScope,
			Metadata:                     metadata,
		})
		if err != nil {
			return httptransport.GetOfferResponse{}, err
		}
		return httptransport.GetOfferResponse{Offer: mapOffer(offer)}, nil
	}

	offer, err := h.GetOffer.Execute(ctx, offerID)
	if err != nil {
		return httptransport.GetOfferResponse{}, err
	}
	return httptransport.GetOfferResponse{Offer: mapOffer(offer)}, nil
}

func (h Handler) PublishOfferHandler(ctx context.Context, userID string, offerID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		OfferID: offerID,
		ActorID: userID,
		Action:  commands.StatusActionPublish,
	})
}

func (h Handler) ArchiveOfferHandler(ctx context.Context, userID string, offerID string, reason string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		OfferID: offerID,
		ActorID: userID,
		Action:  commands.StatusActionArchive,
		Reason:  reason,
	})
}

func (h Handler) ResumeOfferHandler(ctx context.Context, userID string, offerID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		OfferID: offerID,
		ActorID: userID,
		Action:  commands.StatusActionResume,
	})
}

func (h Handler) DeleteOfferHandler(ctx context.Context, userID string, offerID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		OfferID: offerID,
		ActorID: userID,
		Action:  commands.StatusActionDelete,
	})
}

func (h Handler) DuplicateOfferHandler(ctx context.Context, userID string, offerID string) (httptransport.DuplicateOfferResponse, error) {
	offer, err := h.DuplicateOffer.Execute(ctx, commands.DuplicateOfferCommand{
		OfferID: offerID,
		ActorID: userID,
	})
	if err != nil {
		return httptransport.DuplicateOfferResponse{}, err
	}
	return httptransport.DuplicateOfferResponse{Offer: mapOffer(offer)}, nil
}

func (h Handler) GetOfferHandler(ctx context.Context, offerID string) (httptransport.GetOfferResponse, error) {
	offer, err := h.GetOffer.Execute(ctx, offerID)
	if err != nil {
		return httptransport.GetOfferResponse{}, err
	}
	return httptransport.GetOfferResponse{Offer: mapOffer(offer)}, nil
}

func (h Handler) ListOffersHandler(ctx context.Context, userID string, status string) (httptransport.ListOffersResponse, error) {
	items, err := h.ListOffers.Execute(ctx, queries.ListOffersQuery{
		BrandID: userID,
		Status:  status,
	})
	if err != nil {
		return httptransport.ListOffersResponse{}, err
	}
	result := make([]httptransport.OfferDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapOffer(item))
	}
	return httptransport.ListOffersResponse{Items: result}, nil
}

func (h Handler) SaveDraftHandler(
	ctx context.Context,
	userID string,
	offerID string,
	req httptransport.SaveDraftRequest,
) (httptransport.SaveDraftResponse, error) {
	draft, err := h.SaveDraft.Execute(ctx, commands.SaveDraftCommand{
		OfferID:         offerID,
		ActorID:         userID,
		Step:            req.Step,
		Payload:         req.Payload,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		return httptransport.SaveDraftResponse{}, err
	}
	return httptransport.SaveDraftResponse{Draft: mapDraft(draft)}, nil
}

func (h Handler) GetDraftHandler(ctx context.Context, userID string, offerID string) (httptransport.GetDraftResponse, error) {
	draft, err := h.GetDraft.Execute(ctx, offerID, userID)
	if err != nil {
		return httptransport.GetDraftResponse{}, err
	}
	return httptransport.GetDraftResponse{Draft: mapDraft(draft)}, nil
}

func statusTargetAction(target string) (commands.ChangeStatusAction, error) {
	switch entities.OfferStatus(strings.ToLower(strings.TrimSpace(target))) {
	case entities.OfferStatusPublished:
		return commands.StatusActionPublish, nil
	case entities.OfferStatusArchived:
		return commands.StatusActionArchive, nil
	case entities.OfferStatusDraft:
		return "", domainerrors.ErrInvalidStateTransition
	default:
		return "", domainerrors.ErrInvalidOfferInput
	}
}

func hasFieldEdits(req httptransport.UpdateOfferRequest) bool {
	return req.Title != nil ||
		req.Template != nil ||
		req.CountriesAllowed != nil ||
		req.MaxClaims != nil ||
		req.DeadlineDaysAfterDelivery != nil ||
		req.AcceptanceFollowersThreshold != nil ||
		req.AboveThresholdAutoAccept != nil ||
		req.UsageRightsRequired != nil ||
		req.UsageRightsScope != nil ||
		req.Metadata != nil
}

func metadataInputFromPayload(payload httptransport.MetadataPayload) services.MetadataInput {
	return services.MetadataInput{
		Category:          payload.Category,
		CategoryOther:     payload.CategoryOther,
		Platforms:         append([]string(nil), payload.Platforms...),
		PlatformOther:     payload.PlatformOther,
		ContentTypes:      append([]string(nil), payload.ContentTypes...),
		ContentTypeOther:  payload.ContentTypeOther,
		Niches:            append([]string(nil), payload.Niches...),
		NicheOther:        payload.NicheOther,
		Hashtags:          append([]string(nil), payload.Hashtags...),
		Guidelines:        payload.Guidelines,
		FulfillmentType:   payload.FulfillmentType,
		FulfillmentMethod: payload.FulfillmentMethod,
		LocationRadiusKm:  payload.LocationRadiusKm,
		LocationRadiusMi:  payload.LocationRadiusMi,
		CTAUrl:            payload.CTAUrl,
		PresetID:          payload.PresetID,
		ProductValue:      payload.ProductValue,
		Region:            payload.Region,
		BrandLat:          payload.BrandLat,
		BrandLng:          payload.BrandLng,
	}
}

func mapOffer(offer entities.Offer) httptransport.OfferDTO {
	dto := httptransport.OfferDTO{
		OfferID:                      offer.OfferID,
		BrandID:                      offer.BrandID,
		Title:                        offer.Title,
		Status:                       string(offer.Status),
		Template:                     string(offer.Template),
		CountriesAllowed:             append([]string(nil), offer.CountriesAllowed...),
		MaxClaims:                    offer.MaxClaims,
		DeadlineDaysAfterDelivery:    offer.DeadlineDaysAfterDelivery,
		AcceptanceFollowersThreshold: offer.AcceptanceFollowersThreshold,
		AboveThresholdAutoAccept:     offer.AboveThresholdAutoAccept,
		UsageRightsRequired:          offer.UsageRightsRequired,
		UsageRightsScope:             offer.UsageRightsScope,
		Metadata:                     mapMetadata(offer.Metadata),
		ActiveMatchCount:             offer.ActiveMatchCount,
		CreatedAt:                    offer.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:                    offer.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if offer.PublishedAt != nil {
		dto.PublishedAt = offer.PublishedAt.UTC().Format(time.RFC3339)
	}
	if offer.ArchivedAt != nil {
		dto.ArchivedAt = offer.ArchivedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func mapMetadata(meta entities.Metadata) httptransport.MetadataDTO {
	return httptransport.MetadataDTO{
		Category:          meta.Category,
		CategoryOther:     meta.CategoryOther,
		Platforms:         append([]string(nil), meta.Platforms...),
		PlatformOther:     meta.PlatformOther,
		ContentTypes:      append([]string(nil), meta.ContentTypes...),
		ContentTypeOther:  meta.ContentTypeOther,
		Niches:            append([]string(nil), meta.Niches...),
		NicheOther:        meta.NicheOther,
		Hashtags:          append([]string(nil), meta.Hashtags...),
		Guidelines:        meta.Guidelines,
		FulfillmentType:   string(meta.FulfillmentType),
		FulfillmentMethod: string(meta.FulfillmentMethod),
		LocationRadiusKm:  meta.LocationRadiusKm,
		CTAUrl:            meta.CTAUrl,
		PresetID:          meta.PresetID,
		ProductValue:      meta.ProductValue,
		Region:            meta.Region,
		BrandLat:          meta.BrandLat,
		BrandLng:          meta.BrandLng,
	}
}

func mapDraft(draft entities.Draft) httptransport.DraftDTO {
	return httptransport.DraftDTO{
		OfferID:   draft.OfferID,
		Step:      draft.Step,
		Payload:   draft.Payload,
		Version:   draft.Version,
		UpdatedAt: draft.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
