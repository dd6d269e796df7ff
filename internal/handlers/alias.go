package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/miniurl/internal/analytics"
	"github.com/serroba/miniurl/internal/messaging"
	"github.com/serroba/miniurl/internal/shortener"
	"go.uber.org/zap"
)

// AliasService is the part of shortener.Service the HTTP layer needs.
type AliasService interface {
	RegisterOwner(ctx context.Context) (shortener.OwnerID, error)
	Shorten(ctx context.Context, url string, owner shortener.OwnerID, ttl time.Duration, maxVisits int) (*shortener.Entry, error)
	Edit(ctx context.Context, code shortener.Code, owner shortener.OwnerID, ttl time.Duration, maxVisits int) error
	Remove(ctx context.Context, code shortener.Code, owner shortener.OwnerID) error
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Entry, error)
	List(ctx context.Context, owner shortener.OwnerID) ([]shortener.Code, error)
	IsActive(ctx context.Context, code shortener.Code) bool
	IsOwnedBy(ctx context.Context, code shortener.Code, owner shortener.OwnerID) bool
}

// Publishers groups the typed event publishers used by AliasHandler.
type Publishers struct {
	Created messaging.Publish[analytics.AliasCreatedEvent]
	Visited messaging.Publish[analytics.AliasVisitedEvent]
	Removed messaging.Publish[analytics.AliasRemovedEvent]
}

// DiscardPublishers drops every event.
func DiscardPublishers() Publishers {
	return Publishers{
		Created: messaging.Discard[analytics.AliasCreatedEvent](),
		Visited: messaging.Discard[analytics.AliasVisitedEvent](),
		Removed: messaging.Discard[analytics.AliasRemovedEvent](),
	}
}

// AliasHandler handles owner registration and alias operations.
type AliasHandler struct {
	service AliasService
	baseURL string
	publish Publishers
	logger  *zap.Logger
	now     func() time.Time
}

// NewAliasHandler creates a new alias handler.
func NewAliasHandler(service AliasService, baseURL string, publish Publishers, logger *zap.Logger) *AliasHandler {
	return &AliasHandler{
		service: service,
		baseURL: baseURL,
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

func (h *AliasHandler) RegisterOwner(ctx context.Context, _ *struct{}) (*RegisterOwnerResponse, error) {
	owner, err := h.service.RegisterOwner(ctx)
	if err != nil {
		h.logger.Error("failed to register owner", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to register owner")
	}

	resp := &RegisterOwnerResponse{}
	resp.Body.OwnerID = string(owner)

	return resp, nil
}

func (h *AliasHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	url, err := shortener.NormalizeURL(req.Body.URL)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid url", err)
	}

	entry, err := h.service.Shorten(
		ctx, url, shortener.OwnerID(req.OwnerID), seconds(req.Body.TTLSeconds), req.Body.MaxVisits,
	)
	if err != nil {
		return nil, h.toHTTPError(err, "failed to shorten url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.AliasCreatedEvent{
		Code:      string(entry.Code),
		Owner:     string(entry.Owner),
		URL:       entry.URL,
		ExpiresAt: entry.ExpiresAt,
		MaxVisits: entry.MaxVisits,
		CreatedAt: entry.CreatedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publish.Created(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("topic", analytics.TopicAliasCreated),
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, entry.Code)

	resp := &ShortenResponse{}
	resp.Location = shortURL
	resp.Body.Code = string(entry.Code)
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = entry.URL
	resp.Body.ExpiresAt = entry.ExpiresAt
	resp.Body.MaxVisits = entry.MaxVisits

	return resp, nil
}

func (h *AliasHandler) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	codes, err := h.service.List(ctx, shortener.OwnerID(req.OwnerID))
	if err != nil {
		return nil, h.toHTTPError(err, "failed to list aliases")
	}

	resp := &ListResponse{}
	resp.Body.Codes = make([]string, 0, len(codes))

	for _, code := range codes {
		resp.Body.Codes = append(resp.Body.Codes, string(code))
	}

	return resp, nil
}

func (h *AliasHandler) Status(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	code := shortener.Code(req.Code)

	resp := &StatusResponse{}
	resp.Body.Code = req.Code
	resp.Body.Active = h.service.IsActive(ctx, code)
	resp.Body.Owned = req.OwnerID != "" && h.service.IsOwnedBy(ctx, code, shortener.OwnerID(req.OwnerID))

	return resp, nil
}

func (h *AliasHandler) Edit(ctx context.Context, req *EditRequest) (*struct{}, error) {
	err := h.service.Edit(
		ctx,
		shortener.Code(req.Code),
		shortener.OwnerID(req.OwnerID),
		seconds(req.Body.TTLSeconds),
		req.Body.MaxVisits,
	)
	if err != nil {
		return nil, h.toHTTPError(err, "failed to edit alias")
	}

	return nil, nil
}

func (h *AliasHandler) Remove(ctx context.Context, req *RemoveRequest) (*struct{}, error) {
	if err := h.service.Remove(ctx, shortener.Code(req.Code), shortener.OwnerID(req.OwnerID)); err != nil {
		return nil, h.toHTTPError(err, "failed to remove alias")
	}

	event := &analytics.AliasRemovedEvent{
		Code:      req.Code,
		Reason:    analytics.ReasonOwner,
		RemovedAt: h.now(),
	}

	if err := h.publish.Removed(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("topic", analytics.TopicAliasRemoved),
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return nil, nil
}

func (h *AliasHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	entry, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError(err, "failed to resolve alias")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.AliasVisitedEvent{
		Code:      req.Code,
		Visit:     entry.Visits,
		VisitedAt: h.now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publish.Visited(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("topic", analytics.TopicAliasVisited),
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: entry.URL,
	}, nil
}

func (h *AliasHandler) toHTTPError(err error, fallback string) error {
	switch {
	case errors.Is(err, shortener.ErrUnknownOwner):
		return huma.Error401Unauthorized("unknown owner")
	case errors.Is(err, shortener.ErrNotOwned):
		return huma.Error403Forbidden("alias not owned by caller")
	case errors.Is(err, shortener.ErrInactive):
		return huma.Error404NotFound("alias not found or no longer active")
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("invalid url", err)
	}

	h.logger.Error(fallback, zap.Error(err))

	return huma.Error500InternalServerError(fallback)
}

func seconds(n int) time.Duration {
	return shortener.TTLFromSeconds(int64(n))
}
