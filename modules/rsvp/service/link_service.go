package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"parking-rsvp-api/core/cache"
	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/logger"
	eventRepo "parking-rsvp-api/modules/event/repository"
	"parking-rsvp-api/modules/rsvp/dto"
	"parking-rsvp-api/modules/rsvp/repository"
	"parking-rsvp-api/modules/rsvp/token"
)

// LinkService builds signed per-guest RSVP links. Links are cached until the
// token expires so the share dialog hands out a stable URL per guest.
type LinkService struct {
	events  eventRepo.EventRepositoryInterface
	cache   cache.Cache
	secret  string
	baseURL string
}

func NewLinkService(events eventRepo.EventRepositoryInterface, c cache.Cache, secret, baseURL string) *LinkService {
	return &LinkService{
		events:  events,
		cache:   c,
		secret:  secret,
		baseURL: baseURL,
	}
}

func linkCacheKey(eventID int64, email string) string {
	return fmt.Sprintf("%s%d:%s", constants.RedisKeyRsvpLink, eventID, repository.NormalizeEmail(email))
}

// GenerateLink signs a token for (event, email) expiring at the event's end
// time (falling back to start time) and embeds it in the RSVP URL.
func (s *LinkService) GenerateLink(ctx context.Context, req *dto.GenerateLinkRequest) (*dto.GenerateLinkResponse, *errors.AppError) {
	if req.EventID == 0 || req.Email == "" {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Missing eventId or email", nil)
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		logger.Error("LinkService:GenerateLink:GetEvent:Error", "error", err, "event_id", req.EventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if s.secret == "" {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "RSVP token secret is not configured", nil)
	}

	deadline := event.RsvpDeadline()
	if deadline.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event date is not configured", nil)
	}
	exp := deadline.UnixMilli()

	key := linkCacheKey(event.ID, req.Email)
	if s.cache != nil && req.RsvpURL == "" {
		if cached, found, cacheErr := s.cache.Get(ctx, key); cacheErr == nil && found {
			return &dto.GenerateLinkResponse{Link: cached}, nil
		}
	}

	signed, err := token.Sign(token.Payload{
		EventID: event.ID,
		Email:   req.Email,
		Exp:     exp,
	}, s.secret)
	if err != nil {
		logger.Error("LinkService:GenerateLink:Sign:Error", "error", err, "event_id", event.ID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to sign token", nil)
	}

	base := req.RsvpURL
	if base == "" {
		base = fmt.Sprintf("%s/rsvp/%d", s.baseURL, event.ID)
	}
	link, err := appendToken(base, signed)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid rsvpUrl", nil)
	}

	if s.cache != nil && req.RsvpURL == "" {
		ttl := time.Until(deadline)
		if ttl > 0 {
			if cacheErr := s.cache.Set(ctx, key, link, ttl); cacheErr != nil {
				logger.Warn("LinkService:GenerateLink:CacheSet:Error", "error", cacheErr)
			}
		}
	}

	logger.Info("LinkService:GenerateLink:Success", "event_id", event.ID)
	return &dto.GenerateLinkResponse{Link: link}, nil
}

func appendToken(base, tok string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
