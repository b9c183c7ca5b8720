package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"snackshop/internal/models"
	"snackshop/internal/redisclient"
	"snackshop/internal/store"
	"snackshop/internal/util"

	"go.uber.org/zap"
)

var (
	// ErrNotFound reports an unknown content record ID.
	ErrNotFound = errors.New("not found")
	// ErrAlreadySubscribed rejects a duplicate newsletter signup.
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

const (
	announcementsCacheKey = "announcements:active"
	announcementsCacheTTL = time.Minute
)

// ContentService covers the storefront's editorial surface: reviews,
// banners, announcements, brand content, and newsletter subscribers.
// The announcement strip is fetched on every page, so the active set is
// cached in Redis and invalidated on admin writes.
type ContentService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(st *store.Store, cache *redisclient.Client) *ContentService {
	return &ContentService{
		store:  st,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Reviews

func (s *ContentService) ApprovedReviews(ctx context.Context) ([]models.Review, error) {
	return s.store.GetApprovedReviews(ctx)
}

func (s *ContentService) AllReviews(ctx context.Context) ([]models.Review, error) {
	return s.store.GetAllReviews(ctx)
}

func (s *ContentService) SubmitReview(ctx context.Context, r *models.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return &RejectionError{Reason: "rating must be between 1 and 5"}
	}
	return s.store.CreateReview(ctx, r)
}

func (s *ContentService) ApproveReview(ctx context.Context, id string) error {
	ok, err := s.store.ApproveReview(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ContentService) DeleteReview(ctx context.Context, id string) error {
	ok, err := s.store.DeleteReview(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Banners

func (s *ContentService) ActiveBanners(ctx context.Context) ([]models.Banner, error) {
	return s.store.GetActiveBanners(ctx)
}

func (s *ContentService) AllBanners(ctx context.Context) ([]models.Banner, error) {
	return s.store.GetAllBanners(ctx)
}

func (s *ContentService) CreateBanner(ctx context.Context, b *models.Banner) error {
	return s.store.CreateBanner(ctx, b)
}

func (s *ContentService) UpdateBanner(ctx context.Context, b *models.Banner) error {
	ok, err := s.store.UpdateBanner(ctx, b)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ContentService) DeleteBanner(ctx context.Context, id string) error {
	ok, err := s.store.DeleteBanner(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *ContentService) ReorderBanners(ctx context.Context, orderedIDs []string) error {
	return s.store.ReorderBanners(ctx, orderedIDs)
}

// Announcements

func (s *ContentService) ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	if s.cache != nil {
		if raw, err := s.cache.CacheGet(ctx, announcementsCacheKey); err != nil {
			s.logger.Warn("Announcement cache read failed", zap.Error(err))
		} else if raw != nil {
			var cached []models.Announcement
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	items, err := s.store.GetActiveAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(items); err == nil {
			if err := s.cache.CacheSet(ctx, announcementsCacheKey, raw, announcementsCacheTTL); err != nil {
				s.logger.Warn("Announcement cache write failed", zap.Error(err))
			}
		}
	}
	return items, nil
}

func (s *ContentService) AllAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return s.store.GetAllAnnouncements(ctx)
}

func (s *ContentService) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if err := s.store.CreateAnnouncement(ctx, a); err != nil {
		return err
	}
	s.invalidateAnnouncements(ctx)
	return nil
}

func (s *ContentService) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	ok, err := s.store.UpdateAnnouncement(ctx, a)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidateAnnouncements(ctx)
	return nil
}

func (s *ContentService) DeleteAnnouncement(ctx context.Context, id string) error {
	ok, err := s.store.DeleteAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidateAnnouncements(ctx)
	return nil
}

func (s *ContentService) invalidateAnnouncements(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheDel(ctx, announcementsCacheKey); err != nil {
		s.logger.Warn("Announcement cache invalidation failed", zap.Error(err))
	}
}

// Brand content

func (s *ContentService) BrandContent(ctx context.Context) ([]models.BrandContent, error) {
	return s.store.GetBrandContent(ctx)
}

func (s *ContentService) UpsertBrandContent(ctx context.Context, bc *models.BrandContent) error {
	return s.store.UpsertBrandContent(ctx, bc)
}

// Subscribers

func (s *ContentService) Subscribers(ctx context.Context) ([]models.Subscriber, error) {
	return s.store.GetAllSubscribers(ctx)
}

func (s *ContentService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	existing, err := s.store.GetSubscriberByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	sub := &models.Subscriber{Email: email}
	if err := s.store.CreateSubscriber(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *ContentService) DeleteSubscriber(ctx context.Context, id string) error {
	ok, err := s.store.DeleteSubscriber(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
