package store

import (
	"context"
	"database/sql"

	"snackshop/internal/models"
)

// Reviews

// GetApprovedReviews retrieves reviews visible on the storefront
func (s *Store) GetApprovedReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews WHERE is_approved = true ORDER BY created_at DESC")
	return reviews, err
}

// GetAllReviews retrieves every review for admin moderation
func (s *Store) GetAllReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.SelectContext(ctx, &reviews,
		"SELECT * FROM reviews ORDER BY created_at DESC")
	return reviews, err
}

// CreateReview inserts a customer review, unapproved by default
func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	query := `
		INSERT INTO reviews (customer_name, customer_email, product_id, rating, review_text, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_approved, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		r.CustomerName, r.CustomerEmail, r.ProductID, r.Rating, r.ReviewText, r.Image)
	return row.Scan(&r.ID, &r.IsApproved, &r.CreatedAt)
}

// ApproveReview flips a review visible
func (s *Store) ApproveReview(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE reviews SET is_approved = true WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteReview removes a review
func (s *Store) DeleteReview(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Banners

// GetActiveBanners retrieves active carousel slides in display order
func (s *Store) GetActiveBanners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	err := s.db.SelectContext(ctx, &banners,
		"SELECT * FROM banners WHERE is_active = true ORDER BY position")
	return banners, err
}

// GetAllBanners retrieves every banner for admin management
func (s *Store) GetAllBanners(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	err := s.db.SelectContext(ctx, &banners, "SELECT * FROM banners ORDER BY position")
	return banners, err
}

// CreateBanner inserts a carousel slide
func (s *Store) CreateBanner(ctx context.Context, b *models.Banner) error {
	query := `
		INSERT INTO banners (image, title, subtitle, position, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.GetContext(ctx, &b.ID, query, b.Image, b.Title, b.Subtitle, b.Position, b.IsActive)
}

// UpdateBanner replaces the fields of a carousel slide
func (s *Store) UpdateBanner(ctx context.Context, b *models.Banner) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE banners
		SET image = $1, title = $2, subtitle = $3, position = $4, is_active = $5
		WHERE id = $6`,
		b.Image, b.Title, b.Subtitle, b.Position, b.IsActive, b.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteBanner removes a carousel slide
func (s *Store) DeleteBanner(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM banners WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReorderBanners rewrites banner display positions in one transaction
func (s *Store) ReorderBanners(ctx context.Context, orderedIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for position, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx,
			"UPDATE banners SET position = $1 WHERE id = $2", position, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Announcements

// GetActiveAnnouncements retrieves the active strip lines in display order
func (s *Store) GetActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var items []models.Announcement
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM announcements WHERE is_active = true ORDER BY position")
	return items, err
}

// GetAllAnnouncements retrieves every announcement for admin management
func (s *Store) GetAllAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var items []models.Announcement
	err := s.db.SelectContext(ctx, &items, "SELECT * FROM announcements ORDER BY position")
	return items, err
}

// CreateAnnouncement inserts a strip line
func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (text, background_color, text_color, is_active, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		a.Text, a.BackgroundColor, a.TextColor, a.IsActive, a.Position)
	return row.Scan(&a.ID, &a.CreatedAt)
}

// UpdateAnnouncement replaces the fields of a strip line
func (s *Store) UpdateAnnouncement(ctx context.Context, a *models.Announcement) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE announcements
		SET text = $1, background_color = $2, text_color = $3, is_active = $4, position = $5
		WHERE id = $6`,
		a.Text, a.BackgroundColor, a.TextColor, a.IsActive, a.Position, a.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAnnouncement removes a strip line
func (s *Store) DeleteAnnouncement(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Brand content

// GetBrandContent retrieves every editable content section
func (s *Store) GetBrandContent(ctx context.Context) ([]models.BrandContent, error) {
	var sections []models.BrandContent
	err := s.db.SelectContext(ctx, &sections, "SELECT * FROM brand_content ORDER BY section")
	return sections, err
}

// UpsertBrandContent writes a content section keyed by its name
func (s *Store) UpsertBrandContent(ctx context.Context, bc *models.BrandContent) error {
	query := `
		INSERT INTO brand_content (section, title, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (section) DO UPDATE SET title = $2, content = $3
		RETURNING id`

	return s.db.GetContext(ctx, &bc.ID, query, bc.Section, bc.Title, bc.Content)
}

// Subscribers

// GetAllSubscribers retrieves the newsletter list, newest first
func (s *Store) GetAllSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	err := s.db.SelectContext(ctx, &subs,
		"SELECT * FROM subscribers ORDER BY created_at DESC")
	return subs, err
}

// GetSubscriberByEmail retrieves a subscriber, or nil when absent
func (s *Store) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	err := s.db.GetContext(ctx, &sub, "SELECT * FROM subscribers WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscriber inserts a newsletter signup
func (s *Store) CreateSubscriber(ctx context.Context, sub *models.Subscriber) error {
	query := `
		INSERT INTO subscribers (email)
		VALUES ($1)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query, sub.Email)
	return row.Scan(&sub.ID, &sub.CreatedAt)
}

// DeleteSubscriber removes a newsletter signup
func (s *Store) DeleteSubscriber(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM subscribers WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
