package store

import (
	"context"
	"database/sql"

	"snackshop/internal/models"
)

// GetUserByID retrieves a user, or nil when absent
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, or nil when absent
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByGoogleID retrieves a user by Google account ID, or nil when absent
func (s *Store) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE google_id = $1", googleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user account
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, name, google_id, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.GoogleID, user.Avatar)
	return row.Scan(&user.ID, &user.CreatedAt)
}

// LinkGoogleID attaches a Google account ID to an existing user
func (s *Store) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET google_id = $1 WHERE id = $2", googleID, userID)
	return err
}

// GetAdminByID retrieves an admin, or nil when absent
func (s *Store) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetAdminByUsername retrieves an admin by username, or nil when absent
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// CountAdmins reports how many admin accounts exist
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admins")
	return count, err
}

// CreateAdmin inserts an admin account
func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING id`

	return s.db.GetContext(ctx, &admin.ID, query, admin.Username, admin.PasswordHash)
}
