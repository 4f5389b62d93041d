package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/jackc/pgerrcode"
)

// userRepository stores accounts. Authors of lists and comments are
// resolved by join in the list and comment queries, so it only serves
// authentication.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts the account. user.Password must already hold the
// bcrypt hash; a taken login yields ErrLoginAlreadyExists.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	return r.queryUser(ctx, "*userRepository.CreateUser", createUser, user.Login, user.Password)
}

// FindUserByLogin returns the account with the stored hash in Password.
func (r *userRepository) FindUserByLogin(ctx context.Context, user models.User) (models.User, error) {
	return r.queryUser(ctx, "*userRepository.FindUserByLogin", findUserByLogin, user.Login)
}

func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.queryUser(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// queryUser runs a statement returning one users row.
func (r *userRepository) queryUser(ctx context.Context, fn, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			log.Warn().Str("func", fn).Msg("login already exists")
			return models.User{}, ErrLoginAlreadyExists
		case pgerrcode.NoDataFound:
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", fn).Msg("user query failed")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var user models.User
	if err := row.Scan(&user.UserID, &user.Login, &user.Password, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", fn).Msg("error scanning user")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return user, nil
}
