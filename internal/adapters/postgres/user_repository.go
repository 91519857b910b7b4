package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	authzPorts "github.com/casira/connect/internal/authz/ports"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/casira/connect/internal/users/domain"
	"github.com/casira/connect/internal/users/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = []string{
	"id", "external_id", "email", "username", "display_name", "bio", "avatar_url",
	"role", "last_login_at", "created_at", "updated_at",
}

// UserRepository implements users.UserRepository and authz.RoleReader using PostgreSQL
type UserRepository struct {
	postgres.BaseRepository
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("users").
		Columns(userColumns...).
		Values(
			postgres.UUID(user.ID),
			user.ExternalID,
			user.Email,
			user.Username,
			postgres.NullText(user.DisplayName),
			postgres.NullText(user.Bio),
			postgres.NullText(user.AvatarURL),
			string(user.Role),
			postgres.NullTimestamptz(user.LastLoginAt),
			postgres.Timestamptz(user.CreatedAt),
			postgres.Timestamptz(user.UpdatedAt),
		))
	if err != nil {
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "UserRepository.FindByID", sq.Eq{"id": postgres.UUID(id)})
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.findOne(ctx, "UserRepository.FindByExternalID", sq.Eq{"external_id": externalID})
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.Exec(ctx, r.SB.
		Update("users").
		Set("display_name", postgres.NullText(user.DisplayName)).
		Set("bio", postgres.NullText(user.Bio)).
		Set("avatar_url", postgres.NullText(user.AvatarURL)).
		Set("role", string(user.Role)).
		Set("last_login_at", postgres.NullTimestamptz(user.LastLoginAt)).
		Set("updated_at", postgres.Timestamptz(user.UpdatedAt)).
		Where(sq.Eq{"id": postgres.UUID(user.ID)}))
	if err != nil {
		return fmt.Errorf("UserRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := r.Exists(ctx, r.SB.Select("1").From("users").Where("LOWER(username) = LOWER(?)", username))
	if err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByUsername: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.Exists(ctx, r.SB.Select("1").From("users").Where("LOWER(email) = LOWER(?)", email))
	if err != nil {
		return false, fmt.Errorf("UserRepository.ExistsByEmail: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.User, int, error) {
	where := sq.And{}
	if filter.Role != nil {
		where = append(where, sq.Eq{"role": string(*filter.Role)})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"display_name": pattern},
			sq.ILike{"email": pattern},
		})
	}

	total, err := r.Count(ctx, r.SB.Select("COUNT(*)").From("users").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("UserRepository.List: count: %w", err)
	}

	qb := r.SB.Select(userColumns...).From("users").Where(where).OrderBy("created_at DESC")
	rows, err := r.Query(ctx, postgres.Page(qb, filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("UserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("UserRepository.List: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("UserRepository.List: rows error: %w", err)
	}
	return users, total, nil
}

// GetUserRole implements authz ports.RoleReader
func (r *UserRepository) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	row, err := r.QueryRow(ctx, r.SB.Select("role").From("users").Where(sq.Eq{"id": postgres.UUID(userID)}))
	if err != nil {
		return "", fmt.Errorf("UserRepository.GetUserRole: %w", err)
	}

	var role string
	if err := row.Scan(&role); err != nil {
		if postgres.IsNoRows(err) {
			return "", authzPorts.ErrSubjectNotFound
		}
		return "", fmt.Errorf("UserRepository.GetUserRole: %w", err)
	}
	return role, nil
}

func (r *UserRepository) findOne(ctx context.Context, op string, where sq.Sqlizer) (*domain.User, error) {
	row, err := r.QueryRow(ctx, r.SB.Select(userColumns...).From("users").Where(where))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := scanUser(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ports.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var id pgtype.UUID
	var displayName, bio, avatarURL pgtype.Text
	var role string
	var lastLogin pgtype.Timestamptz

	err := row.Scan(
		&id,
		&user.ExternalID,
		&user.Email,
		&user.Username,
		&displayName,
		&bio,
		&avatarURL,
		&role,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID = uuid.UUID(id.Bytes)
	user.DisplayName = postgres.Text(displayName)
	user.Bio = postgres.Text(bio)
	user.AvatarURL = postgres.Text(avatarURL)
	user.LastLoginAt = postgres.TimePtr(lastLogin)
	user.Role, err = domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("scanUser: %w", err)
	}
	return &user, nil
}
