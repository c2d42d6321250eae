package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glzzd/orion/internal/auth"
)

var _ auth.UserStore = (*Store)(nil)

const userColumns = `id, tenant_id, username, email, password_hash, status, personal, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	personal, err := json.Marshal(u.PersonalData)
	if err != nil {
		return fmt.Errorf("marshal personal data: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		insert into users (id, tenant_id, username, email, password_hash, status, personal)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning created_at, updated_at
	`, u.ID, u.TenantID, u.Username, u.Email, u.PasswordHash, u.Status, personal)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id)
	return scanUser(row)
}

func (s *Store) FindUserByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where username = $1 or email = $1`, identifier)
	return scanUser(row)
}

func (s *Store) AddRefreshToken(ctx context.Context, userID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`insert into refresh_tokens (user_id, token) values ($1, $2)`, userID, token)
	if err != nil && isForeignKeyViolation(err) {
		return auth.ErrNotFound
	}
	return err
}

// RemoveRefreshToken deletes one token of one user. The single DELETE is
// the atomic arbiter for refresh rotation: of two concurrent rotations
// presenting the same token, only one sees rows-affected == 1.
func (s *Store) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`delete from refresh_tokens where user_id = $1 and token = $2`, userID, token)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) RemoveAllRefreshTokens(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`delete from refresh_tokens where user_id = $1`, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*auth.User, error) {
	var (
		u        auth.User
		personal []byte
	)
	err := row.Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Status, &personal, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(personal) > 0 {
		if err := json.Unmarshal(personal, &u.PersonalData); err != nil {
			return nil, fmt.Errorf("decode personal data: %w", err)
		}
	}
	return &u, nil
}
