package iam

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/database"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Repository defines user account persistence
type Repository interface {
	CreateUser(user *types.User) error
	GetUserByID(tenantID, id string) (*types.User, error)
	GetUserByEmail(tenantID, email string) (*types.User, error)
	UpdateUser(tenantID, id string, updates *types.UserUpdates) error
	DeleteUser(tenantID, id string) error
	GetUsers(tenantID string) ([]*types.User, error)
}

// SQLRepository implements Repository over postgres
type SQLRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &SQLRepository{
		db:     db,
		logger: log,
	}
}

const userColumns = `id, tenant_id, name, email, password_hash, role, created_at, updated_at`

// CreateUser creates a new user account
func (r *SQLRepository) CreateUser(user *types.User) error {
	query := `
		INSERT INTO users (id, tenant_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		user.ID,
		user.TenantID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithTenant(user.TenantID).Infof("Created user %s with role %s", user.ID, user.Role)
	return nil
}

// GetUserByID retrieves a user by ID
func (r *SQLRepository) GetUserByID(tenantID, id string) (*types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 AND id = $2`, userColumns)
	return r.scanUser(r.db.QueryRow(query, tenantID, id), id)
}

// GetUserByEmail retrieves a user by email
func (r *SQLRepository) GetUserByEmail(tenantID, email string) (*types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 AND email = $2`, userColumns)
	return r.scanUser(r.db.QueryRow(query, tenantID, email), email)
}

func (r *SQLRepository) scanUser(row *sql.Row, ref string) (*types.User, error) {
	user := &types.User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.TenantID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("user not found: %s", ref))
		}
		r.logger.WithError(err).Errorf("Failed to get user %s", ref)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Role = types.Role(role)
	return user, nil
}

// UpdateUser updates a user account
func (r *SQLRepository) UpdateUser(tenantID, id string, updates *types.UserUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *updates.Name)
		argIndex++
	}

	if updates.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, *updates.Email)
		argIndex++
	}

	if updates.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, string(*updates.Role))
		argIndex++
	}

	if len(setParts) == 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no updates provided", nil)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE users SET %s WHERE tenant_id = $%d AND id = $%d",
		strings.Join(setParts, ", "), argIndex, argIndex+1)
	args = append(args, tenantID, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to update user %s", id)
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("user not found: %s", id))
	}

	return nil
}

// DeleteUser deletes a user account
func (r *SQLRepository) DeleteUser(tenantID, id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to delete user %s", id)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("user not found: %s", id))
	}

	return nil
}

// GetUsers retrieves all users of a tenant
func (r *SQLRepository) GetUsers(tenantID string) ([]*types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE tenant_id = $1 ORDER BY created_at ASC`, userColumns)

	rows, err := r.db.Query(query, tenantID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query users")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*types.User
	for rows.Next() {
		user := &types.User{}
		var role string
		err := rows.Scan(
			&user.ID,
			&user.TenantID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = types.Role(role)
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
