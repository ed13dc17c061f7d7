package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kunkoder/Cor1/internal/models"
)

const userColumns = `
	u.id, u.name, u.employee_id, u.email, u.password_hash,
	u.phone_number, u.designation, u.join_date, u.nationality,
	u.created_at, u.updated_at,
	COALESCE(
		(SELECT array_agg(r.role ORDER BY r.role) FROM user_roles r WHERE r.user_id = u.id),
		'{}'
	)`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var roles []string
	err := row.Scan(
		&u.ID, &u.Name, &u.EmployeeID, &u.Email, &u.PasswordHash,
		&u.PhoneNumber, &u.Designation, &u.JoinDate, &u.Nationality,
		&u.CreatedAt, &u.UpdatedAt, &roles,
	)
	if err != nil {
		return nil, err
	}
	names := make([]models.RoleName, len(roles))
	for i, r := range roles {
		names[i] = models.RoleName(r)
	}
	u.SetRoles(names)
	return &u, nil
}

// ListUsers returns all users ordered by name.
func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.name, u.employee_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// GetUserByID returns a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByLogin returns the user whose employee ID or email matches login,
// ignoring case.
func (db *DB) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	u, err := scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users u
		WHERE LOWER(u.employee_id) = LOWER($1) OR LOWER(u.email) = LOWER($1)
		LIMIT 1
	`, login))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("user", login)
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return u, nil
}

// EmployeeIDExists reports whether another user already has employeeID.
func (db *DB) EmployeeIDExists(ctx context.Context, employeeID string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE LOWER(employee_id) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2)
		)
	`, employeeID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee id: %w", err)
	}
	return exists, nil
}

// CreateUser creates a new user and its roles.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	return db.ExecTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (
				id, name, employee_id, email, password_hash,
				phone_number, designation, join_date, nationality,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			u.ID, u.Name, u.EmployeeID, u.Email, u.PasswordHash,
			u.PhoneNumber, u.Designation, u.JoinDate, u.Nationality,
			u.CreatedAt, u.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return replaceRoles(ctx, tx, u)
	})
}

// UpdateUser updates a user's profile and roles. The password hash is only
// written when non-empty.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	return db.ExecTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users SET
				name = $2,
				employee_id = $3,
				email = $4,
				password_hash = COALESCE(NULLIF($5, ''), password_hash),
				phone_number = $6,
				designation = $7,
				join_date = $8,
				nationality = $9,
				updated_at = $10
			WHERE id = $1
		`,
			u.ID, u.Name, u.EmployeeID, u.Email, u.PasswordHash,
			u.PhoneNumber, u.Designation, u.JoinDate, u.Nationality, u.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return notFound("user", u.ID)
		}
		return replaceRoles(ctx, tx, u)
	})
}

func replaceRoles(ctx context.Context, tx pgx.Tx, u *models.User) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, u.ID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	for _, r := range u.Roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`,
			u.ID, string(r.Name),
		); err != nil {
			return fmt.Errorf("add user role %s: %w", r.Name, err)
		}
	}
	return nil
}

// DeleteUser deletes a user.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("user", id)
	}
	return nil
}
