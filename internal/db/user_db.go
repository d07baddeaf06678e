package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/resale-api/internal/apperror"
	"github.com/rajivgeraev/resale-api/internal/models"
)

// User представляет пользователя в системе
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profile_pic,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch содержит изменяемые поля профиля. Nil-поле означает
// "не менять".
type UserPatch struct {
	Username   *string
	Email      *string
	Bio        *string
	Location   *string
	ProfilePic *string
}

const userColumns = `id, username, email, password_hash, profile_pic, bio, location, created_at, updated_at`

// CreateUser создает нового пользователя. Имя пользователя и email
// должны быть уникальными.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке имени пользователя: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Имя пользователя уже занято")
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке email: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Email уже зарегистрирован")
	}

	user := &User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, user.ID, username, email, passwordHash).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	user.PasswordHash = passwordHash
	return user, nil
}

// GetUserByID получает пользователя по ID
func (db *DB) GetUserByID(ctx context.Context, userID uuid.UUID) (*User, error) {
	return db.scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID), userID.String())
}

// GetUserByUsername получает пользователя по имени
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return db.scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username), username)
}

// GetUserByIdentifier получает пользователя по имени или email
func (db *DB) GetUserByIdentifier(ctx context.Context, identifier string) (*User, error) {
	return db.scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1
	`, identifier), identifier)
}

// UpdateUser применяет изменения профиля. Уникальность нового имени
// и email проверяется повторно.
func (db *DB) UpdateUser(ctx context.Context, userID uuid.UUID, patch UserPatch) (*User, error) {
	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		var exists bool
		if err := db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)
		`, *patch.Username).Scan(&exists); err != nil {
			return nil, fmt.Errorf("ошибка при проверке имени пользователя: %w", err)
		}
		if exists {
			return nil, apperror.Conflict("Имя пользователя уже занято")
		}
		user.Username = *patch.Username
	}

	if patch.Email != nil && *patch.Email != user.Email {
		var exists bool
		if err := db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
		`, *patch.Email).Scan(&exists); err != nil {
			return nil, fmt.Errorf("ошибка при проверке email: %w", err)
		}
		if exists {
			return nil, apperror.Conflict("Email уже зарегистрирован")
		}
		user.Email = *patch.Email
	}

	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.ProfilePic != nil {
		user.ProfilePic = *patch.ProfilePic
	}

	err = db.Pool.QueryRow(ctx, `
		UPDATE users
		SET username = $1, email = $2, bio = $3, location = $4, profile_pic = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`, user.Username, user.Email, user.Bio, user.Location, user.ProfilePic, userID).Scan(&user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	return user, nil
}

// DeleteUser удаляет пользователя и его записи избранного и отзывы.
// Товары и офферы остаются: чтение устойчиво к осиротевшим ссылкам.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Снимаем записи избранного пользователя вместе с кешем на товарах
	_, err = tx.Exec(ctx, `
		UPDATE items
		SET favourited_by = array_remove(favourited_by, $1)
		WHERE id IN (SELECT item_id FROM favorites WHERE user_id = $1)
	`, userID)
	if err != nil {
		return fmt.Errorf("ошибка при очистке избранного: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ошибка при удалении избранного: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM reviews WHERE rater_id = $1 OR target_user_id = $1`, userID); err != nil {
		return fmt.Errorf("ошибка при удалении отзывов: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Пользователь", userID.String())
	}

	return tx.Commit(ctx)
}

// getPublicUser возвращает публичную информацию о пользователе для
// вложенных представлений. Осиротевшая ссылка не ломает чтение —
// возвращается пустая запись с тем же ID.
func (db *DB) getPublicUser(ctx context.Context, userID uuid.UUID) *models.User {
	user := &models.User{ID: userID}

	var username, profilePic pgtype.Text
	err := db.Pool.QueryRow(ctx, `
		SELECT username, profile_pic FROM users WHERE id = $1
	`, userID).Scan(&username, &profilePic)
	if err != nil {
		return user
	}

	if username.Valid {
		user.Username = username.String
	}
	if profilePic.Valid {
		user.ProfilePic = profilePic.String
	}

	return user
}

// scanUser читает строку пользователя с учетом nullable полей
func (db *DB) scanUser(row pgx.Row, key string) (*User, error) {
	var user User
	var profilePic, bio, location pgtype.Text

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&profilePic, &bio, &location,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Пользователь", key)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	if profilePic.Valid {
		user.ProfilePic = profilePic.String
	}
	if bio.Valid {
		user.Bio = bio.String
	}
	if location.Valid {
		user.Location = location.String
	}

	return &user, nil
}
