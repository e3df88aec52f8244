package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A taken phone number surfaces as AlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m := &models.User{
		ID:           user.ID,
		Phone:        user.Phone,
		FullName:     user.FullName,
		Email:        user.Email.Ptr(),
		PasswordHash: user.PasswordHash,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID, with role assignments preloaded
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("RoleAssignments").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByIDForUpdate reads the user row with SELECT FOR UPDATE so the caller's
// transaction holds the row lock until commit. Under READ COMMITTED two
// racing primary grants would otherwise both demote against a snapshot that
// misses the other's uncommitted insert. SQLite has no row locks; its
// single-writer transactions already serialize, so the clause is Postgres
// only.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.User
	err := db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByPhone gets a user by phone number
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	var m models.User
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("RoleAssignments").
		Where("phone = ?", phone).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Update updates a user's mutable profile fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"full_name":  user.FullName,
		"is_active":  user.IsActive,
		"updated_at": time.Now(),
	}
	if user.Email.Valid {
		updates["email"] = user.Email.String
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

// Deactivate clears the active flag; the row itself stays
func (r *UserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional phone/name search
func (r *UserRepository) List(ctx context.Context, search string) ([]*entities.User, error) {
	var userModels []models.User
	query := GetDB(ctx, r.db).WithContext(ctx).
		Preload("RoleAssignments").
		Order("created_at DESC")

	if search != "" {
		term := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR phone LIKE ?", term, term)
	}

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userToEntity(&userModels[i]))
	}
	return users, nil
}

func userToEntity(m *models.User) *entities.User {
	u := &entities.User{
		ID:           m.ID,
		Phone:        m.Phone,
		FullName:     m.FullName,
		Email:        null.StringFromPtr(m.Email),
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		LastLoginAt:  null.TimeFromPtr(m.LastLoginAt),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, a := range m.RoleAssignments {
		u.Roles = append(u.Roles, roleToEntity(&a))
	}
	return u
}
