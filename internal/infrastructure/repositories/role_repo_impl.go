package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pro324test/store-sub001/internal/domain/entities"
	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
	"github.com/pro324test/store-sub001/internal/infrastructure/models"
)

// RoleAssignmentRepository implements role ledger data operations
type RoleAssignmentRepository struct {
	db *gorm.DB
}

// NewRoleAssignmentRepository creates a new role assignment repository
func NewRoleAssignmentRepository(db *gorm.DB) *RoleAssignmentRepository {
	return &RoleAssignmentRepository{db: db}
}

// Assign inserts the assignment or reactivates the existing (user, role) row.
// The caller runs this inside a UnitOfWork when IsPrimary is set.
func (r *RoleAssignmentRepository) Assign(ctx context.Context, assignment *entities.RoleAssignment) error {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var existing models.RoleAssignment
	err := db.Where("user_id = ? AND role = ?", assignment.UserID, string(assignment.Role)).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"is_active":  true,
			"is_primary": assignment.IsPrimary,
			"updated_at": time.Now(),
		}
		if err := db.Model(&models.RoleAssignment{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return err
		}
		assignment.ID = existing.ID
		assignment.IsActive = true
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if assignment.ID == uuid.Nil {
			assignment.ID = uuid.New()
		}
		m := &models.RoleAssignment{
			ID:        assignment.ID,
			UserID:    assignment.UserID,
			Role:      string(assignment.Role),
			IsActive:  true,
			IsPrimary: assignment.IsPrimary,
		}
		if err := db.Create(m).Error; err != nil {
			if isUniqueViolation(err) {
				// Lost the insert race; the row exists now, treat as conflict.
				return domainerrors.ErrConflict
			}
			return err
		}
		assignment.IsActive = true
		return nil
	default:
		return err
	}
}

// DemotePrimary clears the primary flag on every active assignment of the user
func (r *RoleAssignmentRepository) DemotePrimary(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Where("user_id = ? AND is_active = ? AND is_primary = ?", userID, true, true).
		Updates(map[string]interface{}{"is_primary": false, "updated_at": time.Now()}).Error
}

// Deactivate revokes a role without deleting the assignment row
func (r *RoleAssignmentRepository) Deactivate(ctx context.Context, userID uuid.UUID, role entities.Role) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Where("user_id = ? AND role = ?", userID, string(role)).
		Updates(map[string]interface{}{"is_active": false, "is_primary": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// GetByUser returns every assignment of the user, active or not
func (r *RoleAssignmentRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]entities.RoleAssignment, error) {
	var ms []models.RoleAssignment
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]entities.RoleAssignment, 0, len(ms))
	for i := range ms {
		assignments = append(assignments, roleToEntity(&ms[i]))
	}
	return assignments, nil
}

// HasActiveRole reports whether the user holds an active assignment of the role
func (r *RoleAssignmentRepository) HasActiveRole(ctx context.Context, userID uuid.UUID, role entities.Role) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Where("user_id = ? AND role = ? AND is_active = ?", userID, string(role), true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActivePrimary counts active primary assignments; the ledger invariant
// keeps this at most 1
func (r *RoleAssignmentRepository) CountActivePrimary(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Where("user_id = ? AND is_active = ? AND is_primary = ?", userID, true, true).
		Count(&count).Error
	return count, err
}

func roleToEntity(m *models.RoleAssignment) entities.RoleAssignment {
	return entities.RoleAssignment{
		ID:        m.ID,
		UserID:    m.UserID,
		Role:      entities.Role(m.Role),
		IsActive:  m.IsActive,
		IsPrimary: m.IsPrimary,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
