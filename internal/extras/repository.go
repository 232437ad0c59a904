package extras

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/menuvivo/menuvivo-backend/internal/repo"
	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
)

// repository wires together extras catalog persistence on GORM.
type repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

// FindMenuItem loads a menu item without associations.
func (r *repository) FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func preloadAvailableExtras(db *gorm.DB) *gorm.DB {
	return db.Where("is_available = ?", true).Order("display_order ASC")
}

// ListGroupsForCategory returns the active groups attached to a category,
// each preloaded with its purchasable extras in display order.
func (r *repository) ListGroupsForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.ExtraGroup, error) {
	var rows []models.ExtraGroup
	err := r.DB(ctx).
		Preload("Extras", preloadAvailableExtras).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("display_order ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListGroupsAssignedToProduct returns the active groups mapped onto a
// menu item through the assignment table.
func (r *repository) ListGroupsAssignedToProduct(ctx context.Context, productID uuid.UUID) ([]models.ExtraGroup, error) {
	var rows []models.ExtraGroup
	err := r.DB(ctx).
		Preload("Extras", preloadAvailableExtras).
		Joins("JOIN product_extra_group_assignments a ON a.group_id = extra_groups.id").
		Where("a.product_id = ? AND extra_groups.is_active = ?", productID, true).
		Order("extra_groups.display_order ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListOverridesForProduct returns every override row for a menu item.
func (r *repository) ListOverridesForProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductGroupOverride, error) {
	var rows []models.ProductGroupOverride
	err := r.DB(ctx).
		Where("product_id = ?", productID).
		Find(&rows).
		Error
	return rows, err
}

// FindGroup loads a group with all of its extras, available or not.
func (r *repository) FindGroup(ctx context.Context, id uuid.UUID) (*models.ExtraGroup, error) {
	var group models.ExtraGroup
	err := r.DB(ctx).
		Preload("Extras", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&group, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroupsByStore lists every group a store owns, inactive included.
func (r *repository) ListGroupsByStore(ctx context.Context, storeID uuid.UUID) ([]models.ExtraGroup, error) {
	var rows []models.ExtraGroup
	err := r.DB(ctx).
		Preload("Extras", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("store_id = ?", storeID).
		Order("display_order ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateGroup inserts a new group row.
func (r *repository) CreateGroup(ctx context.Context, group *models.ExtraGroup) (*models.ExtraGroup, error) {
	if err := r.DB(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroup saves the full group row.
func (r *repository) UpdateGroup(ctx context.Context, group *models.ExtraGroup) (*models.ExtraGroup, error) {
	if err := r.DB(ctx).Omit("Extras").Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group; extras, assignments, and overrides
// cascade at the schema level.
func (r *repository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.ExtraGroup{}).Error
}

// UpdateGroupDisplayOrder sets the display position of one group.
func (r *repository) UpdateGroupDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	return r.DB(ctx).
		Model(&models.ExtraGroup{}).
		Where("id = ?", id).
		Update("display_order", order).
		Error
}

// FindExtra loads a single extra row.
func (r *repository) FindExtra(ctx context.Context, id uuid.UUID) (*models.ProductExtra, error) {
	var extra models.ProductExtra
	if err := r.DB(ctx).First(&extra, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &extra, nil
}

// ListExtrasForGroup returns every extra in a group in display order.
func (r *repository) ListExtrasForGroup(ctx context.Context, groupID uuid.UUID) ([]models.ProductExtra, error) {
	var rows []models.ProductExtra
	err := r.DB(ctx).
		Where("group_id = ?", groupID).
		Order("display_order ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListUngroupedExtras returns the legacy extras hanging directly off a
// menu item.
func (r *repository) ListUngroupedExtras(ctx context.Context, menuItemID uuid.UUID) ([]models.ProductExtra, error) {
	var rows []models.ProductExtra
	err := r.DB(ctx).
		Where("menu_item_id = ? AND group_id IS NULL", menuItemID).
		Order("display_order ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateExtra inserts a new extra row.
func (r *repository) CreateExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error) {
	if err := r.DB(ctx).Create(extra).Error; err != nil {
		return nil, err
	}
	return extra, nil
}

// UpdateExtra saves the full extra row.
func (r *repository) UpdateExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error) {
	if err := r.DB(ctx).Save(extra).Error; err != nil {
		return nil, err
	}
	return extra, nil
}

// DeleteExtra removes an extra by ID.
func (r *repository) DeleteExtra(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.ProductExtra{}).Error
}

// UpdateExtraDisplayOrder sets the display position of one extra.
func (r *repository) UpdateExtraDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	return r.DB(ctx).
		Model(&models.ProductExtra{}).
		Where("id = ?", id).
		Update("display_order", order).
		Error
}

// CreateAssignment maps a group onto a menu item. Re-assigning an
// already assigned pair is a no-op.
func (r *repository) CreateAssignment(ctx context.Context, assignment *models.ProductGroupAssignment) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "group_id"}},
			DoNothing: true,
		}).
		Create(assignment).
		Error
}

// DeleteAssignment removes the mapping between a menu item and a group.
func (r *repository) DeleteAssignment(ctx context.Context, productID, groupID uuid.UUID) error {
	return r.DB(ctx).
		Where("product_id = ? AND group_id = ?", productID, groupID).
		Delete(&models.ProductGroupAssignment{}).
		Error
}

// ListAssignedProductIDs returns the menu item ids a group is directly
// assigned to.
func (r *repository) ListAssignedProductIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Model(&models.ProductGroupAssignment{}).
		Where("group_id = ?", groupID).
		Pluck("product_id", &ids).
		Error
	return ids, err
}

// ClearAssignmentsForGroup drops every direct assignment of a group.
func (r *repository) ClearAssignmentsForGroup(ctx context.Context, groupID uuid.UUID) error {
	return r.DB(ctx).
		Where("group_id = ?", groupID).
		Delete(&models.ProductGroupAssignment{}).
		Error
}

// UpsertOverride writes the per-product enable flag, last write wins on
// the (product_id, group_id) pair.
func (r *repository) UpsertOverride(ctx context.Context, override *models.ProductGroupOverride) (*models.ProductGroupOverride, error) {
	err := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "group_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_enabled", "updated_at"}),
		}).
		Create(override).
		Error
	if err != nil {
		return nil, err
	}
	return override, nil
}
