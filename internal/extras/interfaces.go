package extras

import (
	"context"

	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the extras catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListGroupsForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.ExtraGroup, error)
	ListGroupsAssignedToProduct(ctx context.Context, productID uuid.UUID) ([]models.ExtraGroup, error)
	ListOverridesForProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductGroupOverride, error)

	FindGroup(ctx context.Context, id uuid.UUID) (*models.ExtraGroup, error)
	ListGroupsByStore(ctx context.Context, storeID uuid.UUID) ([]models.ExtraGroup, error)
	CreateGroup(ctx context.Context, group *models.ExtraGroup) (*models.ExtraGroup, error)
	UpdateGroup(ctx context.Context, group *models.ExtraGroup) (*models.ExtraGroup, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	UpdateGroupDisplayOrder(ctx context.Context, id uuid.UUID, order int) error

	FindExtra(ctx context.Context, id uuid.UUID) (*models.ProductExtra, error)
	ListExtrasForGroup(ctx context.Context, groupID uuid.UUID) ([]models.ProductExtra, error)
	ListUngroupedExtras(ctx context.Context, menuItemID uuid.UUID) ([]models.ProductExtra, error)
	CreateExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error)
	UpdateExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error)
	DeleteExtra(ctx context.Context, id uuid.UUID) error
	UpdateExtraDisplayOrder(ctx context.Context, id uuid.UUID, order int) error

	CreateAssignment(ctx context.Context, assignment *models.ProductGroupAssignment) error
	DeleteAssignment(ctx context.Context, productID, groupID uuid.UUID) error
	ListAssignedProductIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	ClearAssignmentsForGroup(ctx context.Context, groupID uuid.UUID) error

	UpsertOverride(ctx context.Context, override *models.ProductGroupOverride) (*models.ProductGroupOverride, error)
}
