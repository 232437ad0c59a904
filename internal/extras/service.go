package extras

import (
	"context"
	"fmt"

	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/menuvivo/menuvivo-backend/pkg/enums"
	pkgerrors "github.com/menuvivo/menuvivo-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invalidator interface {
	Invalidate(ctx context.Context, productID uuid.UUID)
}

// Service defines the merchant-facing catalog operations for extras.
type Service interface {
	CreateGroup(ctx context.Context, input CreateGroupInput) (*models.ExtraGroup, error)
	UpdateGroup(ctx context.Context, groupID uuid.UUID, input UpdateGroupInput) (*models.ExtraGroup, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error
	GetGroup(ctx context.Context, groupID uuid.UUID) (*models.ExtraGroup, error)
	ListGroups(ctx context.Context, storeID uuid.UUID) ([]models.ExtraGroup, error)
	ListGroupsForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.ExtraGroup, error)
	SetGroupCategory(ctx context.Context, groupID uuid.UUID, categoryID *uuid.UUID) (*models.ExtraGroup, error)
	ReorderGroups(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error

	AssignGroup(ctx context.Context, groupID, productID uuid.UUID) error
	UnassignGroup(ctx context.Context, groupID, productID uuid.UUID) error
	SetProductOverride(ctx context.Context, input SetOverrideInput) (*models.ProductGroupOverride, error)
	ListOverrides(ctx context.Context, productID uuid.UUID) ([]models.ProductGroupOverride, error)

	CreateExtra(ctx context.Context, input CreateExtraInput) (*models.ProductExtra, error)
	UpdateExtra(ctx context.Context, extraID uuid.UUID, input UpdateExtraInput) (*models.ProductExtra, error)
	DeleteExtra(ctx context.Context, extraID uuid.UUID) error
	ListUngroupedExtras(ctx context.Context, menuItemID uuid.UUID) ([]models.ProductExtra, error)
	ReorderExtras(ctx context.Context, groupID uuid.UUID, orderedIDs []uuid.UUID) error
}

type service struct {
	repo  Repository
	tx    txRunner
	cache invalidator
}

// NewService builds the extras catalog service. Cache is optional.
func NewService(repo Repository, tx txRunner, cache invalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("extras repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cache: cache}, nil
}

func (s *service) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, productID)
}

func validateGroupRules(selectionType enums.SelectionType, minSelections int, maxSelections *int) error {
	if !selectionType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid selection type")
	}
	if minSelections < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_selections cannot be negative")
	}
	if maxSelections != nil {
		if *maxSelections < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "max_selections must be positive")
		}
		if *maxSelections < minSelections {
			return pkgerrors.New(pkgerrors.CodeValidation, "max_selections cannot be below min_selections")
		}
	}
	return nil
}

// CreateGroup validates cardinality rules and inserts a new group.
func (s *service) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.ExtraGroup, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group name required")
	}
	selectionType, err := enums.ParseSelectionType(input.SelectionType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid selection type")
	}
	if err := validateGroupRules(selectionType, input.MinSelections, input.MaxSelections); err != nil {
		return nil, err
	}

	group := &models.ExtraGroup{
		StoreID:       input.StoreID,
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		Description:   input.Description,
		SelectionType: selectionType,
		IsRequired:    input.IsRequired,
		MinSelections: input.MinSelections,
		MaxSelections: input.MaxSelections,
		DisplayOrder:  input.DisplayOrder,
		IsActive:      true,
	}
	created, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert extra group")
	}
	return created, nil
}

// UpdateGroup applies a partial update after re-validating the resulting rules.
func (s *service) UpdateGroup(ctx context.Context, groupID uuid.UUID, input UpdateGroupInput) (*models.ExtraGroup, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "group name required")
		}
		group.Name = *input.Name
	}
	if input.Description != nil {
		group.Description = input.Description
	}
	if input.SelectionType != nil {
		selectionType, err := enums.ParseSelectionType(*input.SelectionType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid selection type")
		}
		group.SelectionType = selectionType
	}
	if input.IsRequired != nil {
		group.IsRequired = *input.IsRequired
	}
	if input.MinSelections != nil {
		group.MinSelections = *input.MinSelections
	}
	switch {
	case input.ClearMaxSelections:
		group.MaxSelections = nil
	case input.MaxSelections != nil:
		group.MaxSelections = input.MaxSelections
	}
	if input.DisplayOrder != nil {
		group.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}

	if err := validateGroupRules(group.SelectionType, group.MinSelections, group.MaxSelections); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateGroup(ctx, group)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update extra group")
	}
	return updated, nil
}

// DeleteGroup removes a group and evicts every product it was assigned to.
func (s *service) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}
	productIDs, err := s.repo.ListAssignedProductIDs(ctx, groupID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assigned products")
	}
	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete extra group")
	}
	for _, id := range productIDs {
		s.invalidate(ctx, id)
	}
	return nil
}

// GetGroup loads one group with all of its extras.
func (s *service) GetGroup(ctx context.Context, groupID uuid.UUID) (*models.ExtraGroup, error) {
	return s.findGroup(ctx, groupID)
}

// ListGroups lists a store's groups, inactive included.
func (s *service) ListGroups(ctx context.Context, storeID uuid.UUID) ([]models.ExtraGroup, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	rows, err := s.repo.ListGroupsByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list extra groups")
	}
	return rows, nil
}

// ListGroupsForCategory lists the active groups a category passes down
// to its menu items.
func (s *service) ListGroupsForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.ExtraGroup, error) {
	if categoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	rows, err := s.repo.ListGroupsForCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category groups")
	}
	return rows, nil
}

// SetGroupCategory switches a group between category-inherited and
// per-product assignment modes. Entering category mode clears any direct
// assignments so a group never applies through both paths.
func (s *service) SetGroupCategory(ctx context.Context, groupID uuid.UUID, categoryID *uuid.UUID) (*models.ExtraGroup, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var evict []uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if categoryID != nil {
			assigned, err := repo.ListAssignedProductIDs(ctx, groupID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assigned products")
			}
			evict = assigned
			if err := repo.ClearAssignmentsForGroup(ctx, groupID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear group assignments")
			}
		}
		group.CategoryID = categoryID
		if _, err := repo.UpdateGroup(ctx, group); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update extra group")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range evict {
		s.invalidate(ctx, id)
	}
	return group, nil
}

// ReorderGroups rewrites display positions to match the given order.
// Every id must belong to the store.
func (s *service) ReorderGroups(ctx context.Context, storeID uuid.UUID, orderedIDs []uuid.UUID) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if len(orderedIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ordered ids required")
	}

	owned, err := s.repo.ListGroupsByStore(ctx, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list extra groups")
	}
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, group := range owned {
		ownedSet[group.ID] = struct{}{}
	}
	for _, id := range orderedIDs {
		if _, ok := ownedSet[id]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "group does not belong to store")
		}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for position, id := range orderedIDs {
			if err := repo.UpdateGroupDisplayOrder(ctx, id, position); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update group order")
			}
		}
		return nil
	})
}

// AssignGroup maps a product-scoped group onto a menu item.
func (s *service) AssignGroup(ctx context.Context, groupID, productID uuid.UUID) error {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CategoryID != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "group is category-scoped; it already applies through its category")
	}
	if _, err := s.findMenuItem(ctx, productID); err != nil {
		return err
	}

	assignment := &models.ProductGroupAssignment{ProductID: productID, GroupID: groupID}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert group assignment")
	}
	s.invalidate(ctx, productID)
	return nil
}

// UnassignGroup removes a direct group assignment from a menu item.
func (s *service) UnassignGroup(ctx context.Context, groupID, productID uuid.UUID) error {
	if groupID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "group id and product id required")
	}
	if err := s.repo.DeleteAssignment(ctx, productID, groupID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group assignment")
	}
	s.invalidate(ctx, productID)
	return nil
}

// SetProductOverride upserts the per-product enable flag for a group.
// Overrides only take effect on category-inherited groups; rows written
// against product-assigned groups are stored but never suppress anything.
func (s *service) SetProductOverride(ctx context.Context, input SetOverrideInput) (*models.ProductGroupOverride, error) {
	if _, err := s.findGroup(ctx, input.GroupID); err != nil {
		return nil, err
	}
	if _, err := s.findMenuItem(ctx, input.ProductID); err != nil {
		return nil, err
	}

	override := &models.ProductGroupOverride{
		ProductID: input.ProductID,
		GroupID:   input.GroupID,
		IsEnabled: input.IsEnabled,
	}
	saved, err := s.repo.UpsertOverride(ctx, override)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert group override")
	}
	s.invalidate(ctx, input.ProductID)
	return saved, nil
}

// ListOverrides returns every override row for a menu item.
func (s *service) ListOverrides(ctx context.Context, productID uuid.UUID) ([]models.ProductGroupOverride, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	rows, err := s.repo.ListOverridesForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group overrides")
	}
	return rows, nil
}

// CreateExtra inserts a new extra under a group or directly under a menu item.
func (s *service) CreateExtra(ctx context.Context, input CreateExtraInput) (*models.ProductExtra, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if (input.GroupID == nil) == (input.MenuItemID == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of group id or menu item id required")
	}
	if input.GroupID != nil {
		if _, err := s.findGroup(ctx, *input.GroupID); err != nil {
			return nil, err
		}
	}
	if input.MenuItemID != nil {
		if _, err := s.findMenuItem(ctx, *input.MenuItemID); err != nil {
			return nil, err
		}
	}

	extra := &models.ProductExtra{
		GroupID:      input.GroupID,
		MenuItemID:   input.MenuItemID,
		Name:         input.Name,
		Price:        input.Price,
		IsAvailable:  input.IsAvailable,
		IsDefault:    input.IsDefault,
		DisplayOrder: input.DisplayOrder,
	}
	created, err := s.repo.CreateExtra(ctx, extra)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product extra")
	}
	return created, nil
}

// UpdateExtra applies a partial update to one extra.
func (s *service) UpdateExtra(ctx context.Context, extraID uuid.UUID, input UpdateExtraInput) (*models.ProductExtra, error) {
	extra, err := s.findExtra(ctx, extraID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra name required")
		}
		extra.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		extra.Price = *input.Price
	}
	if input.IsAvailable != nil {
		extra.IsAvailable = *input.IsAvailable
	}
	if input.IsDefault != nil {
		extra.IsDefault = *input.IsDefault
	}
	if input.DisplayOrder != nil {
		extra.DisplayOrder = *input.DisplayOrder
	}

	updated, err := s.repo.UpdateExtra(ctx, extra)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product extra")
	}
	return updated, nil
}

// DeleteExtra removes one extra.
func (s *service) DeleteExtra(ctx context.Context, extraID uuid.UUID) error {
	if _, err := s.findExtra(ctx, extraID); err != nil {
		return err
	}
	if err := s.repo.DeleteExtra(ctx, extraID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product extra")
	}
	return nil
}

// ListUngroupedExtras returns the legacy extras attached straight to a menu item.
func (s *service) ListUngroupedExtras(ctx context.Context, menuItemID uuid.UUID) ([]models.ProductExtra, error) {
	if _, err := s.findMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListUngroupedExtras(ctx, menuItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ungrouped extras")
	}
	return rows, nil
}

// ReorderExtras rewrites display positions within one group.
func (s *service) ReorderExtras(ctx context.Context, groupID uuid.UUID, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ordered ids required")
	}
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	members := make(map[uuid.UUID]struct{}, len(group.Extras))
	for _, extra := range group.Extras {
		members[extra.ID] = struct{}{}
	}
	for _, id := range orderedIDs {
		if _, ok := members[id]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "extra does not belong to group")
		}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for position, id := range orderedIDs {
			if err := repo.UpdateExtraDisplayOrder(ctx, id, position); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update extra order")
			}
		}
		return nil
	})
}

func (s *service) findGroup(ctx context.Context, groupID uuid.UUID) (*models.ExtraGroup, error) {
	if groupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id required")
	}
	group, err := s.repo.FindGroup(ctx, groupID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "extra group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load extra group")
	}
	return group, nil
}

func (s *service) findExtra(ctx context.Context, extraID uuid.UUID) (*models.ProductExtra, error) {
	if extraID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "extra id required")
	}
	extra, err := s.repo.FindExtra(ctx, extraID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product extra not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product extra")
	}
	return extra, nil
}

func (s *service) findMenuItem(ctx context.Context, productID uuid.UUID) (*models.MenuItem, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	item, err := s.repo.FindMenuItem(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}
