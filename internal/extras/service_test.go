package extras

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/menuvivo/menuvivo-backend/pkg/enums"
	pkgerrors "github.com/menuvivo/menuvivo-backend/pkg/errors"
)

type stubExtrasRepo struct {
	groups    map[uuid.UUID]*models.ExtraGroup
	items     map[uuid.UUID]*models.MenuItem
	extras    map[uuid.UUID]*models.ProductExtra
	assigned  map[uuid.UUID][]uuid.UUID // group id -> product ids
	overrides []*models.ProductGroupOverride

	clearedGroups []uuid.UUID
	groupOrder    map[uuid.UUID]int
	extraOrder    map[uuid.UUID]int
}

func newStubExtrasRepo() *stubExtrasRepo {
	return &stubExtrasRepo{
		groups:     make(map[uuid.UUID]*models.ExtraGroup),
		items:      make(map[uuid.UUID]*models.MenuItem),
		extras:     make(map[uuid.UUID]*models.ProductExtra),
		assigned:   make(map[uuid.UUID][]uuid.UUID),
		groupOrder: make(map[uuid.UUID]int),
		extraOrder: make(map[uuid.UUID]int),
	}
}

func (s *stubExtrasRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubExtrasRepo) FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubExtrasRepo) ListGroupsForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.ExtraGroup, error) {
	panic("not implemented")
}

func (s *stubExtrasRepo) ListGroupsAssignedToProduct(ctx context.Context, productID uuid.UUID) ([]models.ExtraGroup, error) {
	panic("not implemented")
}

func (s *stubExtrasRepo) ListOverridesForProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductGroupOverride, error) {
	var rows []models.ProductGroupOverride
	for _, o := range s.overrides {
		if o.ProductID == productID {
			rows = append(rows, *o)
		}
	}
	return rows, nil
}

func (s *stubExtrasRepo) FindGroup(ctx context.Context, id uuid.UUID) (*models.ExtraGroup, error) {
	if group, ok := s.groups[id]; ok {
		copied := *group
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubExtrasRepo) ListGroupsByStore(ctx context.Context, storeID uuid.UUID) ([]models.ExtraGroup, error) {
	var rows []models.ExtraGroup
	for _, group := range s.groups {
		if group.StoreID == storeID {
			rows = append(rows, *group)
		}
	}
	return rows, nil
}

func (s *stubExtrasRepo) CreateGroup(ctx context.Context, group *models.ExtraGroup) (*models.ExtraGroup, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	s.groups[group.ID] = group
	return group, nil
}

func (s *stubExtrasRepo) UpdateGroup(ctx context.Context, group *models.ExtraGroup) (*models.ExtraGroup, error) {
	s.groups[group.ID] = group
	return group, nil
}

func (s *stubExtrasRepo) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	delete(s.groups, id)
	delete(s.assigned, id)
	return nil
}

func (s *stubExtrasRepo) UpdateGroupDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	s.groupOrder[id] = order
	return nil
}

func (s *stubExtrasRepo) FindExtra(ctx context.Context, id uuid.UUID) (*models.ProductExtra, error) {
	if extra, ok := s.extras[id]; ok {
		copied := *extra
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubExtrasRepo) ListExtrasForGroup(ctx context.Context, groupID uuid.UUID) ([]models.ProductExtra, error) {
	var rows []models.ProductExtra
	for _, extra := range s.extras {
		if extra.GroupID != nil && *extra.GroupID == groupID {
			rows = append(rows, *extra)
		}
	}
	return rows, nil
}

func (s *stubExtrasRepo) ListUngroupedExtras(ctx context.Context, menuItemID uuid.UUID) ([]models.ProductExtra, error) {
	var rows []models.ProductExtra
	for _, extra := range s.extras {
		if extra.GroupID == nil && extra.MenuItemID != nil && *extra.MenuItemID == menuItemID {
			rows = append(rows, *extra)
		}
	}
	return rows, nil
}

func (s *stubExtrasRepo) CreateExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error) {
	if extra.ID == uuid.Nil {
		extra.ID = uuid.New()
	}
	s.extras[extra.ID] = extra
	return extra, nil
}

func (s *stubExtrasRepo) UpdateExtra(ctx context.Context, extra *models.ProductExtra) (*models.ProductExtra, error) {
	s.extras[extra.ID] = extra
	return extra, nil
}

func (s *stubExtrasRepo) DeleteExtra(ctx context.Context, id uuid.UUID) error {
	delete(s.extras, id)
	return nil
}

func (s *stubExtrasRepo) UpdateExtraDisplayOrder(ctx context.Context, id uuid.UUID, order int) error {
	s.extraOrder[id] = order
	return nil
}

func (s *stubExtrasRepo) CreateAssignment(ctx context.Context, assignment *models.ProductGroupAssignment) error {
	for _, existing := range s.assigned[assignment.GroupID] {
		if existing == assignment.ProductID {
			return nil
		}
	}
	s.assigned[assignment.GroupID] = append(s.assigned[assignment.GroupID], assignment.ProductID)
	return nil
}

func (s *stubExtrasRepo) DeleteAssignment(ctx context.Context, productID, groupID uuid.UUID) error {
	kept := s.assigned[groupID][:0]
	for _, existing := range s.assigned[groupID] {
		if existing != productID {
			kept = append(kept, existing)
		}
	}
	s.assigned[groupID] = kept
	return nil
}

func (s *stubExtrasRepo) ListAssignedProductIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), s.assigned[groupID]...), nil
}

func (s *stubExtrasRepo) ClearAssignmentsForGroup(ctx context.Context, groupID uuid.UUID) error {
	s.clearedGroups = append(s.clearedGroups, groupID)
	delete(s.assigned, groupID)
	return nil
}

func (s *stubExtrasRepo) UpsertOverride(ctx context.Context, override *models.ProductGroupOverride) (*models.ProductGroupOverride, error) {
	for _, existing := range s.overrides {
		if existing.ProductID == override.ProductID && existing.GroupID == override.GroupID {
			existing.IsEnabled = override.IsEnabled
			return existing, nil
		}
	}
	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}
	s.overrides = append(s.overrides, override)
	return override, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingInvalidator struct {
	evicted []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, productID uuid.UUID) {
	r.evicted = append(r.evicted, productID)
}

func newTestService(t *testing.T, repo *stubExtrasRepo) (Service, *recordingInvalidator) {
	t.Helper()
	cache := &recordingInvalidator{}
	svc, err := NewService(repo, stubTx{}, cache)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, cache
}

func seedGroup(repo *stubExtrasRepo, categoryID *uuid.UUID) *models.ExtraGroup {
	group := &models.ExtraGroup{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		CategoryID:    categoryID,
		Name:          "Toppings",
		SelectionType: enums.SelectionTypeMultiple,
		IsActive:      true,
	}
	repo.groups[group.ID] = group
	return group
}

func seedMenuItem(repo *stubExtrasRepo) *models.MenuItem {
	item := &models.MenuItem{
		ID:      uuid.New(),
		StoreID: uuid.New(),
		Name:    "Burger",
		Price:   decimal.RequireFromString("8.00"),
	}
	repo.items[item.ID] = item
	return item
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateGroupValidation(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	storeID := uuid.New()

	_, err := svc.CreateGroup(ctx, CreateGroupInput{StoreID: storeID, Name: "Size", SelectionType: "triple"})
	assertCode(t, err, pkgerrors.CodeValidation)

	three := 3
	_, err = svc.CreateGroup(ctx, CreateGroupInput{
		StoreID: storeID, Name: "Size", SelectionType: "multiple",
		MinSelections: 5, MaxSelections: &three,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	zero := 0
	_, err = svc.CreateGroup(ctx, CreateGroupInput{
		StoreID: storeID, Name: "Size", SelectionType: "multiple", MaxSelections: &zero,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		StoreID: storeID, Name: "Size", SelectionType: "single", IsRequired: true, MinSelections: 1,
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if !group.IsActive || group.SelectionType != enums.SelectionTypeSingle {
		t.Fatalf("unexpected created group %+v", group)
	}
}

func TestAssignGroupRejectedWhileCategoryScoped(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	categoryID := uuid.New()
	group := seedGroup(repo, &categoryID)
	item := seedMenuItem(repo)

	err := svc.AssignGroup(ctx, group.ID, item.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
	if len(cache.evicted) != 0 {
		t.Fatalf("rejected assignment must not touch the cache, evicted %v", cache.evicted)
	}
}

func TestAssignGroupInvalidatesProduct(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	item := seedMenuItem(repo)

	if err := svc.AssignGroup(ctx, group.ID, item.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(repo.assigned[group.ID]) != 1 || repo.assigned[group.ID][0] != item.ID {
		t.Fatalf("assignment not stored: %v", repo.assigned)
	}
	if len(cache.evicted) != 1 || cache.evicted[0] != item.ID {
		t.Fatalf("expected product eviction, got %v", cache.evicted)
	}

	// Assigning twice stays idempotent.
	if err := svc.AssignGroup(ctx, group.ID, item.ID); err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	if len(repo.assigned[group.ID]) != 1 {
		t.Fatalf("duplicate assignment created: %v", repo.assigned[group.ID])
	}
}

func TestSetGroupCategoryClearsAssignments(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	item := seedMenuItem(repo)
	if err := svc.AssignGroup(ctx, group.ID, item.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	cache.evicted = nil

	categoryID := uuid.New()
	updated, err := svc.SetGroupCategory(ctx, group.ID, &categoryID)
	if err != nil {
		t.Fatalf("set category: %v", err)
	}
	if updated.CategoryID == nil || *updated.CategoryID != categoryID {
		t.Fatalf("category not applied: %+v", updated)
	}
	if len(repo.clearedGroups) != 1 || repo.clearedGroups[0] != group.ID {
		t.Fatalf("assignments should be cleared on mode switch, got %v", repo.clearedGroups)
	}
	if len(cache.evicted) != 1 || cache.evicted[0] != item.ID {
		t.Fatalf("previously assigned products should be evicted, got %v", cache.evicted)
	}
}

func TestSetGroupCategoryBackToProductMode(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	categoryID := uuid.New()
	group := seedGroup(repo, &categoryID)

	updated, err := svc.SetGroupCategory(ctx, group.ID, nil)
	if err != nil {
		t.Fatalf("set category: %v", err)
	}
	if updated.CategoryID != nil {
		t.Fatalf("category should be cleared, got %+v", updated)
	}
	if len(repo.clearedGroups) != 0 {
		t.Fatalf("leaving category mode must not clear assignments, got %v", repo.clearedGroups)
	}
}

func TestSetProductOverrideUpsertsAndInvalidates(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	categoryID := uuid.New()
	group := seedGroup(repo, &categoryID)
	item := seedMenuItem(repo)

	saved, err := svc.SetProductOverride(ctx, SetOverrideInput{ProductID: item.ID, GroupID: group.ID, IsEnabled: false})
	if err != nil {
		t.Fatalf("set override: %v", err)
	}
	if saved.IsEnabled {
		t.Fatalf("override flag not stored: %+v", saved)
	}

	// Second write flips the same row instead of creating another.
	if _, err := svc.SetProductOverride(ctx, SetOverrideInput{ProductID: item.ID, GroupID: group.ID, IsEnabled: true}); err != nil {
		t.Fatalf("flip override: %v", err)
	}
	if len(repo.overrides) != 1 || !repo.overrides[0].IsEnabled {
		t.Fatalf("expected single upserted row, got %+v", repo.overrides)
	}
	if len(cache.evicted) != 2 {
		t.Fatalf("every override write should evict the product, got %v", cache.evicted)
	}
}

func TestCreateExtraRequiresExactlyOneParent(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	item := seedMenuItem(repo)
	price := decimal.RequireFromString("1.50")

	_, err := svc.CreateExtra(ctx, CreateExtraInput{Name: "Bacon", Price: price})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateExtra(ctx, CreateExtraInput{Name: "Bacon", Price: price, GroupID: &group.ID, MenuItemID: &item.ID})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateExtra(ctx, CreateExtraInput{Name: "Bacon", Price: decimal.RequireFromString("-1"), GroupID: &group.ID})
	assertCode(t, err, pkgerrors.CodeValidation)

	extra, err := svc.CreateExtra(ctx, CreateExtraInput{Name: "Bacon", Price: price, GroupID: &group.ID, IsAvailable: true})
	if err != nil {
		t.Fatalf("create extra: %v", err)
	}
	if extra.GroupID == nil || *extra.GroupID != group.ID {
		t.Fatalf("extra not attached to group: %+v", extra)
	}
}

func TestUnassignGroupInvalidatesProduct(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	item := seedMenuItem(repo)
	if err := svc.AssignGroup(ctx, group.ID, item.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	cache.evicted = nil

	if err := svc.UnassignGroup(ctx, group.ID, item.ID); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if len(repo.assigned[group.ID]) != 0 {
		t.Fatalf("assignment not removed: %v", repo.assigned[group.ID])
	}
	if len(cache.evicted) != 1 || cache.evicted[0] != item.ID {
		t.Fatalf("expected product eviction, got %v", cache.evicted)
	}
}

func TestReorderExtrasRejectsForeignExtra(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	gid := group.ID
	mine := &models.ProductExtra{ID: uuid.New(), GroupID: &gid, Name: "A", Price: decimal.Zero}
	repo.extras[mine.ID] = mine
	group.Extras = []models.ProductExtra{*mine}

	err := svc.ReorderExtras(ctx, group.ID, []uuid.UUID{mine.ID, uuid.New()})
	assertCode(t, err, pkgerrors.CodeValidation)

	if err := svc.ReorderExtras(ctx, group.ID, []uuid.UUID{mine.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if repo.extraOrder[mine.ID] != 0 {
		t.Fatalf("display order not rewritten: %v", repo.extraOrder)
	}
}

func TestUpdateGroupClearMaxSelections(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	two := 2
	group.MaxSelections = &two

	updated, err := svc.UpdateGroup(ctx, group.ID, UpdateGroupInput{ClearMaxSelections: true})
	if err != nil {
		t.Fatalf("update group: %v", err)
	}
	if updated.MaxSelections != nil {
		t.Fatalf("max selections should be cleared, got %v", *updated.MaxSelections)
	}
}

func TestDeleteGroupEvictsAssignedProducts(t *testing.T) {
	t.Parallel()

	repo := newStubExtrasRepo()
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	group := seedGroup(repo, nil)
	item := seedMenuItem(repo)
	if err := svc.AssignGroup(ctx, group.ID, item.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	cache.evicted = nil

	if err := svc.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	if _, ok := repo.groups[group.ID]; ok {
		t.Fatal("group not deleted")
	}
	if len(cache.evicted) != 1 || cache.evicted[0] != item.ID {
		t.Fatalf("expected eviction of assigned product, got %v", cache.evicted)
	}
}
