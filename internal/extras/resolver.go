package extras

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/menuvivo/menuvivo-backend/pkg/checkout"
	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/menuvivo/menuvivo-backend/pkg/enums"
	pkgerrors "github.com/menuvivo/menuvivo-backend/pkg/errors"
	"github.com/menuvivo/menuvivo-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type catalogReader interface {
	FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListGroupsForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.ExtraGroup, error)
	ListGroupsAssignedToProduct(ctx context.Context, productID uuid.UUID) ([]models.ExtraGroup, error)
	ListOverridesForProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductGroupOverride, error)
}

// Resolver computes the effective extra groups for a menu item.
type Resolver interface {
	Resolve(ctx context.Context, productID uuid.UUID) ([]checkout.GroupedExtras, error)
}

type resolver struct {
	repo    catalogReader
	cache   *ResolutionCache
	metrics *metrics.ExtrasMetrics
}

// NewResolver builds a resolver. Cache and metrics are optional.
func NewResolver(repo catalogReader, cache *ResolutionCache, m *metrics.ExtrasMetrics) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("extras repository required")
	}
	return &resolver{repo: repo, cache: cache, metrics: m}, nil
}

// Resolve merges a menu item's category-inherited and directly-assigned
// groups into a single ordered list. Category inheritance wins when a
// group reaches the product both ways, and per-product overrides can
// suppress only the inherited path. Groups without purchasable extras
// are dropped. The result is fully computed or not at all; a failing
// dependency never yields partial groups.
func (r *resolver) Resolve(ctx context.Context, productID uuid.UUID) ([]checkout.GroupedExtras, error) {
	start := time.Now()
	groups, cached, err := r.resolve(ctx, productID)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case cached:
		outcome = "cached"
	}
	r.metrics.ObserveResolution(outcome, time.Since(start))

	return groups, err
}

func (r *resolver) resolve(ctx context.Context, productID uuid.UUID) ([]checkout.GroupedExtras, bool, error) {
	if productID == uuid.Nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if groups, ok := r.cache.Get(ctx, productID); ok {
		r.metrics.IncCacheHit()
		return groups, true, nil
	}
	if r.cache != nil {
		r.metrics.IncCacheMiss()
	}

	item, err := r.repo.FindMenuItem(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}

	var inherited []models.ExtraGroup
	if item.CategoryID != nil {
		inherited, err = r.repo.ListGroupsForCategory(ctx, *item.CategoryID)
		if err != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category groups")
		}
	}

	assigned, err := r.repo.ListGroupsAssignedToProduct(ctx, productID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assigned groups")
	}

	overrides, err := r.repo.ListOverridesForProduct(ctx, productID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load overrides")
	}
	disabled := make(map[uuid.UUID]bool, len(overrides))
	for _, o := range overrides {
		disabled[o.GroupID] = !o.IsEnabled
	}

	merged := make([]checkout.GroupedExtras, 0, len(inherited)+len(assigned))
	seen := make(map[uuid.UUID]struct{}, len(inherited)+len(assigned))

	for _, group := range inherited {
		seen[group.ID] = struct{}{}
		if disabled[group.ID] || len(group.Extras) == 0 {
			continue
		}
		merged = append(merged, checkout.GroupedExtras{
			Group:     group,
			Extras:    group.Extras,
			Source:    enums.GroupSourceCategory,
			IsEnabled: true,
		})
	}

	// Direct assignments ignore overrides: the merchant assigned the
	// group to this exact product, so there is nothing to opt out of.
	for _, group := range assigned {
		if _, dup := seen[group.ID]; dup {
			continue
		}
		seen[group.ID] = struct{}{}
		if len(group.Extras) == 0 {
			continue
		}
		merged = append(merged, checkout.GroupedExtras{
			Group:     group,
			Extras:    group.Extras,
			Source:    enums.GroupSourceProduct,
			IsEnabled: true,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].Group, merged[j].Group
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.Name < b.Name
	})

	r.cache.Put(ctx, productID, merged)
	return merged, false, nil
}
