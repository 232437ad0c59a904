package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/menuvivo/menuvivo-backend/api/responses"
	"github.com/menuvivo/menuvivo-backend/api/validators"
	extrassvc "github.com/menuvivo/menuvivo-backend/internal/extras"
	pkgerrors "github.com/menuvivo/menuvivo-backend/pkg/errors"
	"github.com/menuvivo/menuvivo-backend/pkg/logger"
	"github.com/menuvivo/menuvivo-backend/pkg/types"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

type createGroupRequest struct {
	StoreID       string  `json:"store_id" validate:"required,uuid"`
	CategoryID    *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name          string  `json:"name" validate:"required,max=255"`
	Description   *string `json:"description,omitempty"`
	SelectionType string  `json:"selection_type" validate:"required"`
	IsRequired    bool    `json:"is_required"`
	MinSelections int     `json:"min_selections" validate:"min=0"`
	MaxSelections *int    `json:"max_selections,omitempty" validate:"omitempty,min=1"`
	DisplayOrder  int     `json:"display_order" validate:"min=0"`
}

func (r createGroupRequest) toInput() (extrassvc.CreateGroupInput, error) {
	storeID, err := uuid.Parse(r.StoreID)
	if err != nil {
		return extrassvc.CreateGroupInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	input := extrassvc.CreateGroupInput{
		StoreID:       storeID,
		Name:          validators.SanitizeString(r.Name, 255),
		Description:   r.Description,
		SelectionType: r.SelectionType,
		IsRequired:    r.IsRequired,
		MinSelections: r.MinSelections,
		MaxSelections: r.MaxSelections,
		DisplayOrder:  r.DisplayOrder,
	}
	if r.CategoryID != nil {
		categoryID, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return extrassvc.CreateGroupInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}
	return input, nil
}

// CreateExtraGroup handles group creation for merchant menus.
func CreateExtraGroup(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createGroupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		group, err := svc.CreateGroup(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

type updateGroupRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description        *string `json:"description,omitempty"`
	SelectionType      *string `json:"selection_type,omitempty"`
	IsRequired         *bool   `json:"is_required,omitempty"`
	MinSelections      *int    `json:"min_selections,omitempty" validate:"omitempty,min=0"`
	MaxSelections      *int    `json:"max_selections,omitempty" validate:"omitempty,min=1"`
	ClearMaxSelections bool    `json:"clear_max_selections,omitempty"`
	DisplayOrder       *int    `json:"display_order,omitempty" validate:"omitempty,min=0"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

// UpdateExtraGroup applies a partial update to one group.
func UpdateExtraGroup(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateGroupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		group, err := svc.UpdateGroup(r.Context(), groupID, extrassvc.UpdateGroupInput{
			Name:               payload.Name,
			Description:        payload.Description,
			SelectionType:      payload.SelectionType,
			IsRequired:         payload.IsRequired,
			MinSelections:      payload.MinSelections,
			MaxSelections:      payload.MaxSelections,
			ClearMaxSelections: payload.ClearMaxSelections,
			DisplayOrder:       payload.DisplayOrder,
			IsActive:           payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// DeleteExtraGroup removes a group and everything hanging off it.
func DeleteExtraGroup(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteGroup(r.Context(), groupID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetExtraGroup loads one group with its extras.
func GetExtraGroup(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		group, err := svc.GetGroup(r.Context(), groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// ListExtraGroups lists a store's groups.
func ListExtraGroups(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(r.URL.Query().Get("store_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreID(ctx, storeID.String())
		}
		groups, err := svc.ListGroups(ctx, storeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

// ListCategoryExtraGroups lists the active groups a category hands down
// to its menu items.
func ListCategoryExtraGroups(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groups, err := svc.ListGroupsForCategory(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

type setCategoryRequest struct {
	CategoryID types.NullableUUID `json:"category_id"`
}

// SetExtraGroupCategory switches a group between category-inherited and
// per-product assignment modes.
func SetExtraGroupCategory(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.CategoryID.Valid {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required; send null to switch to product mode"))
			return
		}
		group, err := svc.SetGroupCategory(r.Context(), groupID, payload.CategoryID.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// AssignExtraGroup maps a product-scoped group onto a menu item.
func AssignExtraGroup(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AssignGroup(r.Context(), groupID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "assigned"})
	}
}

// UnassignExtraGroup removes a direct group assignment.
func UnassignExtraGroup(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UnassignGroup(r.Context(), groupID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unassigned"})
	}
}

type setOverrideRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

// SetProductGroupOverride toggles an inherited group for one menu item.
func SetProductGroupOverride(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setOverrideRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		override, err := svc.SetProductOverride(r.Context(), extrassvc.SetOverrideInput{
			ProductID: productID,
			GroupID:   groupID,
			IsEnabled: payload.IsEnabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, override)
	}
}

// ListProductGroupOverrides lists the override rows for one menu item.
func ListProductGroupOverrides(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		overrides, err := svc.ListOverrides(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overrides)
	}
}

type createExtraRequest struct {
	GroupID      *string `json:"group_id,omitempty" validate:"omitempty,uuid"`
	MenuItemID   *string `json:"menu_item_id,omitempty" validate:"omitempty,uuid"`
	Name         string  `json:"name" validate:"required,max=255"`
	Price        string  `json:"price" validate:"required"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
	IsDefault    bool    `json:"is_default"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}

func (r createExtraRequest) toInput() (extrassvc.CreateExtraInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return extrassvc.CreateExtraInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	input := extrassvc.CreateExtraInput{
		Name:         validators.SanitizeString(r.Name, 255),
		Price:        price,
		IsAvailable:  true,
		IsDefault:    r.IsDefault,
		DisplayOrder: r.DisplayOrder,
	}
	if r.IsAvailable != nil {
		input.IsAvailable = *r.IsAvailable
	}
	if r.GroupID != nil {
		groupID, err := uuid.Parse(*r.GroupID)
		if err != nil {
			return extrassvc.CreateExtraInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid group id")
		}
		input.GroupID = &groupID
	}
	if r.MenuItemID != nil {
		menuItemID, err := uuid.Parse(*r.MenuItemID)
		if err != nil {
			return extrassvc.CreateExtraInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id")
		}
		input.MenuItemID = &menuItemID
	}
	return input, nil
}

// CreateProductExtra creates an extra under a group or menu item.
func CreateProductExtra(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createExtraRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extra, err := svc.CreateExtra(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, extra)
	}
}

type updateExtraRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Price        *string `json:"price,omitempty"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
	IsDefault    *bool   `json:"is_default,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,min=0"`
}

// UpdateProductExtra applies a partial update to one extra.
func UpdateProductExtra(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		extraID, err := pathUUID(r, "extraId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateExtraRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := extrassvc.UpdateExtraInput{
			Name:         payload.Name,
			IsAvailable:  payload.IsAvailable,
			IsDefault:    payload.IsDefault,
			DisplayOrder: payload.DisplayOrder,
		}
		if payload.Price != nil {
			price, err := decimal.NewFromString(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
				return
			}
			input.Price = &price
		}
		extra, err := svc.UpdateExtra(r.Context(), extraID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, extra)
	}
}

// DeleteProductExtra removes one extra.
func DeleteProductExtra(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		extraID, err := pathUUID(r, "extraId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteExtra(r.Context(), extraID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListUngroupedProductExtras lists a menu item's legacy extras.
func ListUngroupedProductExtras(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListUngroupedExtras(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type reorderRequest struct {
	OrderedIDs []string `json:"ordered_ids" validate:"required,min=1,dive,uuid"`
}

func (r reorderRequest) toIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.OrderedIDs))
	for _, raw := range r.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id in ordered list")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReorderExtraGroups rewrites a store's group display order.
func ReorderExtraGroups(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := uuid.Parse(r.URL.Query().Get("store_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}
		var payload reorderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ids, err := payload.toIDs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ReorderGroups(r.Context(), storeID, ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

// ReorderGroupExtras rewrites the display order inside one group.
func ReorderGroupExtras(svc extrassvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathUUID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload reorderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ids, err := payload.toIDs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ReorderExtras(r.Context(), groupID, ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}
