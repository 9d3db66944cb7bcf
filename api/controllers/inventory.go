package controllers

import (
	"net/http"

	"github.com/angelmondragon/inventario-backend/api/responses"
	"github.com/angelmondragon/inventario-backend/api/validators"
	"github.com/angelmondragon/inventario-backend/api/views"
	"github.com/angelmondragon/inventario-backend/internal/history"
	"github.com/angelmondragon/inventario-backend/internal/inventory"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

type addProductRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	Quantity    *int   `json:"quantity" validate:"required,gte=0"`
}

type editInventoryRequest struct {
	ProductName   string `json:"product_name" validate:"required"`
	QuantityDelta int    `json:"quantity_delta"`
	SentDelta     int    `json:"sent_delta"`
}

type editInventoryResponse struct {
	ProductName string `json:"product_name"`
	Updated     int64  `json:"updated"`
}

func AddProductPage(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Page(r.Context(), logg, w, http.StatusOK, views.PageAddProduct, newPage(r, "Agregar producto"))
	}
}

// AddProduct inserts a row at the guarded location and journals it.
func AddProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc, err := currentLocation(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		page := newPage(r, "Agregar producto")

		var body addProductRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			page.Form = submitted(r)
			responses.FailForm(ctx, logg, w, r, err, views.PageAddProduct, page)
			return
		}

		item, err := svc.Add(ctx, inventory.AddProductInput{
			Location:    loc.Code,
			ProductName: body.ProductName,
			Quantity:    *body.Quantity,
			Actor:       actor.Username,
		})
		if err != nil {
			page.Form = submitted(r)
			responses.FailForm(ctx, logg, w, r, err, views.PageAddProduct, page)
			return
		}

		if responses.WantsJSON(r) {
			responses.WriteSuccessStatus(w, http.StatusCreated, item)
			return
		}
		responses.Redirect(w, r, locationPath("/view_inventory", loc))
	}
}

func ViewInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc, err := currentLocation(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		items, err := svc.List(ctx, loc.Code)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, items)
			return
		}
		page := newPage(r, "Inventario")
		page.Data = items
		responses.Page(ctx, logg, w, http.StatusOK, views.PageViewInventory, page)
	}
}

func EditInventoryPage(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc, err := currentLocation(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		names, err := svc.ProductNames(ctx, loc.Code)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		page := newPage(r, "Editar inventario")
		page.Data = names
		responses.Page(ctx, logg, w, http.StatusOK, views.PageEditInventory, page)
	}
}

// EditInventory applies quantity and sent adjustments to every matching row.
func EditInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc, err := currentLocation(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}

		actor, err := currentActor(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}

		var body editInventoryRequest
		decodeErr := validators.DecodeRequest(r, &body)

		var updated int64
		if decodeErr == nil {
			updated, err = svc.Edit(ctx, inventory.EditInventoryInput{
				Location:      loc.Code,
				ProductName:   body.ProductName,
				QuantityDelta: body.QuantityDelta,
				SentDelta:     body.SentDelta,
				Actor:         actor.Username,
			})
		} else {
			err = decodeErr
		}
		if err != nil {
			page := newPage(r, "Editar inventario")
			page.Form = submitted(r)
			if names, listErr := svc.ProductNames(ctx, loc.Code); listErr == nil {
				page.Data = names
			}
			responses.FailForm(ctx, logg, w, r, err, views.PageEditInventory, page)
			return
		}

		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, editInventoryResponse{ProductName: body.ProductName, Updated: updated})
			return
		}
		responses.Redirect(w, r, locationPath("/view_inventory", loc))
	}
}

func ViewHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc, err := currentLocation(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		entries, err := svc.List(ctx, loc.Code)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, entries)
			return
		}
		page := newPage(r, "Historial")
		page.Data = entries
		responses.Page(ctx, logg, w, http.StatusOK, views.PageViewHistory, page)
	}
}
