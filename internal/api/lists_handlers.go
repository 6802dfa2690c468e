package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/dto"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
)

type createListRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by" validate:"required"`
	IsPublic    *bool  `json:"is_public"`
	CanBeShared *bool  `json:"can_be_shared"`
}

type updateListRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	IsPublic    *bool   `json:"is_public"`
	CanBeShared *bool   `json:"can_be_shared"`
}

type addProductRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity"`
}

type quantityRequest struct {
	Quantity float64 `json:"quantity"`
}

func (s *Server) handleGetUserLists(w http.ResponseWriter, r *http.Request) {
	result, err := s.lists.GetUserLists.Execute(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := s.decodeJSON(r, lists.OpCreateList, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.lists.CreateList.Execute(r.Context(), lists.CreateListInput{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		IsPublic:    req.IsPublic,
		CanBeShared: req.CanBeShared,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.lists.GetListByID.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if err := s.decodeJSON(r, lists.OpUpdateList, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	err := s.lists.UpdateList.Execute(r.Context(), chi.URLParam(r, "id"), lists.UpdateListInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		IsPublic:    req.IsPublic,
		CanBeShared: req.CanBeShared,
	})
	s.respondEmpty(w, r, err)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	s.respondEmpty(w, r, s.lists.DeleteList.Execute(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleUseList(w http.ResponseWriter, r *http.Request) {
	s.respondEmpty(w, r, s.lists.IncrementListUsage.Execute(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleGetListProducts(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "id")

	pending := false
	if raw := r.URL.Query().Get("pending"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, r, apperrors.Validation(lists.OpGetPendingProducts, "pending must be true or false"))
			return
		}
		pending = v
	}

	var (
		result []dto.ListProductDTO
		err    error
	)
	if pending {
		result, err = s.lists.GetPendingProducts.Execute(r.Context(), listID)
	} else {
		result, err = s.lists.GetListProducts.Execute(r.Context(), listID)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := s.decodeJSON(r, lists.OpAddProductToList, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	err := s.lists.AddProductToList.Execute(r.Context(), chi.URLParam(r, "id"), req.ProductID, req.Quantity)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	err := s.lists.RemoveProductFromList.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"))
	s.respondEmpty(w, r, err)
}

func (s *Server) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := s.decodeJSON(r, lists.OpUpdateProductQuantity, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	err := s.lists.UpdateProductQuantity.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"), req.Quantity)
	s.respondEmpty(w, r, err)
}

func (s *Server) handleMarkPurchased(w http.ResponseWriter, r *http.Request) {
	err := s.lists.MarkProductAsPurchased.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"))
	s.respondEmpty(w, r, err)
}

func (s *Server) handleUnmarkPurchased(w http.ResponseWriter, r *http.Request) {
	err := s.lists.UnmarkProductAsPurchased.Execute(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productID"))
	s.respondEmpty(w, r, err)
}

// respondEmpty answers 204 on success.
func (s *Server) respondEmpty(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
