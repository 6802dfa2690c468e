package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kerhoff/shoplist/internal/usecase/catalog"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProductInput
	if err := s.decodeJSON(r, catalog.OpCreateProduct, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := s.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, product)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	s.respondEmpty(w, r, s.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")))
}
