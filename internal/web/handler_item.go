package web

import (
	"net/http"

	"github.com/vbonduro/folio/internal/wire"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in wire.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	it, err := s.service.CreateItem(r.Context(), r.PathValue("id"), in.ToGateway())
	if err != nil {
		s.writeError(w, r, "create item", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, wire.FromItem(it))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	patch, err := wire.ParseItemPatch(body)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	it, err := s.service.UpdateItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"), patch)
	if err != nil {
		s.writeError(w, r, "update item", err)
		return
	}
	s.writeJSON(w, http.StatusOK, wire.FromItem(it))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteItem(r.Context(), r.PathValue("id"), r.PathValue("itemID")); err != nil {
		s.writeError(w, r, "delete item", err)
		return
	}
	s.writeMessage(w, "item deleted")
}
