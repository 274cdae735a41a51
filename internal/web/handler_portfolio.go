package web

import (
	"net/http"

	"github.com/vbonduro/folio/internal/wire"
)

func (s *Server) handleListPortfolios(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListPortfolios(r.Context())
	if err != nil {
		s.writeError(w, r, "list portfolios", err)
		return
	}
	out := make([]wire.PortfolioSummary, 0, len(list))
	for _, p := range list {
		out = append(out, wire.FromSummary(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var in wire.PortfolioInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	p, err := s.service.CreatePortfolio(r.Context(), in.ToGateway())
	if err != nil {
		s.writeError(w, r, "create portfolio", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, wire.FromPortfolio(p))
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.GetPortfolio(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, "get portfolio", err)
		return
	}
	s.writeJSON(w, http.StatusOK, wire.FromPortfolio(p))
}

func (s *Server) handleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	var in wire.PortfolioInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	p, err := s.service.UpdatePortfolio(r.Context(), r.PathValue("id"), in.ToGateway())
	if err != nil {
		s.writeError(w, r, "update portfolio", err)
		return
	}
	s.writeJSON(w, http.StatusOK, wire.FromPortfolio(p))
}

func (s *Server) handleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeletePortfolio(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, "delete portfolio", err)
		return
	}
	s.writeMessage(w, "portfolio deleted")
}

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.service.ListSections(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, "list sections", err)
		return
	}
	out := make([]wire.Section, 0, len(sections))
	for i := range sections {
		out = append(out, wire.FromSection(&sections[i]))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var in wire.SectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	sec, err := s.service.CreateSection(r.Context(), r.PathValue("id"), in.ToGateway())
	if err != nil {
		s.writeError(w, r, "create section", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, wire.FromSection(sec))
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var in wire.SectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	sec, err := s.service.UpdateSection(r.Context(), r.PathValue("id"), r.PathValue("sectionID"), in.ToGateway())
	if err != nil {
		s.writeError(w, r, "update section", err)
		return
	}
	s.writeJSON(w, http.StatusOK, wire.FromSection(sec))
}

// handleDeleteSection removes a section. Items assigned to it are kept and
// become unsorted.
func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSection(r.Context(), r.PathValue("id"), r.PathValue("sectionID")); err != nil {
		s.writeError(w, r, "delete section", err)
		return
	}
	s.writeMessage(w, "section deleted")
}
