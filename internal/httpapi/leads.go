package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"

	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 5
)

type leadRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

func (req leadRequest) toModel(id int64) model.Lead {
	return model.Lead{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
	}
}

type pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type leadListResponse struct {
	Data       []model.Lead `json:"data"`
	Pagination pagination   `json:"pagination"`
}

// parsePositiveInt returns def unless v is a positive base-10 integer.
func parsePositiveInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// pageWindow resolves the page/limit query and the store offset for it.
func (s *Server) pageWindow(r *http.Request) (page, limit, offset int) {
	q := r.URL.Query()
	page = parsePositiveInt(q.Get("page"), defaultPage)
	limit = parsePositiveInt(q.Get("limit"), defaultLimit)
	if ceiling := s.cfg.LeadsMaxPageLimit; ceiling > 0 && limit > ceiling {
		limit = ceiling
	}

	// Pages far past the end would overflow the offset; clamp them so they
	// simply come back empty.
	const maxOffset = 1<<31 - 1
	if page-1 > maxOffset/limit {
		return page, limit, maxOffset
	}
	return page, limit, (page - 1) * limit
}

func totalPages(total, limit int) int {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

func leadIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := s.pageWindow(r)

	total, err := s.store.CountLeads(r.Context())
	if err != nil {
		s.fail(w, r, errUnexpected, err)
		return
	}

	leads, err := s.store.ListLeads(r.Context(), store.LeadFilter{Offset: offset, Limit: limit})
	if err != nil {
		s.fail(w, r, errUnexpected, err)
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}

	writeJSON(w, http.StatusOK, leadListResponse{
		Data: leads,
		Pagination: pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	})
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadIDFromPath(r)
	if !ok {
		s.fail(w, r, errLeadNotFound, nil)
		return
	}

	lead, err := s.store.GetLead(r.Context(), id)
	if err != nil {
		s.failLead(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, errBadRequest, err)
		return
	}

	created, err := s.store.CreateLead(r.Context(), req.toModel(0))
	if err != nil {
		s.fail(w, r, errUnexpected, err)
		return
	}
	s.auditLead(r, "lead created", created.ID)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadIDFromPath(r)
	if !ok {
		s.fail(w, r, errLeadNotFound, nil)
		return
	}

	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, errBadRequest, err)
		return
	}

	updated, err := s.store.UpdateLead(r.Context(), req.toModel(id))
	if err != nil {
		s.failLead(w, r, err)
		return
	}
	s.auditLead(r, "lead updated", id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadIDFromPath(r)
	if !ok {
		s.fail(w, r, errLeadNotFound, nil)
		return
	}

	if err := s.store.DeleteLead(r.Context(), id); err != nil {
		s.failLead(w, r, err)
		return
	}
	s.auditLead(r, "lead deleted", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Lead deleted"})
}

func (s *Server) failLead(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.fail(w, r, errLeadNotFound, nil)
		return
	}
	s.fail(w, r, errUnexpected, err)
}

// auditLead records which user changed a lead. Any user may change any lead.
func (s *Server) auditLead(r *http.Request, msg string, leadID int64) {
	fields := []zap.Field{
		zap.Int64("lead_id", leadID),
		zap.String("request_id", requestIDFromContext(r.Context())),
	}
	if c, ok := claimsFromContext(r.Context()); ok {
		fields = append(fields, zap.Int64("user_id", c.ID), zap.String("user_email", c.Email))
	}
	s.logger.Info(msg, fields...)
}
