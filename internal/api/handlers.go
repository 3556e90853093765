package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/auth"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sess, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleListContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.catalog.ForGrade(r.Context(), q.Get("ageGroup"), content.ParseGradeString(q.Get("grade")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetContent(w http.ResponseWriter, r *http.Request) {
	grade := content.ParseGradeString(r.URL.Query().Get("grade"))
	it, err := h.catalog.Get(r.Context(), r.PathValue("id"), grade)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type filterRequest struct {
	Grade content.Grade   `json:"grade"`
	Items json.RawMessage `json:"items"`
}

// handleFilterContent filters a caller-supplied catalog, the same narrowing
// the listing endpoints apply to the stored catalog.
func (h *Handler) handleFilterContent(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	items, err := content.DecodeCatalogJSON(req.Items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Filter().Apply(items, req.Grade))
}

func (h *Handler) handleExportContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grade := content.ParseGradeString(q.Get("grade"))
	items, err := h.catalog.ForGrade(r.Context(), q.Get("ageGroup"), grade)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	name := "catalog.xlsx"
	if grade.Known() {
		name = fmt.Sprintf("catalog-grade-%d.xlsx", int(grade))
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := content.WriteXLSX(w, items); err != nil {
		slog.Error("exporting catalog", "error", err)
	}
}

func (h *Handler) handleMyContent(w http.ResponseWriter, r *http.Request, learner content.Learner) {
	items, err := h.catalog.ForLearner(r.Context(), learner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleMyProgress(w http.ResponseWriter, r *http.Request, learner content.Learner) {
	sum, err := h.progress.Summary(r.Context(), learner.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) handleCompleteContent(w http.ResponseWriter, r *http.Request, learner content.Learner) {
	var req struct {
		ContentID string `json:"contentId"`
	}
	if err := decodeBody(w, r, &req); err != nil || req.ContentID == "" {
		writeError(w, http.StatusBadRequest, "contentId is required")
		return
	}
	c, err := h.progress.Complete(r.Context(), learner, req.ContentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
