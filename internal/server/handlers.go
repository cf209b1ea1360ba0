package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/report"
	"github.com/abhisek/assessor/internal/scoring"
	"github.com/abhisek/assessor/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"catalog":  s.catalog.Version(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	counts := s.catalog.CountByCategory()
	cats := s.catalog.Categories()
	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, categoryView{
			Name:  c,
			Slug:  c.Slug(),
			Icon:  c.Icon(),
			Count: counts[c],
		})
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		respondJSON(w, http.StatusOK, s.catalog.AllQuestions())
		return
	}
	c, ok := catalog.ParseCategory(raw)
	if !ok {
		respondError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("unknown category %q", raw))
		return
	}
	qs := s.catalog.ByCategory(c)
	if qs == nil {
		qs = []catalog.Question{}
	}
	respondJSON(w, http.StatusOK, qs)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	view := newSessionView(sess)
	s.journal(r.Context(), store.SessionEventData{SessionID: sess.ID, Action: store.ActionCreate})

	log.WithField("session", sess.ID).Info("session created")
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	var view sessionView
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *assessment.Session) error {
		view = newSessionView(sess)
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		respondDomainError(w, ErrSessionNotFound)
		return
	}
	s.journal(r.Context(), store.SessionEventData{SessionID: id, Action: store.ActionDiscard})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	var req selectCategoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	// Slugs and unknown names fall through to the session, which reports
	// an empty category for anything the catalog does not hold.
	c, ok := catalog.ParseCategory(req.Category)
	if !ok {
		c = catalog.Category(req.Category)
	}

	id := chi.URLParam(r, "id")
	var view sessionView
	err := s.sessions.With(id, func(sess *assessment.Session) error {
		if err := sess.SelectCategory(c); err != nil {
			return err
		}
		view = newSessionView(sess)
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.journal(r.Context(), store.SessionEventData{
		SessionID: id,
		Action:    store.ActionSelectCategory,
		Category:  string(c),
		Index:     view.Index,
	})
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	var (
		view  currentView
		found bool
	)
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *assessment.Session) error {
		q, ok := sess.CurrentQuestion()
		if !ok {
			return nil
		}
		found = true
		ans, _ := sess.Answer(q.ID)
		view = currentView{
			Question: q,
			Answer:   ans,
			IsFirst:  sess.IsFirst(),
			IsLast:   sess.IsLast(),
			Progress: sess.Progress(),
		}
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusConflict, "no_active_category", assessment.ErrNoActiveCategory.Error())
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	qid, ok := questionID(w, r)
	if !ok {
		return
	}
	var req ratingRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var ans assessment.Answer
	err := s.sessions.With(id, func(sess *assessment.Session) error {
		if err := sess.SetRating(qid, assessment.Rating(*req.Rating)); err != nil {
			return err
		}
		ans, _ = sess.Answer(qid)
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.journal(r.Context(), store.SessionEventData{
		SessionID:  id,
		Action:     store.ActionRate,
		QuestionID: qid,
		Rating:     *req.Rating,
	})
	respondJSON(w, http.StatusOK, ans)
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	qid, ok := questionID(w, r)
	if !ok {
		return
	}
	var req notesRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var ans assessment.Answer
	err := s.sessions.With(id, func(sess *assessment.Session) error {
		if err := sess.SetNotes(qid, req.Notes); err != nil {
			return err
		}
		ans, _ = sess.Answer(qid)
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.journal(r.Context(), store.SessionEventData{
		SessionID:  id,
		Action:     store.ActionNotes,
		QuestionID: qid,
		Notes:      req.Notes,
	})
	respondJSON(w, http.StatusOK, ans)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view advanceView
	err := s.sessions.With(id, func(sess *assessment.Session) error {
		finished, err := sess.Advance()
		if err != nil {
			return err
		}
		view = advanceView{Finished: finished, Session: newSessionView(sess)}
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	action := store.ActionAdvance
	if view.Finished {
		action = store.ActionComplete
	}
	s.journal(r.Context(), store.SessionEventData{
		SessionID: id,
		Action:    action,
		Category:  string(view.Session.Category),
		Index:     view.Session.Index,
	})
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var view retreatView
	err := s.sessions.With(id, func(sess *assessment.Session) error {
		view = retreatView{Moved: sess.Retreat(), Session: newSessionView(sess)}
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if view.Moved {
		s.journal(r.Context(), store.SessionEventData{
			SessionID: id,
			Action:    store.ActionRetreat,
			Index:     view.Session.Index,
		})
	}
	respondJSON(w, http.StatusOK, view)
}

// aggregate snapshots the session's answers and scores them outside the lock.
func (s *Server) aggregate(id string) (scoring.Report, error) {
	var (
		cat     *catalog.Catalog
		answers map[int]assessment.Answer
	)
	err := s.sessions.With(id, func(sess *assessment.Session) error {
		cat = sess.Catalog()
		answers = sess.Answers()
		return nil
	})
	if err != nil {
		return scoring.Report{}, err
	}
	return scoring.Aggregate(cat, answers), nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.aggregate(chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.aggregate(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	s.journal(r.Context(), store.SessionEventData{
		SessionID: id,
		Action:    store.ActionReport,
		Detail:    fmt.Sprintf("overall=%.1f verdict=%s", rep.OverallRating, rep.Verdict),
	})

	w.Header().Set("Content-Type", report.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(time.Now(), id)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(report.ToText(rep))); err != nil {
		log.WithError(err).Warn("failed to write report")
	}
}

func (s *Server) handleDebrief(w http.ResponseWriter, r *http.Request) {
	if s.debrief == nil {
		respondError(w, http.StatusServiceUnavailable, "llm_unavailable", "no LLM provider is configured")
		return
	}

	id := chi.URLParam(r, "id")
	rep, err := s.aggregate(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	d, err := s.debrief.Generate(r.Context(), rep)
	switch {
	case errors.Is(err, debrief.ErrNothingRated):
		respondError(w, http.StatusConflict, "nothing_rated", err.Error())
		return
	case err != nil:
		log.WithError(err).WithField("session", id).Error("debrief failed")
		respondError(w, http.StatusBadGateway, "llm_error", "debrief generation failed")
		return
	}

	s.journal(r.Context(), store.SessionEventData{SessionID: id, Action: store.ActionDebrief})
	respondJSON(w, http.StatusOK, debriefView{Debrief: d, Markdown: d.Markdown()})
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

func questionID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "qid")
	qid, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("invalid question id %q", raw))
		return 0, false
	}
	return qid, true
}
