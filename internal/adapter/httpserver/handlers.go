package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ranqi-ly/soul-matrix-ai/internal/config"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
	"github.com/ranqi-ly/soul-matrix-ai/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Assess     usecase.AssessService
	Results    usecase.ResultService
	Invites    usecase.InviteService
	Shares     usecase.ShareService
	Predicts   usecase.PredictService
	CacheCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, assess usecase.AssessService, results usecase.ResultService, invites usecase.InviteService, shares usecase.ShareService, predicts usecase.PredictService, cacheCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Assess: assess, Results: results, Invites: invites, Shares: shares, Predicts: predicts, CacheCheck: cacheCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type participantPayload struct {
	Name    string            `json:"name" validate:"required,max=100"`
	Gender  string            `json:"gender" validate:"max=20"`
	Age     int               `json:"age" validate:"gte=0,lte=150"`
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

type assessRequest struct {
	Person1 participantPayload `json:"person1" validate:"required"`
	Person2 participantPayload `json:"person2" validate:"required"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		writeError(w, r, fmt.Errorf("%w: content-type must be application/json", domain.ErrInvalidArgument))
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err))
		return false
	}
	if err := getValidator().Struct(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return false
	}
	return true
}

// AssessHandler runs the assessment pipeline and returns the result id.
func (s *Server) AssessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assessRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id, err := s.Assess.Run(r.Context(),
			domain.Participant{Name: req.Person1.Name, Gender: req.Person1.Gender, Age: req.Person1.Age, Answers: req.Person1.Answers},
			domain.Participant{Name: req.Person2.Name, Gender: req.Person2.Gender, Age: req.Person2.Age, Answers: req.Person2.Answers},
		)
		if err != nil {
			LoggerFrom(r).Error("assessment failed", "error", err)
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"resultId": id})
	}
}

// ResultHandler fetches a completed analysis by id.
func (s *Server) ResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res, err := s.Results.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, res)
	}
}

type inviteRequest struct {
	Person1Answers map[string]string `json:"person1Answers" validate:"required,min=1"`
}

// InviteCreateHandler stores the first participant's answers for later.
func (s *Server) InviteCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inviteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id, err := s.Invites.Create(r.Context(), req.Person1Answers)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"inviteId": id})
	}
}

// InviteGetHandler returns the stored answers for an invite link.
func (s *Server) InviteGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := s.Invites.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, inv)
	}
}

type shareRequest struct {
	Result json.RawMessage `json:"result" validate:"required"`
}

// ShareCreateHandler stores a result snapshot behind a share id.
func (s *Server) ShareCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shareRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id, err := s.Shares.Create(r.Context(), req.Result)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, map[string]string{"shareId": id})
	}
}

// ShareGetHandler returns a shared result snapshot.
func (s *Server) ShareGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := s.Shares.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, raw)
	}
}

type predictRequest struct {
	Person1 domain.PredictProfile `json:"person1" validate:"required"`
	Person2 domain.PredictProfile `json:"person2" validate:"required"`
}

// PredictHandler runs the free-text compatibility prediction.
func (s *Server) PredictHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		pred, err := s.Predicts.Run(r.Context(), req.Person1, req.Person2)
		if err != nil {
			LoggerFrom(r).Error("prediction failed", "error", err)
			writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, pred)
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler reports readiness, including the cache backend when it has
// a liveness check (Redis).
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.CacheCheck != nil {
			if err := s.CacheCheck(r.Context()); err != nil {
				LoggerFrom(r).Warn("readiness check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
