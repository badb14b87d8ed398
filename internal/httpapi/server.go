package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/deadman/internal/domain"
	"github.com/hamed0406/deadman/internal/repo"
)

type Server struct {
	Logger  *zap.Logger
	Records repo.RecordStore
	Now     func() time.Time
}

func NewServer(l *zap.Logger, rs repo.RecordStore, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{Logger: l, Records: rs, Now: now}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// GET is the read-style check-in (a bare curl on a cron line),
	// POST the write-style one carrying command output in the body.
	r.Get("/report/*", s.handleReport(domain.StatusSuccess))
	r.Post("/report/*", s.handleReport(domain.StatusFailure))

	r.Get("/api/checkins", s.handleLatest)
	r.Get("/api/checkins/overdue", s.handleOverdue)

	return r
}

func (s *Server) handleReport(def domain.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := reportPath(r)
		if path == "" {
			http.Error(w, "missing job path", http.StatusBadRequest)
			return
		}

		rec := domain.FromQuery(path, def, r, s.Now)

		if r.Body != nil {
			if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
				logs := string(body)
				rec.Logs = &logs
			}
		}

		if err := s.Records.Append(r.Context(), rec); err != nil {
			s.Logger.Error("report_save_error", zap.String("path", path), zap.Error(err))
			http.Error(w, "could not save report", http.StatusInternalServerError)
			return
		}

		s.Logger.Info("report_saved",
			zap.String("path", rec.Path),
			zap.String("status", string(rec.Status)),
			zap.Time("ts", rec.TS),
		)

		writeJSON(w, rec)
	}
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Records.Latest(r.Context())
	if err != nil {
		s.Logger.Error("latest_error", zap.Error(err))
		http.Error(w, "could not load check-ins", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	writeJSON(w, recs)
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Records.Latest(r.Context())
	if err != nil {
		s.Logger.Error("latest_error", zap.Error(err))
		http.Error(w, "could not load check-ins", http.StatusInternalServerError)
		return
	}

	now := s.Now()
	overdue := make([]domain.Record, 0, len(recs))
	for i := range recs {
		if recs[i].IsOverdue(now) {
			overdue = append(overdue, recs[i])
		}
	}
	writeJSON(w, overdue)
}

// reportPath extracts the job path from the wildcard segment and
// normalizes it to a single leading slash.
func reportPath(r *http.Request) string {
	p := strings.Trim(chi.URLParam(r, "*"), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
