package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/domain"
	"github.com/Wardrod-Mine/TMA-CHANNEL-SERVER/internal/usecase"
)

const maxBodyBytes = 64 << 10

// DebugInfo отдаёт диагностическое состояние бота для GET /debug.
type DebugInfo func(ctx context.Context) (any, error)

// Server — запасной HTTP-вход: принимает заявку тем же конвейером, что и
// мини-приложение, плюс liveness и диагностика.
type Server struct {
	intake *usecase.Intake
	debug  DebugInfo
	log    *slog.Logger
}

func NewServer(intake *usecase.Intake, debug DebugInfo, log *slog.Logger) *Server {
	return &Server{intake: intake, debug: debug, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Bot is running"))
	})
	r.Get("/debug", s.handleDebug)
	r.Post("/lead", s.handleLead)
	return r
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	if s.debug == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	info, err := s.debug(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleLead принимает JSON той же логической формы, что и web_app_data.
// Отправителя и исходного чата у HTTP-заявки нет: при пустом списке админов
// доставка закончится нулём попыток и ответом об ошибке.
func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "message": usecase.AckUnparseable})
		return
	}

	ack := s.intake.Handle(r.Context(), string(body), nil, domain.Recipient{})
	status := http.StatusOK
	ok := ack == usecase.AckDelivered
	if ack == usecase.AckUnparseable {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{"ok": ok, "message": ack})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
