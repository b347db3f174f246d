package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"authd/cmd/internal/auth/service"
)

// Handler wires the HTTP auth endpoints to the auth service.
type Handler struct {
	log *slog.Logger
	cfg Config
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, svc *service.Service, cfg Config) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("authapi: nil service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, cfg: cfg, svc: svc}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/check", h.handleCheck)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/user", h.handleUpdateUser)
	mux.HandleFunc("/sessions", h.handleSessions)
}

// httpStatusFor maps an outcome status to its HTTP code. Credential and
// input failures are 400s; a dead session is a 200 with an error envelope,
// matching what existing clients expect.
func httpStatusFor(s service.Status) int {
	switch s {
	case service.StatusInvalidInput,
		service.StatusUserAlreadyExists,
		service.StatusInvalidUsernameOrPassword:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeStatus(w, http.StatusBadRequest, service.StatusInvalidInput)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.serverError(w, "auth.register.fail", err)
		return
	}

	writeJSON(w, httpStatusFor(res.Status), registerResponse{
		envelope:     statusEnvelope(res.Status),
		SessionToken: res.Token,
		UserID:       res.UserID,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeStatus(w, http.StatusBadRequest, service.StatusInvalidUsernameOrPassword)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.serverError(w, "auth.login.fail", err)
		return
	}

	writeJSON(w, httpStatusFor(res.Status), loginResponse{
		envelope:     statusEnvelope(res.Status),
		SessionToken: res.Token,
	})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req checkRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeStatus(w, http.StatusOK, service.StatusInvalidSession)
		return
	}

	res, err := h.svc.CheckSession(r.Context(), strings.TrimSpace(req.SessionToken))
	if err != nil {
		h.serverError(w, "auth.check.fail", err)
		return
	}

	writeJSON(w, httpStatusFor(res.Status), checkResponse{
		envelope: statusEnvelope(res.Status),
		UserID:   res.UserID,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req logoutRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeStatus(w, http.StatusOK, service.StatusInvalidSession)
		return
	}

	res, err := h.svc.Logout(r.Context(), strings.TrimSpace(req.SessionToken))
	if err != nil {
		h.serverError(w, "auth.logout.fail", err)
		return
	}

	writeStatus(w, httpStatusFor(res.Status), res.Status)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeStatus(w, http.StatusBadRequest, service.StatusInvalidInput)
		return
	}

	res, err := h.svc.ChangePassword(r.Context(), strings.TrimSpace(req.SessionToken), req.Password)
	if err != nil {
		h.serverError(w, "auth.update_user.fail", err)
		return
	}

	writeStatus(w, httpStatusFor(res.Status), res.Status)
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("sessionToken"))

	res, err := h.svc.ListSessions(r.Context(), token)
	if err != nil {
		h.serverError(w, "auth.sessions.fail", err)
		return
	}
	if res.Status != service.StatusSuccess {
		writeStatus(w, httpStatusFor(res.Status), res.Status)
		return
	}

	out := make([]sessionInfo, 0, len(res.Sessions))
	for _, s := range res.Sessions {
		out = append(out, sessionInfo{IssuedAt: s.IssuedAt, ExpiresAt: s.ExpiresAt})
	}
	writeJSON(w, http.StatusOK, sessionsResponse{
		envelope: statusEnvelope(res.Status),
		Sessions: out,
	})
}

// serverError logs the underlying failure and answers 500. The cause stays
// out of the response body.
func (h *Handler) serverError(w http.ResponseWriter, event string, err error) {
	h.log.Error(event, "err", err)
	writeJSON(w, http.StatusInternalServerError, envelope{Error: true, Status: "INTERNAL_ERROR"})
}
