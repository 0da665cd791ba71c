package salonapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/salon-booking/internal/backend"
	"github.com/wolfman30/salon-booking/pkg/logging"
)

const maxBodyBytes = 1 << 20

var apiTracer = otel.Tracer("salon.internal.salonapi")

// Handler serves the booking API endpoints.
type Handler struct {
	store  Store
	logger *logging.Logger
}

func NewHandler(store Store, logger *logging.Logger) *Handler {
	if store == nil {
		panic("salonapi: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Index answers the root path so deploy checks can see the server is up.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("salon booking API is running"))
}

// Health pings the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "msg": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx, span := apiTracer.Start(r.Context(), "salonapi.list_services")
	defer span.End()

	services, err := h.store.ListServices(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list services")
		h.logger.Error("list services failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("salon.service_count", len(services)))
	writeJSON(w, http.StatusOK, services)
}

// CheckUser handles GET /api/users/check?userId=...
func (h *Handler) CheckUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "缺少參數：userId")
		return
	}

	ctx, span := apiTracer.Start(r.Context(), "salonapi.check_user")
	defer span.End()

	registered, err := h.store.IsRegistered(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "check user")
		h.logger.Error("check user failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, backend.CheckResponse{Registered: registered})
}

// PutUser handles PUT /api/users.
func (h *Handler) PutUser(w http.ResponseWriter, r *http.Request) {
	var req backend.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateUser(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Birthday = strings.TrimSpace(req.Birthday)

	ctx, span := apiTracer.Start(r.Context(), "salonapi.put_user")
	defer span.End()

	if err := h.store.UpsertUser(ctx, req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert user")
		h.logger.Error("upsert user failed", "user_id", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("user registered", "user_id", req.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req backend.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateBooking(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, span := apiTracer.Start(r.Context(), "salonapi.create_booking")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.user_id", req.UserProfile.UserID),
		attribute.Int("salon.service_count", len(req.ServiceIDs)),
	)

	result, err := h.store.CreateBooking(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create booking")
		h.logger.Error("create booking failed", "user_id", req.UserProfile.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("booking created",
		"booking_id", result.ID,
		"user_id", req.UserProfile.UserID,
		"date", req.Date,
		"time", req.Time,
	)
	writeJSON(w, http.StatusCreated, result)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "無效的 JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, backend.ErrorResponse{Error: msg})
}
