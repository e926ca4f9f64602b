package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"foodshare/internal/donation/application/ports/in"
	"foodshare/internal/donation/domain"
	"foodshare/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// UseCases — набор use-case-ов, которые обслуживает HTTP handler
type UseCases struct {
	CreateDonation       in.CreateDonationUseCase
	RequestFood          in.RequestFoodUseCase
	AcceptRequest        in.AcceptRequestUseCase
	RejectRequest        in.RejectRequestUseCase
	CompleteRequest      in.CompleteRequestUseCase
	CancelRequest        in.CancelRequestUseCase
	GetDonations         in.GetDonationsUseCase
	GetDonation          in.GetDonationUseCase
	GetMyDonations       in.GetMyDonationsUseCase
	GetMyRequests        in.GetMyRequestsUseCase
	GetNotifications     in.GetNotificationsUseCase
	MarkNotificationRead in.MarkNotificationReadUseCase
	GetOverview          in.GetOverviewUseCase
}

// HTTPHandler обрабатывает HTTP запросы Donation Service
type HTTPHandler struct {
	uc  UseCases
	log *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(uc UseCases, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		uc:  uc,
		log: log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// donations
	mux.HandleFunc("POST /donations", authMiddleware(h.handleCreateDonation))
	mux.HandleFunc("GET /donations", authMiddleware(h.handleGetDonations))
	mux.HandleFunc("GET /donations/mine", authMiddleware(h.handleGetMyDonations))
	mux.HandleFunc("GET /donations/mine/active", authMiddleware(h.handleGetMyActiveDonations))
	mux.HandleFunc("GET /donations/{donation_id}", authMiddleware(h.handleGetDonation))

	// requests
	mux.HandleFunc("POST /requests", authMiddleware(h.handleRequestFood))
	mux.HandleFunc("GET /requests/my", authMiddleware(h.handleGetMyRequests))
	mux.HandleFunc("POST /requests/{request_id}/accept", authMiddleware(h.handleAcceptRequest))
	mux.HandleFunc("POST /requests/{request_id}/reject", authMiddleware(h.handleRejectRequest))
	mux.HandleFunc("POST /requests/{request_id}/complete", authMiddleware(h.handleCompleteRequest))
	mux.HandleFunc("POST /requests/{request_id}/cancel", authMiddleware(h.handleCancelRequest))

	// notifications
	mux.HandleFunc("GET /notifications/my", authMiddleware(h.handleGetNotifications))
	mux.HandleFunc("PUT /notifications/{notification_id}/read", authMiddleware(h.handleMarkNotificationRead))

	// admin
	mux.HandleFunc("GET /admin/overview", authMiddleware(h.handleGetOverview))

	h.log.Info(logger.Entry{
		Action:  "http_routes_registered",
		Message: "Donation routes registered",
	})
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// CreateDonationHTTPRequest — HTTP DTO для публикации донации
type CreateDonationHTTPRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	Quantity           float64  `json:"quantity"`
	Unit               string   `json:"unit"`
	ExpiryAt           string   `json:"expiry_at"`
	District           string   `json:"district"`
	City               string   `json:"city"`
	Lat                *float64 `json:"lat,omitempty"`
	Lng                *float64 `json:"lng,omitempty"`
	PickupInstructions string   `json:"pickup_instructions"`
	Photo              string   `json:"photo,omitempty"`
}

// handleCreateDonation обрабатывает POST /donations
func (h *HTTPHandler) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	var req CreateDonationHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	expiryAt, err := time.Parse(time.RFC3339, req.ExpiryAt)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "expiry_at must be RFC3339 timestamp")
		return
	}

	input := in.CreateDonationInput{
		DonorID:            userID,
		Title:              req.Title,
		Description:        req.Description,
		FoodType:           req.Type,
		Quantity:           req.Quantity,
		Unit:               req.Unit,
		ExpiryAt:           expiryAt,
		District:           req.District,
		City:               req.City,
		Lat:                req.Lat,
		Lng:                req.Lng,
		PickupInstructions: req.PickupInstructions,
		Photo:              req.Photo,
	}

	output, err := h.uc.CreateDonation.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output.Donation)
}

// handleGetDonations обрабатывает GET /donations
func (h *HTTPHandler) handleGetDonations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	output, err := h.uc.GetDonations.Execute(r.Context(), in.GetDonationsInput{
		City:     q.Get("city"),
		District: q.Get("district"),
		FoodType: q.Get("type"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"donations": output.Donations})
}

// handleGetMyDonations обрабатывает GET /donations/mine
func (h *HTTPHandler) handleGetMyDonations(w http.ResponseWriter, r *http.Request) {
	h.respondMyDonations(w, r, false)
}

// handleGetMyActiveDonations обрабатывает GET /donations/mine/active
func (h *HTTPHandler) handleGetMyActiveDonations(w http.ResponseWriter, r *http.Request) {
	h.respondMyDonations(w, r, true)
}

func (h *HTTPHandler) respondMyDonations(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()
	output, err := h.uc.GetMyDonations.Execute(ctx, in.GetMyDonationsInput{
		DonorID:    userIDFromContext(ctx),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"donations": output.Donations})
}

// handleGetDonation обрабатывает GET /donations/{donation_id}
func (h *HTTPHandler) handleGetDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.GetDonation.Execute(ctx, in.GetDonationInput{
		DonationID: r.PathValue("donation_id"),
		ViewerID:   userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"donation": output.Donation,
		"requests": output.Requests,
	})
}

// RequestFoodHTTPRequest — HTTP DTO для заявки на донацию
type RequestFoodHTTPRequest struct {
	DonationID string `json:"donation_id"`
}

// handleRequestFood обрабатывает POST /requests
func (h *HTTPHandler) handleRequestFood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RequestFoodHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.DonationID == "" {
		h.respondError(w, http.StatusBadRequest, "donation_id is required")
		return
	}

	output, err := h.uc.RequestFood.Execute(ctx, in.RequestFoodInput{
		DonationID:  req.DonationID,
		RecipientID: userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output.Request)
}

// handleGetMyRequests обрабатывает GET /requests/my
func (h *HTTPHandler) handleGetMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.GetMyRequests.Execute(ctx, in.GetMyRequestsInput{
		RecipientID: userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"requests": output.Requests})
}

// handleAcceptRequest обрабатывает POST /requests/{request_id}/accept
func (h *HTTPHandler) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.AcceptRequest.Execute(ctx, in.AcceptRequestInput{
		RequestID: r.PathValue("request_id"),
		DonorID:   userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"request":           output.Request,
		"rejected_siblings": output.RejectedSiblings,
	})
}

// handleRejectRequest обрабатывает POST /requests/{request_id}/reject
func (h *HTTPHandler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.RejectRequest.Execute(ctx, in.RejectRequestInput{
		RequestID: r.PathValue("request_id"),
		DonorID:   userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"request":           output.Request,
		"donation_reopened": output.DonationReopened,
	})
}

// handleCompleteRequest обрабатывает POST /requests/{request_id}/complete
func (h *HTTPHandler) handleCompleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.CompleteRequest.Execute(ctx, in.CompleteRequestInput{
		RequestID: r.PathValue("request_id"),
		DonorID:   userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, output.Request)
}

// handleCancelRequest обрабатывает POST /requests/{request_id}/cancel
func (h *HTTPHandler) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.CancelRequest.Execute(ctx, in.CancelRequestInput{
		RequestID:   r.PathValue("request_id"),
		RecipientID: userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, output.Request)
}

// handleGetNotifications обрабатывает GET /notifications/my
func (h *HTTPHandler) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	output, err := h.uc.GetNotifications.Execute(ctx, in.GetNotificationsInput{
		UserID:     userIDFromContext(ctx),
		UnreadOnly: q.Get("unread") == "true",
		Limit:      limit,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"notifications": output.Notifications})
}

// handleMarkNotificationRead обрабатывает PUT /notifications/{notification_id}/read
func (h *HTTPHandler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.MarkNotificationRead.Execute(ctx, in.MarkNotificationReadInput{
		NotificationID: r.PathValue("notification_id"),
		UserID:         userIDFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, output.Notification)
}

// handleGetOverview обрабатывает GET /admin/overview
func (h *HTTPHandler) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	output, err := h.uc.GetOverview.Execute(ctx, in.GetOverviewInput{
		RequesterRole: userRoleFromContext(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, output.Stats)
}

// decodeBody парсит JSON тело запроса; при ошибке отвечает сам
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return false
		}
		h.log.Error(logger.Entry{
			Action:  "parse_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return false
	}

	return true
}

// handleUseCaseError маппит доменные ошибки на HTTP статусы
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCoordinates):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotDonationOwner),
		errors.Is(err, domain.ErrNotRequestOwner):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrDonationNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDonationNotAvailable),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrRequestNotAccepted),
		errors.Is(err, domain.ErrRequestNotCancellable):
		h.respondError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondJSON отправляет JSON ответ
func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
