// Package handler exposes the verification service over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"idcheck/internal/bgc"
	"idcheck/internal/bgc/endpoint"
	"idcheck/internal/platform/middleware"
	"idcheck/pkg/platform/httputil"
	"idcheck/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Service defines the verification operations the handler serves.
type Service interface {
	Validate(ctx context.Context, ssn string) (*bgc.ValidateResult, error)
	Trace(ctx context.Context, order bgc.TraceOrder) (*bgc.TraceResult, error)
}

// ValidateRequest is the body of POST /v1/bgc/validate.
type ValidateRequest struct {
	SSN string `json:"ssn" validate:"required,len=9,numeric"`
}

// TraceRequest is the body of POST /v1/bgc/trace.
type TraceRequest struct {
	SSN       string `json:"ssn" validate:"required,len=9,numeric"`
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"required,max=64"`
}

// Handler handles BGC verification endpoints.
type Handler struct {
	svc      Service
	logger   *slog.Logger
	validate *validator.Validate
}

func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{svc: svc, logger: logger, validate: v}
}

// Register mounts the routes under /v1/bgc.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/bgc", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/validate", h.handleValidate)
		r.Post("/trace", h.handleTrace)
	})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Validate(r.Context(), req.SSN)
	if err != nil {
		h.writeServiceError(w, r, "validate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleTrace(w http.ResponseWriter, r *http.Request) {
	var req TraceRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Trace(r.Context(), bgc.TraceOrder{
		SSN:       req.SSN,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.writeServiceError(w, r, "trace", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.logger.WarnContext(ctx, "invalid request body",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.StructCtx(ctx, dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			httputil.WriteError(w, http.StatusBadRequest, httputil.CodeBadRequest, "invalid request body")
			return false
		}
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		httputil.WriteErrorDetails(w, http.StatusBadRequest, httputil.CodeValidation, "request failed validation", details)
		return false
	}
	return true
}

// writeServiceError maps service errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if errs, ok := bgc.ErrorsOf(err); ok {
		h.logger.InfoContext(ctx, "bgc rejected request",
			"request_id", requestID,
			"operation", op,
			"codes", errs.Codes(),
		)
		httputil.WriteErrorDetails(w, http.StatusUnprocessableEntity, httputil.CodeVendorRejected, err.Error(), errs)
		return
	}

	var statusErr *endpoint.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.WarnContext(ctx, "bgc call timed out", "request_id", requestID, "operation", op)
		httputil.WriteError(w, http.StatusGatewayTimeout, httputil.CodeGatewayTimeout, "upstream timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		h.logger.InfoContext(ctx, "request cancelled", "request_id", requestID, "operation", op)
	case errors.As(err, &statusErr),
		errors.Is(err, bgc.ErrMalformedResponse),
		errors.Is(err, endpoint.ErrResponseTooLarge),
		errors.Is(err, endpoint.ErrUndecodable):
		h.logger.ErrorContext(ctx, "bad upstream response",
			"request_id", requestID,
			"operation", op,
			"error", err.Error(),
		)
		httputil.WriteError(w, http.StatusBadGateway, httputil.CodeBadGateway, "upstream returned an unusable response")
	default:
		h.logger.ErrorContext(ctx, "bgc lookup failed",
			"request_id", requestID,
			"operation", op,
			"error", err.Error(),
		)
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal, "")
	}
}
