package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"store-route-planner/internal/domain"
	"store-route-planner/internal/platform/obs"
	"store-route-planner/internal/ports"
	"store-route-planner/internal/services"
)

// maxBodyBytes bounds request bodies on POST endpoints.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// errorStatus maps planning and capacity errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOrderData),
		errors.Is(err, domain.ErrInvalidCapacityInput),
		errors.Is(err, domain.ErrNoVehicleAssignments):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPlanningInProgress),
		errors.Is(err, ports.ErrOrderNotPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCapacityExceededBySingleNode),
		errors.Is(err, domain.ErrNoRoutableOrders):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and writes its mapped status. Server errors hide
// the cause from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	log.Printf("req_id=%s op=%s status=%d err=%v", obs.RequestID(r.Context()), op, status, err)

	if status == http.StatusInternalServerError {
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}
