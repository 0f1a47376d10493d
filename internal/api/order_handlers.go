package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// UpdateOrderStatusRequest is the body of PATCH /orders/{id}. The status
// bound is models.MaxStatusLength.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,max=64"`
	Note   string `json:"note,omitempty" validate:"max=2000"`
}

func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listQuery(r)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	page, err := s.services.Orders.ListOrders(r.Context(), q)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: page})
}

// getOrderDetailHandler returns the order detail projection
func (s *Server) getOrderDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	detail, err := s.services.Orders.GetOrderDetail(r.Context(), id)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: detail})
}

// updateOrderStatusHandler records a status transition and returns the
// refreshed projection
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateOrderStatusRequest

	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	detail, err := s.services.Orders.UpdateOrderStatus(r.Context(), id, req.Status, req.Note)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: detail})
}

func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.services.Orders.DeleteOrder(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}

// refreshPrinterStatusHandler polls the printer gateway for the order.
// Per-printer-order failures are part of a 200 response.
func (s *Server) refreshPrinterStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := s.services.Printer.RefreshPrinterStatus(r.Context(), id)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result})
}
