package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) listCouponsHandler(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	page, limit, err := pagingParams(values)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.services.Coupons.ListCoupons(r.Context(), values.Get("q"), page, limit)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result})
}

// redeemCouponHandler marks a coupon redeemed; the body is ignored
func (s *Server) redeemCouponHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.services.Coupons.RedeemCoupon(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
