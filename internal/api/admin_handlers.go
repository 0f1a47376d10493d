package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wefi-dex/munchclub-admin/internal/models"
)

// listHandler adapts a paginated admin list to an HTTP handler
func listHandler[T any](s *Server, list func(context.Context, models.ListQuery) (models.Page[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r)

		if err != nil {
			s.handleError(w, r, err)
			return
		}

		page, err := list(r.Context(), q)

		if err != nil {
			s.handleError(w, r, err)
			return
		}

		s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: page})
	}
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.services.Admin.ListUsers)(w, r)
}

func (s *Server) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.services.Admin.ListBooks)(w, r)
}

func (s *Server) listRecipesHandler(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.services.Admin.ListRecipes)(w, r)
}

func (s *Server) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.services.Admin.ListPayments)(w, r)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Admin.Stats(r.Context())

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats})
}

// deleteUserHandler runs the best-effort user cleanup and returns its report
func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	report, err := s.services.Users.DeleteUser(r.Context(), id)

	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report})
}
