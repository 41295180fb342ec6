package handler

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts every API endpoint on the given router. Middleware is the
// caller's concern; main.go attaches it before mounting.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/friends", func(r chi.Router) {
		r.Get("/", s.ListFriends)
		r.Post("/save", s.SaveFriend)
		r.Get("/{id}", s.GetFriend)
		r.Delete("/{id}", s.DeleteFriend)
	})

	r.Get("/addresses", s.ListAddresses)
}
