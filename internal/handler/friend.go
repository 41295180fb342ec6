package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"friendbook/internal/domain"
)

// Friend is the wire representation of a persisted friend with its children.
type Friend struct {
	Id        uuid.UUID           `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Email     openapi_types.Email `json:"email"`
	Birthday  *openapi_types.Date `json:"birthday,omitempty"`
	Address   *Address            `json:"address,omitempty"`
	Pets      []Pet               `json:"pets"`
	Quotes    []Quote             `json:"quotes"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Address is the wire representation of a postal address.
type Address struct {
	Id      uuid.UUID `json:"id"`
	Street  string    `json:"street"`
	ZipCode int       `json:"zip_code"`
	City    string    `json:"city"`
	Country string    `json:"country"`
}

// Pet is the wire representation of a pet.
type Pet struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Kind string    `json:"kind"`
	Mood string    `json:"mood"`
}

// Quote is the wire representation of a quote.
type Quote struct {
	Id     uuid.UUID `json:"id"`
	Text   string    `json:"text"`
	Author string    `json:"author"`
}

// Pagination echoes the effective paging window alongside the total count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// FriendList is the response body of GET /friends.
type FriendList struct {
	Data       []Friend   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListFriends handles GET /friends.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100) and ?q=
// for a case-insensitive substring match on name and email.
func (s *Server) ListFriends(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(
		queryInt(r, "page"),
		queryInt(r, "limit"),
		r.URL.Query().Get("q"),
	)

	friends, total, err := s.friends.ListPaged(r.Context(), params)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]Friend, len(friends))
	for i, f := range friends {
		data[i] = friendToResponse(f)
	}
	writeJSON(w, http.StatusOK, FriendList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetFriend handles GET /friends/{id}.
func (s *Server) GetFriend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id must be a UUID")
		return
	}

	friend, err := s.friends.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "friend not found")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, friendToResponse(friend))
}

// DeleteFriend handles DELETE /friends/{id}.
func (s *Server) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id must be a UUID")
		return
	}

	if err := s.friends.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "friend not found")
			return
		}
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// queryInt parses an optional integer query parameter. Absent or malformed
// values return nil so NewPaginationParams applies its defaults.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// friendToResponse converts a domain.Friend into its wire representation.
func friendToResponse(f domain.Friend) Friend {
	resp := Friend{
		Id:        f.ID,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     openapi_types.Email(f.Email),
		Pets:      make([]Pet, len(f.Pets)),
		Quotes:    make([]Quote, len(f.Quotes)),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.Birthday != nil {
		bd := openapi_types.Date{Time: *f.Birthday}
		resp.Birthday = &bd
	}
	if f.Address != nil {
		resp.Address = &Address{
			Id:      f.Address.ID,
			Street:  f.Address.Street,
			ZipCode: f.Address.ZipCode,
			City:    f.Address.City,
			Country: f.Address.Country,
		}
	}
	for i, p := range f.Pets {
		resp.Pets[i] = Pet{Id: p.ID, Name: p.Name, Kind: string(p.Kind), Mood: string(p.Mood)}
	}
	for i, q := range f.Quotes {
		resp.Quotes[i] = Quote{Id: q.ID, Text: q.Text, Author: q.Author}
	}
	return resp
}
