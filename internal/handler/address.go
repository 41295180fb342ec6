package handler

import (
	"net/http"

	"friendbook/internal/domain"
)

// AddressList is the response body of GET /addresses.
type AddressList struct {
	Data       []Address  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListAddresses handles GET /addresses.
// The listing is read-only: addresses are created and edited exclusively
// through the save flow, which deduplicates identical entries.
func (s *Server) ListAddresses(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(
		queryInt(r, "page"),
		queryInt(r, "limit"),
		"",
	)

	addrs, total, err := s.addresses.ListPaged(r.Context(), params)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]Address, len(addrs))
	for i, a := range addrs {
		data[i] = Address{
			Id:      a.ID,
			Street:  a.Street,
			ZipCode: a.ZipCode,
			City:    a.City,
			Country: a.Country,
		}
	}
	writeJSON(w, http.StatusOK, AddressList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}
