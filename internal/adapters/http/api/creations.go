package api

import (
	"net/http"

	"github.com/okian/feedview/internal/adapters/http/proxy"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/types"
)

// CreationsHandler serves the creations collection.
type CreationsHandler struct {
	deps Dependencies
}

// NewCreationsHandler creates a new creations handler.
func NewCreationsHandler(deps Dependencies) *CreationsHandler {
	return &CreationsHandler{deps: deps}
}

// HandleList handles GET /api/creations.
func (h *CreationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	st := h.deps.State()
	resp := types.CreationsResponse{
		Loading:   st.CreationsLoading,
		Error:     errString(st.CreationsErr),
		Summary:   ranking.SummarizeCreations(st.Creations),
		Creations: make([]types.CreationView, 0, len(st.Creations)),
	}
	for i, c := range st.Creations {
		resp.Creations = append(resp.Creations, creationView(c, i+1))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDetail handles GET /api/creations/{id}.
func (h *CreationsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	c, pos, err := h.deps.Creation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, creationView(c, pos))
}

func creationView(c model.Creation, pos int) types.CreationView {
	v := types.CreationView{Creation: c, Position: pos}
	if c.URL != "" {
		v.ProxiedURL = proxy.URL(c.URL)
	}
	return v
}
