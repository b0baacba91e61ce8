package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/types"
	"github.com/okian/feedview/internal/domain/viewer"
)

// StateHandler exposes the viewer state and its selectors.
type StateHandler struct {
	deps Dependencies
}

// NewStateHandler creates a new state handler.
func NewStateHandler(deps Dependencies) *StateHandler {
	return &StateHandler{deps: deps}
}

// HandleState handles GET /api/state.
func (h *StateHandler) HandleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse(h.deps.State()))
}

// HandleSetTab handles PUT /api/state/tab with a {"tab": "..."} body.
func (h *StateHandler) HandleSetTab(w http.ResponseWriter, r *http.Request) {
	var req types.TabRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCopyBodySize)).Decode(&req); err != nil {
		writeServiceError(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	st, err := h.deps.SetTab(r.Context(), req.Tab)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse(st))
}

// HandleSortOptions handles GET /api/sort-options.
func (h *StateHandler) HandleSortOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ranking.SortOptions())
}

func stateResponse(st viewer.State) types.StateResponse {
	return types.StateResponse{
		Tab:              st.Tab,
		Order:            st.Order,
		PostsLoading:     st.PostsLoading,
		CreationsLoading: st.CreationsLoading,
		PostsError:       errString(st.PostsErr),
		CreationsError:   errString(st.CreationsErr),
		Posts:            ranking.Summarize(st.Posts),
		Creations:        ranking.SummarizeCreations(st.Creations),
	}
}
