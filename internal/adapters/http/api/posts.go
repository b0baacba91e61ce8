package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/feedview/internal/adapters/http/proxy"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/types"
	"github.com/okian/feedview/internal/domain/viewer"
)

// maxCopyBodySize bounds JSON request bodies.
const maxCopyBodySize = 8 << 10

// PostsHandler serves the ranked posts collection and its detail view.
type PostsHandler struct {
	deps Dependencies
}

// NewPostsHandler creates a new posts handler.
func NewPostsHandler(deps Dependencies) *PostsHandler {
	return &PostsHandler{deps: deps}
}

// HandleList handles GET /api/posts?sort=<order>. A sort value selects the
// ordering for the viewer; without one the current ordering is kept.
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.SelectOrder(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := types.PostsResponse{
		Order:   st.Order,
		Loading: st.Loading(),
		Error:   errString(st.PostsErr),
		Summary: ranking.Summarize(st.Posts),
		Posts:   make([]types.PostView, 0, len(st.Posts)),
	}
	for i, p := range st.Posts {
		resp.Posts = append(resp.Posts, types.NewPostView(i+1, p, proxy.URL(p.DisplayURL)))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDetail handles GET /api/posts/{id}?image=<i>&nav=next|prev.
func (h *PostsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	image := 0
	if raw := q.Get("image"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, fmt.Errorf("%w: image must be an integer", ErrBadRequest))
			return
		}
		image = n
	}

	p, d, err := h.deps.Post(r.Context(), r.PathValue("id"), image, q.Get("nav"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.detail(p, d))
}

// HandleCopy handles POST /api/posts/{id}/copy with a {"url": "..."} body.
func (h *PostsHandler) HandleCopy(w http.ResponseWriter, r *http.Request) {
	var req types.CopyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCopyBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || req.URL == "" {
		writeServiceError(w, fmt.Errorf("%w: body must be {\"url\": \"...\"}", ErrBadRequest))
		return
	}

	until, err := h.deps.CopyImage(r.Context(), r.PathValue("id"), req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.CopyResponse{URL: req.URL, CopiedUntil: until})
}

func (h *PostsHandler) detail(p model.ScoredPost, d viewer.Detail) types.PostDetail {
	urls := viewer.Images(p.Post)
	images := make([]types.ImageView, len(urls))
	for i, u := range urls {
		images[i] = types.ImageView{
			Index:      i,
			URL:        u,
			ProxiedURL: proxy.URL(u),
			Copied:     h.deps.Copied(u),
		}
	}

	return types.PostDetail{
		Post:    types.NewPostView(d.Rank, p, proxy.URL(p.DisplayURL)),
		Index:   d.Index,
		Count:   d.Count,
		Current: images[d.Index],
		Images:  images,
	}
}
