package handlers

import (
	"context"
	"errors"
	"net/http"

	"clubsite/internal/content"
	"clubsite/pkg/utils"
)

// Home renders the aggregated public listing.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	// Detached from the request so one cancelled visitor does not fail the others sharing the call.
	ctx := context.WithoutCancel(r.Context())
	v, err, _ := h.listingGroup.Do("listing", func() (interface{}, error) {
		return h.repo.LoadListing(ctx)
	})
	if err != nil {
		h.ServerError(w, r, "load listing", err)
		return
	}

	h.render(w, http.StatusOK, "index", homePage{
		basePage: h.base(r, ""),
		Listing:  v.(*content.Listing),
	})
}

// BlogDetail renders one post and up to RelatedLimit other posts picked at random.
func (h *Handler) BlogDetail(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r.PathValue("id"))
	if err != nil {
		h.NotFound(w, r)
		return
	}

	post, err := h.repo.GetBlogPost(r.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		h.ServerError(w, r, "load post", err)
		return
	}

	related, err := h.repo.RelatedBlogPosts(r.Context(), id, content.RelatedLimit)
	if err != nil {
		h.ServerError(w, r, "load related posts", err)
		return
	}

	h.render(w, http.StatusOK, "blog", blogPage{
		basePage: h.base(r, post.Title),
		Post:     post,
		Related:  related,
	})
}
