package rest

import (
	"net/http"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/casira/connect/internal/posts/application"
	"github.com/casira/connect/internal/posts/domain"
	"github.com/casira/connect/internal/posts/ports"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// PostsHandler handles HTTP requests for the community feed
type PostsHandler struct {
	*BaseHandler
	service *application.PostsService
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(base *BaseHandler, service *application.PostsService) *PostsHandler {
	return &PostsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListPosts returns the feed as the caller is allowed to see it
func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request, params api.ListPostsParams) {
	filter := ports.ListFilter{
		ActivityID: params.ActivityId,
		AuthorID:   params.AuthorId,
	}
	filter.Limit, filter.Offset = page(params.Limit, params.Offset)
	if params.Type != nil {
		postType, err := domain.ParsePostType(*params.Type)
		if err != nil {
			h.WriteJSONError(w, r, middleware.ErrorCodeValidationError, "Invalid post type", http.StatusBadRequest)
			return
		}
		filter.Type = &postType
	}

	posts, total, err := h.service.List(r.Context(), h.GetUserIDFromContext(r), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := api.PostList{Posts: make([]api.Post, 0, len(posts)), Total: total}
	for _, p := range posts {
		response.Posts = append(response.Posts, domainPostToAPI(p))
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req api.CreatePostRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.Create(r.Context(), h.GetUserIDFromContext(r), application.CreatePostParams{
		ActivityID: req.ActivityId,
		Title:      deref(req.Title),
		Content:    req.Content,
		Type:       deref(req.Type),
		Visibility: deref(req.Visibility),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainPostToAPI(post), http.StatusCreated)
}

func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	post, err := h.service.Get(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainPostToAPI(post), http.StatusOK)
}

func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	if err := h.service.Delete(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id)); err != nil {
		h.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostsHandler) LikePost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	post, err := h.service.Like(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainPostToAPI(post), http.StatusOK)
}

func (h *PostsHandler) UnlikePost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	post, err := h.service.Unlike(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainPostToAPI(post), http.StatusOK)
}

func (h *PostsHandler) ListComments(w http.ResponseWriter, r *http.Request, id openapi_types.UUID, params api.ListCommentsParams) {
	limit, offset := page(params.Limit, params.Offset)
	comments, err := h.service.ListComments(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id), limit, offset)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make([]api.Comment, 0, len(comments))
	for _, c := range comments {
		response = append(response, domainCommentToAPI(c))
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *PostsHandler) CreateComment(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	var req api.CreateCommentRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.Comment(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id), req.Content)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainCommentToAPI(comment), http.StatusCreated)
}

func (h *PostsHandler) DeleteComment(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	if err := h.service.DeleteComment(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id)); err != nil {
		h.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func domainPostToAPI(post *domain.Post) api.Post {
	return api.Post{
		Id:            post.ID,
		AuthorId:      post.AuthorID,
		ActivityId:    post.ActivityID,
		Title:         optional(post.Title),
		Content:       post.Content,
		Type:          string(post.Type),
		Visibility:    string(post.Visibility),
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

func domainCommentToAPI(c *domain.Comment) api.Comment {
	return api.Comment{
		Id:        c.ID,
		PostId:    c.PostID,
		AuthorId:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
