package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"board/pkg/auth"
	"board/pkg/censor"
	"board/pkg/storage"
)

const maxPageSize = 100

type API struct {
	ServiceName string
	DB          storage.Storage
	Router      *mux.Router

	hasher auth.Hasher
	cens   *censor.Censor
	kw     *kafka.Writer
}

// New assembles the router. The censor and kafka writer are optional; passing
// nil disables content filtering and audit logging respectively.
func New(name string, db storage.Storage, hasher auth.Hasher, cens *censor.Censor, kafkaWriter *kafka.Writer) *API {
	api := API{
		ServiceName: name,
		DB:          db,
		Router:      mux.NewRouter(),
		hasher:      hasher,
		cens:        cens,
		kw:          kafkaWriter,
	}
	api.endpoints()

	return &api
}

func (api *API) endpoints() {
	api.Router.Use(api.requestIDMiddleware)
	api.Router.Use(api.headerMiddleware)

	if api.kw != nil {
		api.Router.Use(api.loggingMiddleware(api.kw))
	}

	api.Router.HandleFunc("/users", api.registerUserHandler).Methods(http.MethodPost)
	api.Router.HandleFunc("/users", api.deleteUserHandler).Methods(http.MethodDelete)

	api.Router.HandleFunc("/categories", api.createCategoryHandler).Methods(http.MethodPost)
	api.Router.HandleFunc("/categories", api.listCategoriesHandler).Methods(http.MethodGet)
	api.Router.HandleFunc("/categories/{id:[0-9]+}", api.deleteCategoryHandler).Methods(http.MethodDelete)

	api.Router.HandleFunc("/posts", api.createPostHandler).Methods(http.MethodPost)
	api.Router.HandleFunc("/posts", api.listPostsHandler).Methods(http.MethodGet)
	api.Router.HandleFunc("/posts/{id:[0-9]+}", api.getPostHandler).Methods(http.MethodGet)
	api.Router.HandleFunc("/posts/{id:[0-9]+}", api.updatePostHandler).Methods(http.MethodPatch)
	api.Router.HandleFunc("/posts/{id:[0-9]+}", api.deletePostHandler).Methods(http.MethodDelete)
	api.Router.HandleFunc("/posts/{id:[0-9]+}/comments", api.postCommentsHandler).Methods(http.MethodGet)

	api.Router.HandleFunc("/comments", api.createCommentHandler).Methods(http.MethodPost)
	api.Router.HandleFunc("/comments/{id:[0-9]+}", api.repliesHandler).Methods(http.MethodGet)
	api.Router.HandleFunc("/comments/{id:[0-9]+}", api.updateCommentHandler).Methods(http.MethodPatch)
	api.Router.HandleFunc("/comments/{id:[0-9]+}", api.deleteCommentHandler).Methods(http.MethodDelete)

	api.Router.HandleFunc("/posts/{id:[0-9]+}/bookmarks", api.addBookmarkHandler).Methods(http.MethodPost)
	api.Router.HandleFunc("/posts/{id:[0-9]+}/bookmarks", api.removeBookmarkHandler).Methods(http.MethodDelete)
	api.Router.HandleFunc("/posts/{id:[0-9]+}/bookmarks/status", api.bookmarkStatusHandler).Methods(http.MethodGet)
	api.Router.HandleFunc("/bookmarks", api.listBookmarksHandler).Methods(http.MethodGet)
}

func (api *API) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Debugf("[registerUserHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if req.Email == "" || req.Password == "" || req.Nickname == "" {
		http.Error(w, storage.ErrMissingField.Error(), http.StatusBadRequest)
		log.Debugf("[registerUserHandler][%s] request with missing fields", sID)
		return
	}

	hash, err := api.hasher.Hash(req.Password)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[registerUserHandler][%s] failed to hash password: %v", sID, err)
		return
	}

	if _, err := api.DB.RegisterUser(r.Context(), req.Email, hash, req.Nickname); err != nil {
		writeError(w, err)
		log.Debugf("[registerUserHandler][%s] RegisterUser() returned error: %v", sID, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	log.Debugf("[registerUserHandler][%s] user %s registered", sID, req.Email)
}

func (api *API) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	if err := api.DB.DeleteUser(r.Context(), email); err != nil {
		writeError(w, err)
		log.Debugf("[deleteUserHandler][%s] DeleteUser() returned error: %v", sID, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	log.Debugf("[deleteUserHandler][%s] user %s deleted", sID, email)
}

func (api *API) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Debugf("[createCategoryHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		http.Error(w, storage.ErrMissingField.Error(), http.StatusBadRequest)
		log.Debugf("[createCategoryHandler][%s] request with empty name", sID)
		return
	}

	category, err := api.DB.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		log.Debugf("[createCategoryHandler][%s] AddCategory() returned error: %v", sID, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	api.encode(w, sID, "createCategoryHandler", category)
}

func (api *API) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	categories, err := api.DB.Categories(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[listCategoriesHandler][%s] Categories() returned error: %v", sID, err)
		return
	}

	api.encode(w, sID, "listCategoriesHandler", categories)
}

func (api *API) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	id := pathID(r)
	if err := api.DB.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		log.Debugf("[deleteCategoryHandler][%s] DeleteCategory(%d) returned error: %v", sID, id, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (api *API) createPostHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	var in storage.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Debugf("[createPostHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if api.rejected(w, sID, "createPostHandler", in.Title, in.Content) {
		return
	}

	post, err := api.DB.AddPost(r.Context(), in, email)
	if err != nil {
		writeError(w, err)
		log.Debugf("[createPostHandler][%s] AddPost() returned error: %v", sID, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	api.encode(w, sID, "createPostHandler", post)
}

func (api *API) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > maxPageSize {
		http.Error(w, "Size parameter is too big", http.StatusBadRequest)
		log.Debugf("[listPostsHandler][%s] request with too big size parameter", sID)
		return
	}

	posts, numPages, err := api.DB.Posts(r.Context(), page, size)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[listPostsHandler][%s] Posts() returned error: %v", sID, err)
		return
	}

	w.Header().Set("X-Total-Pages", strconv.Itoa(numPages))
	api.encode(w, sID, "listPostsHandler", posts)
}

func (api *API) getPostHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	id := pathID(r)
	post, err := api.DB.Post(r.Context(), id)
	if err != nil {
		writeError(w, err)
		log.Debugf("[getPostHandler][%s] Post(%d) returned error: %v", sID, id, err)
		return
	}

	api.encode(w, sID, "getPostHandler", post)
}

func (api *API) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	var patch storage.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Debugf("[updatePostHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	var title, content string
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Content != nil {
		content = *patch.Content
	}
	if api.rejected(w, sID, "updatePostHandler", title, content) {
		return
	}

	id := pathID(r)
	post, err := api.DB.UpdatePost(r.Context(), id, patch, email)
	if err != nil {
		writeError(w, err)
		log.Debugf("[updatePostHandler][%s] UpdatePost(%d) returned error: %v", sID, id, err)
		return
	}

	api.encode(w, sID, "updatePostHandler", post)
}

func (api *API) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	if err := api.DB.DeletePost(r.Context(), id, email); err != nil {
		writeError(w, err)
		log.Debugf("[deletePostHandler][%s] DeletePost(%d) returned error: %v", sID, id, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (api *API) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	var in storage.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Debugf("[createCommentHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if api.rejected(w, sID, "createCommentHandler", in.Content) {
		return
	}

	comment, err := api.DB.AddComment(r.Context(), in, email)
	if err != nil {
		writeError(w, err)
		log.Debugf("[createCommentHandler][%s] AddComment() returned error: %v", sID, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	api.encode(w, sID, "createCommentHandler", comment)
}

func (api *API) postCommentsHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	id := pathID(r)
	comments, err := api.DB.PostComments(r.Context(), id)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[postCommentsHandler][%s] PostComments(%d) returned error: %v", sID, id, err)
		return
	}

	api.encode(w, sID, "postCommentsHandler", comments)
}

func (api *API) repliesHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	id := pathID(r)
	replies, err := api.DB.Replies(r.Context(), id)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[repliesHandler][%s] Replies(%d) returned error: %v", sID, id, err)
		return
	}

	api.encode(w, sID, "repliesHandler", replies)
}

func (api *API) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	var req CommentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		log.Debugf("[updateCommentHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if api.rejected(w, sID, "updateCommentHandler", req.Content) {
		return
	}

	id := pathID(r)
	comment, err := api.DB.UpdateComment(r.Context(), id, req.Content, email)
	if err != nil {
		writeError(w, err)
		log.Debugf("[updateCommentHandler][%s] UpdateComment(%d) returned error: %v", sID, id, err)
		return
	}

	api.encode(w, sID, "updateCommentHandler", comment)
}

func (api *API) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	if err := api.DB.DeleteComment(r.Context(), id, email); err != nil {
		writeError(w, err)
		log.Debugf("[deleteCommentHandler][%s] DeleteComment(%d) returned error: %v", sID, id, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (api *API) addBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	if err := api.DB.AddBookmark(r.Context(), id, email); err != nil {
		writeError(w, err)
		log.Debugf("[addBookmarkHandler][%s] AddBookmark(%d) returned error: %v", sID, id, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (api *API) removeBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	if err := api.DB.RemoveBookmark(r.Context(), id, email); err != nil {
		writeError(w, err)
		log.Debugf("[removeBookmarkHandler][%s] RemoveBookmark(%d) returned error: %v", sID, id, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (api *API) bookmarkStatusHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	bookmarked, err := api.DB.IsBookmarked(r.Context(), id, email)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[bookmarkStatusHandler][%s] IsBookmarked(%d) returned error: %v", sID, id, err)
		return
	}

	api.encode(w, sID, "bookmarkStatusHandler", BookmarkStatus{Bookmarked: bookmarked})
}

func (api *API) listBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	email, ok := api.identity(w, r)
	if !ok {
		return
	}

	posts, err := api.DB.Bookmarks(r.Context(), email)
	if err != nil {
		writeError(w, err)
		log.Debugf("[listBookmarksHandler][%s] Bookmarks() returned error: %v", sID, err)
		return
	}

	api.encode(w, sID, "listBookmarksHandler", posts)
}

// identity extracts the authenticated caller's email. Authentication itself
// happens upstream; the backend trusts the header it is handed.
func (api *API) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.Header.Get("X-User-Email")
	if email == "" {
		http.Error(w, "Missing X-User-Email header", http.StatusUnauthorized)
		log.Debugf("[identity] missing X-User-Email header from %v", r.RemoteAddr)
		return "", false
	}

	return email, true
}

// rejected runs the optional content filter over the given texts and writes a
// 400 when any of them contains banned vocabulary.
func (api *API) rejected(w http.ResponseWriter, sID, handler string, texts ...string) bool {
	if api.cens == nil {
		return false
	}
	for _, text := range texts {
		if api.cens.Check(text) {
			http.Error(w, "Content rejected", http.StatusBadRequest)
			log.Debugf("[%s][%s] content rejected by filter", handler, sID)
			return true
		}
	}

	return false
}

func (api *API) encode(w http.ResponseWriter, sID, handler string, data any) {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Errorf("[%s][%s] failed to encode response data: %v", handler, sID, err)
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// GetRequestID extracts the request ID from the context.
// It returns the request ID as a string if present, otherwise returns an empty string.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
