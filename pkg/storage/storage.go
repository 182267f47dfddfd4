package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConnectDB       = errors.New("unable to establish DB connection")
	ErrDBNotResponding = errors.New("DB not responding")

	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")

	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateNickname = errors.New("nickname already exists")
	ErrDuplicateCategory = errors.New("category already exists")

	ErrMissingField  = errors.New("required field missing")
	ErrCategoryInUse = errors.New("category is referenced by posts")
	ErrNotAuthorized = errors.New("actor is not the author")
)

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type Category struct {
	ID   int64  `json:"category_id"`
	Name string `json:"name"`
}

// PostView is the read model returned for posts: the author and category are
// flattened to nickname and name so internal references never leave storage.
type PostView struct {
	ID        int64     `json:"post_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
}

// CommentView carries either a post reference (root comment) or a parent
// reference (reply), never both. Author is empty when the account was deleted.
type CommentView struct {
	ID         int64     `json:"comment_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Author     string    `json:"author"`
	PostID     *int64    `json:"post_id,omitempty"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	ChildCount int       `json:"child_count"`
}

type PostInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int64  `json:"category"`
}

// PostPatch applies only the fields that are non-nil.
type PostPatch struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	CategoryID *int64  `json:"category"`
}

// CommentInput targets a post (root comment) or a parent comment (reply).
// Exactly one of PostID and ParentID must be set.
type CommentInput struct {
	Content  string `json:"content"`
	PostID   *int64 `json:"post_id"`
	ParentID *int64 `json:"parent_id"`
}

// Storage is the entity store behind the board. Implementations must run each
// lookup-then-mutate sequence atomically: a concurrent delete of the target
// surfaces as the matching NotFound error, never as partial state. Cascading
// deletes complete inside the same transaction as the triggering delete.
type Storage interface {
	Ping(ctx context.Context) error
	Close()

	// RegisterUser creates a USER account, rejecting duplicate email before
	// duplicate nickname (exact, case-sensitive matches).
	RegisterUser(ctx context.Context, email, passwordHash, nickname string) (int64, error)
	// EnsureAdmin creates an ADMIN account unless the email is already taken.
	// It reports whether a new account was created.
	EnsureAdmin(ctx context.Context, email, passwordHash, nickname string) (bool, error)
	// DeleteUser removes the account plus its posts (each with their comment
	// subtrees and bookmarks) and its own bookmarks. Comments the user wrote
	// on surviving posts are kept with the author reference cleared.
	DeleteUser(ctx context.Context, email string) error

	AddCategory(ctx context.Context, name string) (Category, error)
	// Categories lists all categories sorted by name ascending.
	Categories(ctx context.Context) ([]Category, error)
	// DeleteCategory fails with ErrCategoryInUse while any post references it.
	DeleteCategory(ctx context.Context, id int64) error

	AddPost(ctx context.Context, in PostInput, authorEmail string) (PostView, error)
	Post(ctx context.Context, id int64) (PostView, error)
	// Posts returns the requested page ordered newest-id-first along with the
	// total number of pages. Pages are 1-based.
	Posts(ctx context.Context, page, limit int) ([]PostView, int, error)
	UpdatePost(ctx context.Context, id int64, patch PostPatch, actorEmail string) (PostView, error)
	DeletePost(ctx context.Context, id int64, actorEmail string) error

	AddComment(ctx context.Context, in CommentInput, authorEmail string) (CommentView, error)
	// PostComments returns the root comments of a post newest-id-first, each
	// with the count of its direct replies.
	PostComments(ctx context.Context, postID int64) ([]CommentView, error)
	// Replies returns the direct children of a comment newest-id-first.
	Replies(ctx context.Context, parentID int64) ([]CommentView, error)
	UpdateComment(ctx context.Context, id int64, content, actorEmail string) (CommentView, error)
	// DeleteComment removes the comment and its entire reply subtree.
	DeleteComment(ctx context.Context, id int64, actorEmail string) error

	// AddBookmark is idempotent: bookmarking an already-bookmarked post is a
	// no-op thanks to the storage-level uniqueness of the (user, post) pair.
	AddBookmark(ctx context.Context, postID int64, actorEmail string) error
	// Bookmarks lists the posts the user bookmarked, most recent first.
	Bookmarks(ctx context.Context, actorEmail string) ([]PostView, error)
	RemoveBookmark(ctx context.Context, postID int64, actorEmail string) error
	IsBookmarked(ctx context.Context, postID int64, actorEmail string) (bool, error)
}
