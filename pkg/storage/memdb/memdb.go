// Package memdb implements storage.Storage with in-memory maps. It backs the
// -dev server mode and the handler tests.
package memdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"board/pkg/storage"
)

type user struct {
	id           int64
	email        string
	passwordHash string
	nickname     string
	role         string
	createdAt    time.Time
}

type post struct {
	id         int64
	title      string
	content    string
	createdAt  time.Time
	updatedAt  time.Time
	authorID   int64
	categoryID int64
}

// authorID 0 means the account was deleted after writing the comment.
type comment struct {
	id        int64
	content   string
	createdAt time.Time
	updatedAt time.Time
	authorID  int64
	postID    *int64
	parentID  *int64
}

type bookmark struct {
	id     int64
	userID int64
	postID int64
}

type Store struct {
	mu         sync.Mutex
	users      map[int64]user
	categories map[int64]storage.Category
	posts      map[int64]post
	comments   map[int64]comment
	bookmarks  map[int64]bookmark

	// children indexes direct replies by parent comment ID so reply listing
	// and subtree deletes do not scan the whole comment arena.
	children map[int64][]int64

	lastUserID     int64
	lastCategoryID int64
	lastPostID     int64
	lastCommentID  int64
	lastBookmarkID int64
}

func New() *Store {
	return &Store{
		users:      make(map[int64]user),
		categories: make(map[int64]storage.Category),
		posts:      make(map[int64]post),
		comments:   make(map[int64]comment),
		bookmarks:  make(map[int64]bookmark),
		children:   make(map[int64][]int64),
	}
}

func (db *Store) Ping(ctx context.Context) error { return nil }

func (db *Store) Close() {}

func (db *Store) RegisterUser(ctx context.Context, email, passwordHash, nickname string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.email == email {
			return 0, storage.ErrDuplicateEmail
		}
	}
	for _, u := range db.users {
		if u.nickname == nickname {
			return 0, storage.ErrDuplicateNickname
		}
	}

	db.lastUserID++
	u := user{
		id:           db.lastUserID,
		email:        email,
		passwordHash: passwordHash,
		nickname:     nickname,
		role:         storage.RoleUser,
		createdAt:    time.Now(),
	}
	db.users[u.id] = u

	return u.id, nil
}

func (db *Store) EnsureAdmin(ctx context.Context, email, passwordHash, nickname string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.email == email {
			return false, nil
		}
	}

	db.lastUserID++
	u := user{
		id:           db.lastUserID,
		email:        email,
		passwordHash: passwordHash,
		nickname:     nickname,
		role:         storage.RoleAdmin,
		createdAt:    time.Now(),
	}
	db.users[u.id] = u

	return true, nil
}

func (db *Store) DeleteUser(ctx context.Context, email string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.userByEmail(email)
	if !ok {
		return storage.ErrUserNotFound
	}

	for id, p := range db.posts {
		if p.authorID == u.id {
			db.deletePost(id)
		}
	}
	for id, b := range db.bookmarks {
		if b.userID == u.id {
			delete(db.bookmarks, id)
		}
	}
	// Comments on other users' posts stay to preserve thread structure; only
	// the authorship link is cleared.
	for id, c := range db.comments {
		if c.authorID == u.id {
			c.authorID = 0
			db.comments[id] = c
		}
	}
	delete(db.users, u.id)

	return nil
}

func (db *Store) AddCategory(ctx context.Context, name string) (storage.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, c := range db.categories {
		if c.Name == name {
			return storage.Category{}, storage.ErrDuplicateCategory
		}
	}

	db.lastCategoryID++
	c := storage.Category{ID: db.lastCategoryID, Name: name}
	db.categories[c.ID] = c

	return c, nil
}

func (db *Store) Categories(ctx context.Context) ([]storage.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	categories := make([]storage.Category, 0, len(db.categories))
	for _, c := range db.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

func (db *Store) DeleteCategory(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.categories[id]; !ok {
		return storage.ErrCategoryNotFound
	}
	for _, p := range db.posts {
		if p.categoryID == id {
			return storage.ErrCategoryInUse
		}
	}
	delete(db.categories, id)

	return nil
}

func (db *Store) AddPost(ctx context.Context, in storage.PostInput, authorEmail string) (storage.PostView, error) {
	if in.Title == "" || in.Content == "" || in.CategoryID == 0 {
		return storage.PostView{}, storage.ErrMissingField
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.userByEmail(authorEmail)
	if !ok {
		return storage.PostView{}, storage.ErrUserNotFound
	}
	if _, ok := db.categories[in.CategoryID]; !ok {
		return storage.PostView{}, storage.ErrCategoryNotFound
	}

	now := time.Now()
	db.lastPostID++
	p := post{
		id:         db.lastPostID,
		title:      in.Title,
		content:    in.Content,
		createdAt:  now,
		updatedAt:  now,
		authorID:   u.id,
		categoryID: in.CategoryID,
	}
	db.posts[p.id] = p

	return db.postView(p), nil
}

func (db *Store) Post(ctx context.Context, id int64) (storage.PostView, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.posts[id]
	if !ok {
		return storage.PostView{}, storage.ErrPostNotFound
	}

	return db.postView(p), nil
}

func (db *Store) Posts(ctx context.Context, page, limit int) ([]storage.PostView, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	all := make([]post, 0, len(db.posts))
	for _, p := range db.posts {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].id > all[j].id })

	numPages := (len(all) + limit - 1) / limit

	start := (page - 1) * limit
	if start >= len(all) {
		return []storage.PostView{}, numPages, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	views := make([]storage.PostView, 0, end-start)
	for _, p := range all[start:end] {
		views = append(views, db.postView(p))
	}

	return views, numPages, nil
}

func (db *Store) UpdatePost(ctx context.Context, id int64, patch storage.PostPatch, actorEmail string) (storage.PostView, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.posts[id]
	if !ok {
		return storage.PostView{}, storage.ErrPostNotFound
	}
	author, ok := db.users[p.authorID]
	if !ok || author.email != actorEmail {
		return storage.PostView{}, storage.ErrNotAuthorized
	}

	if patch.Title != nil {
		p.title = *patch.Title
	}
	if patch.Content != nil {
		p.content = *patch.Content
	}
	if patch.CategoryID != nil {
		if _, ok := db.categories[*patch.CategoryID]; !ok {
			return storage.PostView{}, storage.ErrCategoryNotFound
		}
		p.categoryID = *patch.CategoryID
	}
	p.updatedAt = time.Now()
	db.posts[id] = p

	return db.postView(p), nil
}

func (db *Store) DeletePost(ctx context.Context, id int64, actorEmail string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.posts[id]
	if !ok {
		return storage.ErrPostNotFound
	}
	author, ok := db.users[p.authorID]
	if !ok || author.email != actorEmail {
		return storage.ErrNotAuthorized
	}
	db.deletePost(id)

	return nil
}

func (db *Store) AddComment(ctx context.Context, in storage.CommentInput, authorEmail string) (storage.CommentView, error) {
	if in.Content == "" {
		return storage.CommentView{}, storage.ErrMissingField
	}
	if (in.PostID == nil) == (in.ParentID == nil) {
		return storage.CommentView{}, storage.ErrMissingField
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.userByEmail(authorEmail)
	if !ok {
		return storage.CommentView{}, storage.ErrUserNotFound
	}
	if in.PostID != nil {
		if _, ok := db.posts[*in.PostID]; !ok {
			return storage.CommentView{}, storage.ErrPostNotFound
		}
	}
	if in.ParentID != nil {
		if _, ok := db.comments[*in.ParentID]; !ok {
			return storage.CommentView{}, storage.ErrCommentNotFound
		}
	}

	now := time.Now()
	db.lastCommentID++
	c := comment{
		id:        db.lastCommentID,
		content:   in.Content,
		createdAt: now,
		updatedAt: now,
		authorID:  u.id,
		postID:    in.PostID,
		parentID:  in.ParentID,
	}
	db.comments[c.id] = c
	if c.parentID != nil {
		db.children[*c.parentID] = append(db.children[*c.parentID], c.id)
	}

	return db.commentView(c), nil
}

func (db *Store) PostComments(ctx context.Context, postID int64) ([]storage.CommentView, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	views := []storage.CommentView{}
	for _, c := range db.comments {
		if c.postID != nil && *c.postID == postID {
			views = append(views, db.commentView(c))
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID > views[j].ID })

	return views, nil
}

func (db *Store) Replies(ctx context.Context, parentID int64) ([]storage.CommentView, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	ids := db.children[parentID]
	views := make([]storage.CommentView, 0, len(ids))
	// children are appended in creation order, so walk backwards for
	// newest-id-first.
	for i := len(ids) - 1; i >= 0; i-- {
		views = append(views, db.commentView(db.comments[ids[i]]))
	}

	return views, nil
}

func (db *Store) UpdateComment(ctx context.Context, id int64, content, actorEmail string) (storage.CommentView, error) {
	if content == "" {
		return storage.CommentView{}, storage.ErrMissingField
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.comments[id]
	if !ok {
		return storage.CommentView{}, storage.ErrCommentNotFound
	}
	author, ok := db.users[c.authorID]
	if !ok || author.email != actorEmail {
		return storage.CommentView{}, storage.ErrNotAuthorized
	}

	c.content = content
	c.updatedAt = time.Now()
	db.comments[id] = c

	return db.commentView(c), nil
}

func (db *Store) DeleteComment(ctx context.Context, id int64, actorEmail string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.comments[id]
	if !ok {
		return storage.ErrCommentNotFound
	}
	author, ok := db.users[c.authorID]
	if !ok || author.email != actorEmail {
		return storage.ErrNotAuthorized
	}
	db.deleteCommentTree(id)
	if c.parentID != nil {
		db.children[*c.parentID] = removeID(db.children[*c.parentID], id)
	}

	return nil
}

func (db *Store) AddBookmark(ctx context.Context, postID int64, actorEmail string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.posts[postID]; !ok {
		return storage.ErrPostNotFound
	}
	u, ok := db.userByEmail(actorEmail)
	if !ok {
		return storage.ErrUserNotFound
	}
	for _, b := range db.bookmarks {
		if b.userID == u.id && b.postID == postID {
			return nil
		}
	}

	db.lastBookmarkID++
	db.bookmarks[db.lastBookmarkID] = bookmark{id: db.lastBookmarkID, userID: u.id, postID: postID}

	return nil
}

func (db *Store) Bookmarks(ctx context.Context, actorEmail string) ([]storage.PostView, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.userByEmail(actorEmail)
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	marks := []bookmark{}
	for _, b := range db.bookmarks {
		if b.userID == u.id {
			marks = append(marks, b)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].id > marks[j].id })

	views := make([]storage.PostView, 0, len(marks))
	for _, b := range marks {
		views = append(views, db.postView(db.posts[b.postID]))
	}

	return views, nil
}

func (db *Store) RemoveBookmark(ctx context.Context, postID int64, actorEmail string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.posts[postID]; !ok {
		return storage.ErrPostNotFound
	}
	u, ok := db.userByEmail(actorEmail)
	if !ok {
		return storage.ErrUserNotFound
	}
	for id, b := range db.bookmarks {
		if b.userID == u.id && b.postID == postID {
			delete(db.bookmarks, id)
			return nil
		}
	}

	return storage.ErrBookmarkNotFound
}

func (db *Store) IsBookmarked(ctx context.Context, postID int64, actorEmail string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.userByEmail(actorEmail)
	if !ok {
		return false, nil
	}
	for _, b := range db.bookmarks {
		if b.userID == u.id && b.postID == postID {
			return true, nil
		}
	}

	return false, nil
}

// userByEmail must be called with the lock held.
func (db *Store) userByEmail(email string) (user, bool) {
	for _, u := range db.users {
		if u.email == email {
			return u, true
		}
	}
	return user{}, false
}

// deletePost removes the post together with its comment subtrees and
// bookmarks. The lock must be held.
func (db *Store) deletePost(id int64) {
	for cid, c := range db.comments {
		if c.postID != nil && *c.postID == id {
			db.deleteCommentTree(cid)
		}
	}
	for bid, b := range db.bookmarks {
		if b.postID == id {
			delete(db.bookmarks, bid)
		}
	}
	delete(db.posts, id)
}

// deleteCommentTree removes a comment and, depth-first, every reply below it.
// The lock must be held.
func (db *Store) deleteCommentTree(id int64) {
	for _, child := range db.children[id] {
		db.deleteCommentTree(child)
	}
	delete(db.children, id)
	delete(db.comments, id)
}

func (db *Store) postView(p post) storage.PostView {
	return storage.PostView{
		ID:        p.id,
		Title:     p.title,
		Content:   p.content,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
		Author:    db.users[p.authorID].nickname,
		Category:  db.categories[p.categoryID].Name,
	}
}

func (db *Store) commentView(c comment) storage.CommentView {
	return storage.CommentView{
		ID:         c.id,
		Content:    c.content,
		CreatedAt:  c.createdAt,
		UpdatedAt:  c.updatedAt,
		Author:     db.users[c.authorID].nickname,
		PostID:     c.postID,
		ParentID:   c.parentID,
		ChildCount: len(db.children[c.id]),
	}
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
