// Package postgres implements storage.Storage on top of a pgx connection
// pool. Every lookup-then-mutate operation runs inside a single transaction,
// and cascading deletes are issued explicitly in the same transaction as the
// triggering delete rather than being left to foreign-key actions.
package postgres

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"board/pkg/storage"
)

//go:embed schema.sql
var schemaFS embed.FS

// uniqueViolation is the postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

const postViewQuery = `
	SELECT p.id, p.title, p.content, p.created_at, p.updated_at, u.nickname, c.name
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id
`

const commentViewQuery = `
	SELECT c.id, c.content, c.created_at, c.updated_at, COALESCE(u.nickname, ''),
	       c.post_id, c.parent_id,
	       (SELECT COUNT(*) FROM comments ch WHERE ch.parent_id = c.id)
	FROM comments c
	LEFT JOIN users u ON u.id = c.author_id
`

type Store struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, conStr string) (*Store, error) {
	db, err := pgxpool.Connect(ctx, conStr)
	if err != nil {
		return nil, err
	}

	s := Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	sqlBytes, err := fs.ReadFile(schemaFS, "schema.sql")
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, string(sqlBytes))
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) RegisterUser(ctx context.Context, email, passwordHash, nickname string) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, storage.ErrDuplicateEmail
	}

	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE nickname = $1)`, nickname).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, storage.ErrDuplicateNickname
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, nickname, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		email,
		passwordHash,
		nickname,
		storage.RoleUser,
		time.Now(),
	).Scan(&id)
	if err != nil {
		// A concurrent registration can slip past the checks above; the
		// unique indexes catch it.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_nickname_key" {
				return 0, storage.ErrDuplicateNickname
			}
			return 0, storage.ErrDuplicateEmail
		}
		return 0, err
	}

	return id, tx.Commit(ctx)
}

func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash, nickname string) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (email, password_hash, nickname, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		email,
		passwordHash,
		nickname,
		storage.RoleAdmin,
		time.Now(),
	)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (s *Store) DeleteUser(ctx context.Context, email string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrUserNotFound
		}
		return err
	}

	// Comment subtrees rooted at the user's posts go first, then bookmarks on
	// those posts, then the posts themselves.
	_, err = tx.Exec(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT c.id FROM comments c
			JOIN posts p ON p.id = c.post_id
			WHERE p.author_id = $1
			UNION
			SELECT c.id FROM comments c
			JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM subtree)
	`, userID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		DELETE FROM bookmarks
		WHERE user_id = $1
		   OR post_id IN (SELECT id FROM posts WHERE author_id = $1)
	`, userID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM posts WHERE author_id = $1`, userID)
	if err != nil {
		return err
	}
	// Comments on surviving posts keep the thread shape; only authorship is
	// cleared.
	_, err = tx.Exec(ctx, `UPDATE comments SET author_id = NULL WHERE author_id = $1`, userID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) AddCategory(ctx context.Context, name string) (storage.Category, error) {
	var c storage.Category
	err := s.db.QueryRow(ctx, `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, name
	`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.Category{}, storage.ErrDuplicateCategory
		}
		return storage.Category{}, err
	}

	return c, nil
}

func (s *Store) Categories(ctx context.Context) ([]storage.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []storage.Category{}
	for rows.Next() {
		var c storage.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrCategoryNotFound
	}

	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE category_id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return storage.ErrCategoryInUse
	}

	_, err = tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) AddPost(ctx context.Context, in storage.PostInput, authorEmail string) (storage.PostView, error) {
	if in.Title == "" || in.Content == "" || in.CategoryID == 0 {
		return storage.PostView{}, storage.ErrMissingField
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storage.PostView{}, err
	}
	defer tx.Rollback(ctx)

	var authorID int64
	var nickname string
	err = tx.QueryRow(ctx, `SELECT id, nickname FROM users WHERE email = $1`, authorEmail).Scan(&authorID, &nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.PostView{}, storage.ErrUserNotFound
		}
		return storage.PostView{}, err
	}

	var categoryName string
	err = tx.QueryRow(ctx, `SELECT name FROM categories WHERE id = $1`, in.CategoryID).Scan(&categoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.PostView{}, storage.ErrCategoryNotFound
		}
		return storage.PostView{}, err
	}

	now := time.Now()
	view := storage.PostView{
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Author:    nickname,
		Category:  categoryName,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO posts (title, content, created_at, updated_at, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		in.Title,
		in.Content,
		now,
		now,
		authorID,
		in.CategoryID,
	).Scan(&view.ID)
	if err != nil {
		return storage.PostView{}, err
	}

	return view, tx.Commit(ctx)
}

func (s *Store) Post(ctx context.Context, id int64) (storage.PostView, error) {
	view, err := scanPostView(s.db.QueryRow(ctx, postViewQuery+`WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.PostView{}, storage.ErrPostNotFound
		}
		return storage.PostView{}, err
	}

	return view, nil
}

func (s *Store) Posts(ctx context.Context, page, limit int) ([]storage.PostView, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	offset := (page - 1) * limit

	rows, err := s.db.Query(ctx, postViewQuery+`
		ORDER BY p.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	views := []storage.PostView{}
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var totalPosts int
	err = s.db.QueryRow(ctx, `SELECT COUNT(id) FROM posts`).Scan(&totalPosts)
	if err != nil {
		return nil, 0, err
	}

	numPages := (totalPosts + limit - 1) / limit
	return views, numPages, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, patch storage.PostPatch, actorEmail string) (storage.PostView, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storage.PostView{}, err
	}
	defer tx.Rollback(ctx)

	var title, content, authorEmail string
	var categoryID int64
	err = tx.QueryRow(ctx, `
		SELECT p.title, p.content, p.category_id, u.email
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id).Scan(&title, &content, &categoryID, &authorEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.PostView{}, storage.ErrPostNotFound
		}
		return storage.PostView{}, err
	}
	if authorEmail != actorEmail {
		return storage.PostView{}, storage.ErrNotAuthorized
	}

	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Content != nil {
		content = *patch.Content
	}
	if patch.CategoryID != nil {
		var exists bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, *patch.CategoryID).Scan(&exists)
		if err != nil {
			return storage.PostView{}, err
		}
		if !exists {
			return storage.PostView{}, storage.ErrCategoryNotFound
		}
		categoryID = *patch.CategoryID
	}

	_, err = tx.Exec(ctx, `
		UPDATE posts
		SET title = $2, content = $3, category_id = $4, updated_at = $5
		WHERE id = $1
	`,
		id,
		title,
		content,
		categoryID,
		time.Now(),
	)
	if err != nil {
		return storage.PostView{}, err
	}

	view, err := scanPostView(tx.QueryRow(ctx, postViewQuery+`WHERE p.id = $1`, id))
	if err != nil {
		return storage.PostView{}, err
	}

	return view, tx.Commit(ctx)
}

func (s *Store) DeletePost(ctx context.Context, id int64, actorEmail string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var authorEmail string
	err = tx.QueryRow(ctx, `
		SELECT u.email
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id).Scan(&authorEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrPostNotFound
		}
		return err
	}
	if authorEmail != actorEmail {
		return storage.ErrNotAuthorized
	}

	if err := deletePostDependents(ctx, tx, id); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) AddComment(ctx context.Context, in storage.CommentInput, authorEmail string) (storage.CommentView, error) {
	if in.Content == "" {
		return storage.CommentView{}, storage.ErrMissingField
	}
	if (in.PostID == nil) == (in.ParentID == nil) {
		return storage.CommentView{}, storage.ErrMissingField
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storage.CommentView{}, err
	}
	defer tx.Rollback(ctx)

	var authorID int64
	var nickname string
	err = tx.QueryRow(ctx, `SELECT id, nickname FROM users WHERE email = $1`, authorEmail).Scan(&authorID, &nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.CommentView{}, storage.ErrUserNotFound
		}
		return storage.CommentView{}, err
	}

	var exists bool
	if in.PostID != nil {
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, *in.PostID).Scan(&exists)
		if err != nil {
			return storage.CommentView{}, err
		}
		if !exists {
			return storage.CommentView{}, storage.ErrPostNotFound
		}
	}
	if in.ParentID != nil {
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, *in.ParentID).Scan(&exists)
		if err != nil {
			return storage.CommentView{}, err
		}
		if !exists {
			return storage.CommentView{}, storage.ErrCommentNotFound
		}
	}

	now := time.Now()
	view := storage.CommentView{
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Author:    nickname,
		PostID:    in.PostID,
		ParentID:  in.ParentID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO comments (content, created_at, updated_at, author_id, post_id, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		in.Content,
		now,
		now,
		authorID,
		in.PostID,
		in.ParentID,
	).Scan(&view.ID)
	if err != nil {
		return storage.CommentView{}, err
	}

	return view, tx.Commit(ctx)
}

func (s *Store) PostComments(ctx context.Context, postID int64) ([]storage.CommentView, error) {
	return s.commentViews(ctx, commentViewQuery+`WHERE c.post_id = $1 ORDER BY c.id DESC`, postID)
}

func (s *Store) Replies(ctx context.Context, parentID int64) ([]storage.CommentView, error) {
	return s.commentViews(ctx, commentViewQuery+`WHERE c.parent_id = $1 ORDER BY c.id DESC`, parentID)
}

func (s *Store) UpdateComment(ctx context.Context, id int64, content, actorEmail string) (storage.CommentView, error) {
	if content == "" {
		return storage.CommentView{}, storage.ErrMissingField
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storage.CommentView{}, err
	}
	defer tx.Rollback(ctx)

	authorEmail, err := commentAuthor(ctx, tx, id)
	if err != nil {
		return storage.CommentView{}, err
	}
	if authorEmail != actorEmail {
		return storage.CommentView{}, storage.ErrNotAuthorized
	}

	_, err = tx.Exec(ctx, `
		UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1
	`,
		id,
		content,
		time.Now(),
	)
	if err != nil {
		return storage.CommentView{}, err
	}

	view, err := scanCommentView(tx.QueryRow(ctx, commentViewQuery+`WHERE c.id = $1`, id))
	if err != nil {
		return storage.CommentView{}, err
	}

	return view, tx.Commit(ctx)
}

func (s *Store) DeleteComment(ctx context.Context, id int64, actorEmail string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	authorEmail, err := commentAuthor(ctx, tx, id)
	if err != nil {
		return err
	}
	if authorEmail != actorEmail {
		return storage.ErrNotAuthorized
	}

	_, err = tx.Exec(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT id FROM comments WHERE id = $1
			UNION
			SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM subtree)
	`, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) AddBookmark(ctx context.Context, postID int64, actorEmail string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	userID, err := resolveBookmarkPair(ctx, tx, postID, actorEmail)
	if err != nil {
		return err
	}

	// The UNIQUE (user_id, post_id) constraint makes concurrent duplicate
	// creates collapse into one row.
	_, err = tx.Exec(ctx, `
		INSERT INTO bookmarks (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, userID, postID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) Bookmarks(ctx context.Context, actorEmail string) ([]storage.PostView, error) {
	var userID int64
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, actorEmail).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.title, p.content, p.created_at, p.updated_at, u.nickname, c.name
		FROM bookmarks b
		JOIN posts p ON p.id = b.post_id
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE b.user_id = $1
		ORDER BY b.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []storage.PostView{}
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}

func (s *Store) RemoveBookmark(ctx context.Context, postID int64, actorEmail string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	userID, err := resolveBookmarkPair(ctx, tx, postID, actorEmail)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrBookmarkNotFound
	}

	return tx.Commit(ctx)
}

func (s *Store) IsBookmarked(ctx context.Context, postID int64, actorEmail string) (bool, error) {
	var bookmarked bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookmarks b
			JOIN users u ON u.id = b.user_id
			WHERE b.post_id = $1 AND u.email = $2
		)
	`, postID, actorEmail).Scan(&bookmarked)
	if err != nil {
		return false, err
	}

	return bookmarked, nil
}

func (s *Store) commentViews(ctx context.Context, query string, arg any) ([]storage.CommentView, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []storage.CommentView{}
	for rows.Next() {
		view, err := scanCommentView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}

// deletePostDependents removes the comment subtrees and bookmarks hanging off
// a post inside the caller's transaction.
func deletePostDependents(ctx context.Context, tx pgx.Tx, postID int64) error {
	_, err := tx.Exec(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT id FROM comments WHERE post_id = $1
			UNION
			SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM subtree)
	`, postID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM bookmarks WHERE post_id = $1`, postID)
	return err
}

// commentAuthor returns the author email of a comment, empty when the author
// account no longer exists.
func commentAuthor(ctx context.Context, tx pgx.Tx, id int64) (string, error) {
	var email string
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(u.email, '')
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`, id).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrCommentNotFound
		}
		return "", err
	}

	return email, nil
}

// resolveBookmarkPair validates the post in post-then-user order and returns
// the acting user's ID.
func resolveBookmarkPair(ctx context.Context, tx pgx.Tx, postID int64, actorEmail string) (int64, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, storage.ErrPostNotFound
	}

	var userID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, actorEmail).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrUserNotFound
		}
		return 0, err
	}

	return userID, nil
}

func scanPostView(row pgx.Row) (storage.PostView, error) {
	var view storage.PostView
	err := row.Scan(
		&view.ID,
		&view.Title,
		&view.Content,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Author,
		&view.Category,
	)
	if err != nil {
		return storage.PostView{}, err
	}
	view.CreatedAt = view.CreatedAt.UTC()
	view.UpdatedAt = view.UpdatedAt.UTC()

	return view, nil
}

func scanCommentView(row pgx.Row) (storage.CommentView, error) {
	var view storage.CommentView
	err := row.Scan(
		&view.ID,
		&view.Content,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Author,
		&view.PostID,
		&view.ParentID,
		&view.ChildCount,
	)
	if err != nil {
		return storage.CommentView{}, err
	}
	view.CreatedAt = view.CreatedAt.UTC()
	view.UpdatedAt = view.UpdatedAt.UTC()

	return view, nil
}
