package memdb

import (
	"context"
	"errors"
	"testing"

	"board/pkg/storage"
)

func seedUser(t *testing.T, db *Store, email, nickname string) {
	t.Helper()
	if _, err := db.RegisterUser(context.Background(), email, "hash", nickname); err != nil {
		t.Fatalf("unexpected error registering user %s: %v", email, err)
	}
}

func seedCategory(t *testing.T, db *Store, name string) storage.Category {
	t.Helper()
	c, err := db.AddCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("unexpected error adding category %s: %v", name, err)
	}
	return c
}

func seedPost(t *testing.T, db *Store, title string, categoryID int64, email string) storage.PostView {
	t.Helper()
	p, err := db.AddPost(context.Background(), storage.PostInput{
		Title:      title,
		Content:    "content of " + title,
		CategoryID: categoryID,
	}, email)
	if err != nil {
		t.Fatalf("unexpected error adding post %s: %v", title, err)
	}
	return p
}

func seedRootComment(t *testing.T, db *Store, postID int64, email string) storage.CommentView {
	t.Helper()
	c, err := db.AddComment(context.Background(), storage.CommentInput{
		Content: "root comment",
		PostID:  &postID,
	}, email)
	if err != nil {
		t.Fatalf("unexpected error adding root comment: %v", err)
	}
	return c
}

func seedReply(t *testing.T, db *Store, parentID int64, email string) storage.CommentView {
	t.Helper()
	c, err := db.AddComment(context.Background(), storage.CommentInput{
		Content:  "reply",
		ParentID: &parentID,
	}, email)
	if err != nil {
		t.Fatalf("unexpected error adding reply: %v", err)
	}
	return c
}

func TestStore_RegisterUser(t *testing.T) {
	db := New()

	if _, err := db.RegisterUser(context.Background(), "a@x.com", "hash", "alice"); err != nil {
		t.Fatalf("unexpected error registering user: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		nickname string
		wantErr  error
	}{
		{name: "Duplicate email", email: "a@x.com", nickname: "other", wantErr: storage.ErrDuplicateEmail},
		{name: "Duplicate nickname", email: "b@x.com", nickname: "alice", wantErr: storage.ErrDuplicateNickname},
		{name: "Duplicate both reports email first", email: "a@x.com", nickname: "alice", wantErr: storage.ErrDuplicateEmail},
		{name: "Case sensitive email", email: "A@x.com", nickname: "alice2", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gotErr := db.RegisterUser(context.Background(), tt.email, "hash", tt.nickname)
			if !errors.Is(gotErr, tt.wantErr) {
				t.Errorf("want error %v, got %v", tt.wantErr, gotErr)
			}
		})
	}
}

func TestStore_EnsureAdmin(t *testing.T) {
	db := New()

	created, err := db.EnsureAdmin(context.Background(), "admin@x.com", "hash", "admin")
	if err != nil {
		t.Fatalf("unexpected error creating admin: %v", err)
	}
	if !created {
		t.Error("want admin to be created on first call")
	}

	created, err = db.EnsureAdmin(context.Background(), "admin@x.com", "hash", "admin")
	if err != nil {
		t.Fatalf("unexpected error on repeated call: %v", err)
	}
	if created {
		t.Error("want repeated call to be a no-op")
	}

	if db.users[1].role != storage.RoleAdmin {
		t.Errorf("want role %s, got %s", storage.RoleAdmin, db.users[1].role)
	}
}

func TestStore_Categories(t *testing.T) {
	db := New()

	for _, name := range []string{"News", "Announcements", "General"} {
		seedCategory(t, db, name)
	}

	if _, err := db.AddCategory(context.Background(), "News"); !errors.Is(err, storage.ErrDuplicateCategory) {
		t.Errorf("want error %v, got %v", storage.ErrDuplicateCategory, err)
	}

	categories, err := db.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error listing categories: %v", err)
	}
	wantOrder := []string{"Announcements", "General", "News"}
	if len(categories) != len(wantOrder) {
		t.Fatalf("want %d categories, got %d", len(wantOrder), len(categories))
	}
	for i, name := range wantOrder {
		if categories[i].Name != name {
			t.Errorf("want category %q at index %d, got %q", name, i, categories[i].Name)
		}
	}
}

func TestStore_DeleteCategory(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")

	if err := db.DeleteCategory(context.Background(), 42); !errors.Is(err, storage.ErrCategoryNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrCategoryNotFound, err)
	}

	if err := db.DeleteCategory(context.Background(), c.ID); !errors.Is(err, storage.ErrCategoryInUse) {
		t.Errorf("want error %v, got %v", storage.ErrCategoryInUse, err)
	}

	// Once the last referencing post is gone the delete succeeds.
	if err := db.DeletePost(context.Background(), p.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error deleting post: %v", err)
	}
	if err := db.DeleteCategory(context.Background(), c.ID); err != nil {
		t.Errorf("unexpected error deleting unused category: %v", err)
	}
}

func TestStore_AddPost(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")

	tests := []struct {
		name    string
		in      storage.PostInput
		email   string
		wantErr error
	}{
		{name: "Missing title", in: storage.PostInput{Content: "c", CategoryID: c.ID}, email: "a@x.com", wantErr: storage.ErrMissingField},
		{name: "Missing content", in: storage.PostInput{Title: "t", CategoryID: c.ID}, email: "a@x.com", wantErr: storage.ErrMissingField},
		{name: "Missing category", in: storage.PostInput{Title: "t", Content: "c"}, email: "a@x.com", wantErr: storage.ErrMissingField},
		{name: "Unknown author", in: storage.PostInput{Title: "t", Content: "c", CategoryID: c.ID}, email: "ghost@x.com", wantErr: storage.ErrUserNotFound},
		{name: "Unknown category", in: storage.PostInput{Title: "t", Content: "c", CategoryID: 42}, email: "a@x.com", wantErr: storage.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gotErr := db.AddPost(context.Background(), tt.in, tt.email)
			if !errors.Is(gotErr, tt.wantErr) {
				t.Errorf("want error %v, got %v", tt.wantErr, gotErr)
			}
		})
	}

	post, err := db.AddPost(context.Background(), storage.PostInput{Title: "Hi", Content: "there", CategoryID: c.ID}, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error adding post: %v", err)
	}
	if post.Author != "alice" {
		t.Errorf("want author nickname %q, got %q", "alice", post.Author)
	}
	if post.Category != "General" {
		t.Errorf("want category name %q, got %q", "General", post.Category)
	}
	if post.CreatedAt.IsZero() || !post.CreatedAt.Equal(post.UpdatedAt) {
		t.Error("want createdAt = updatedAt set on creation")
	}
}

func TestStore_Posts(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")

	titles := []string{"First", "Second", "Third", "Fourth", "Fifth"}
	for _, title := range titles {
		seedPost(t, db, title, c.ID, "a@x.com")
	}

	tests := []struct {
		name         string
		page         int
		limit        int
		wantTitles   []string
		wantNumPages int
	}{
		{name: "First page newest first", page: 1, limit: 2, wantTitles: []string{"Fifth", "Fourth"}, wantNumPages: 3},
		{name: "Second page", page: 2, limit: 2, wantTitles: []string{"Third", "Second"}, wantNumPages: 3},
		{name: "Last page short", page: 3, limit: 2, wantTitles: []string{"First"}, wantNumPages: 3},
		{name: "Page out of range", page: 4, limit: 2, wantTitles: []string{}, wantNumPages: 3},
		{name: "Defaults applied", page: 0, limit: 0, wantTitles: []string{"Fifth", "Fourth", "Third", "Second", "First"}, wantNumPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, numPages, err := db.Posts(context.Background(), tt.page, tt.limit)
			if err != nil {
				t.Fatalf("Posts() returned error: %v", err)
			}
			if numPages != tt.wantNumPages {
				t.Errorf("want numPages %d, got %d", tt.wantNumPages, numPages)
			}
			if len(posts) != len(tt.wantTitles) {
				t.Fatalf("want %d posts, got %d", len(tt.wantTitles), len(posts))
			}
			for i, title := range tt.wantTitles {
				if posts[i].Title != title {
					t.Errorf("want title %q at index %d, got %q", title, i, posts[i].Title)
				}
			}
		})
	}
}

func TestStore_UpdatePost(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	seedUser(t, db, "b@x.com", "bob")
	c := seedCategory(t, db, "General")
	other := seedCategory(t, db, "Random")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")

	newTitle := "Hello"
	badCategory := int64(42)

	if _, err := db.UpdatePost(context.Background(), 42, storage.PostPatch{}, "a@x.com"); !errors.Is(err, storage.ErrPostNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrPostNotFound, err)
	}
	if _, err := db.UpdatePost(context.Background(), p.ID, storage.PostPatch{Title: &newTitle}, "b@x.com"); !errors.Is(err, storage.ErrNotAuthorized) {
		t.Errorf("want error %v, got %v", storage.ErrNotAuthorized, err)
	}
	if _, err := db.UpdatePost(context.Background(), p.ID, storage.PostPatch{CategoryID: &badCategory}, "a@x.com"); !errors.Is(err, storage.ErrCategoryNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrCategoryNotFound, err)
	}

	// Only the patched fields change.
	got, err := db.UpdatePost(context.Background(), p.ID, storage.PostPatch{Title: &newTitle}, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error updating post: %v", err)
	}
	if got.Title != newTitle {
		t.Errorf("want title %q, got %q", newTitle, got.Title)
	}
	if got.Content != p.Content {
		t.Errorf("want content unchanged %q, got %q", p.Content, got.Content)
	}
	if got.Category != "General" {
		t.Errorf("want category unchanged %q, got %q", "General", got.Category)
	}
	if got.UpdatedAt.Before(p.UpdatedAt) {
		t.Error("want updatedAt refreshed")
	}

	got, err = db.UpdatePost(context.Background(), p.ID, storage.PostPatch{CategoryID: &other.ID}, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error updating category: %v", err)
	}
	if got.Category != "Random" {
		t.Errorf("want category %q, got %q", "Random", got.Category)
	}
}

func TestStore_DeletePost(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	seedUser(t, db, "b@x.com", "bob")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")
	keep := seedPost(t, db, "Keep", c.ID, "a@x.com")

	root := seedRootComment(t, db, p.ID, "b@x.com")
	reply := seedReply(t, db, root.ID, "a@x.com")
	seedReply(t, db, reply.ID, "b@x.com")
	keepComment := seedRootComment(t, db, keep.ID, "b@x.com")

	if err := db.AddBookmark(context.Background(), p.ID, "b@x.com"); err != nil {
		t.Fatalf("unexpected error adding bookmark: %v", err)
	}
	if err := db.AddBookmark(context.Background(), keep.ID, "b@x.com"); err != nil {
		t.Fatalf("unexpected error adding bookmark: %v", err)
	}

	if err := db.DeletePost(context.Background(), 42, "a@x.com"); !errors.Is(err, storage.ErrPostNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrPostNotFound, err)
	}
	if err := db.DeletePost(context.Background(), p.ID, "b@x.com"); !errors.Is(err, storage.ErrNotAuthorized) {
		t.Errorf("want error %v, got %v", storage.ErrNotAuthorized, err)
	}

	if err := db.DeletePost(context.Background(), p.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error deleting post: %v", err)
	}

	// The whole comment tree and the bookmarks of the deleted post are gone,
	// the other post's are untouched.
	if len(db.comments) != 1 {
		t.Errorf("want 1 comment left, got %d", len(db.comments))
	}
	if _, ok := db.comments[keepComment.ID]; !ok {
		t.Error("comment on surviving post was removed")
	}
	if len(db.bookmarks) != 1 {
		t.Errorf("want 1 bookmark left, got %d", len(db.bookmarks))
	}
	bookmarked, _ := db.IsBookmarked(context.Background(), keep.ID, "b@x.com")
	if !bookmarked {
		t.Error("bookmark on surviving post was removed")
	}
}

func TestStore_AddComment(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")
	root := seedRootComment(t, db, p.ID, "a@x.com")

	postID := p.ID
	parentID := root.ID
	badID := int64(42)

	tests := []struct {
		name    string
		in      storage.CommentInput
		email   string
		wantErr error
	}{
		{name: "Missing content", in: storage.CommentInput{PostID: &postID}, email: "a@x.com", wantErr: storage.ErrMissingField},
		{name: "Neither target", in: storage.CommentInput{Content: "c"}, email: "a@x.com", wantErr: storage.ErrMissingField},
		{name: "Both targets", in: storage.CommentInput{Content: "c", PostID: &postID, ParentID: &parentID}, email: "a@x.com", wantErr: storage.ErrMissingField},
		{name: "Unknown author", in: storage.CommentInput{Content: "c", PostID: &postID}, email: "ghost@x.com", wantErr: storage.ErrUserNotFound},
		{name: "Unknown post", in: storage.CommentInput{Content: "c", PostID: &badID}, email: "a@x.com", wantErr: storage.ErrPostNotFound},
		{name: "Unknown parent", in: storage.CommentInput{Content: "c", ParentID: &badID}, email: "a@x.com", wantErr: storage.ErrCommentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gotErr := db.AddComment(context.Background(), tt.in, tt.email)
			if !errors.Is(gotErr, tt.wantErr) {
				t.Errorf("want error %v, got %v", tt.wantErr, gotErr)
			}
		})
	}

	reply, err := db.AddComment(context.Background(), storage.CommentInput{Content: "reply", ParentID: &parentID}, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error adding reply: %v", err)
	}
	if reply.PostID != nil {
		t.Error("want reply post reference unset")
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("want parent reference %d, got %v", root.ID, reply.ParentID)
	}
}

func TestStore_PostComments(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")

	first := seedRootComment(t, db, p.ID, "a@x.com")
	second := seedRootComment(t, db, p.ID, "a@x.com")
	seedReply(t, db, first.ID, "a@x.com")
	seedReply(t, db, first.ID, "a@x.com")
	nested := seedReply(t, db, second.ID, "a@x.com")
	seedReply(t, db, nested.ID, "a@x.com")

	comments, err := db.PostComments(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error listing comments: %v", err)
	}

	// Roots only, newest first; replies of replies are not counted.
	if len(comments) != 2 {
		t.Fatalf("want 2 root comments, got %d", len(comments))
	}
	if comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Errorf("want order [%d %d], got [%d %d]", second.ID, first.ID, comments[0].ID, comments[1].ID)
	}
	if comments[0].ChildCount != 1 {
		t.Errorf("want childCount 1, got %d", comments[0].ChildCount)
	}
	if comments[1].ChildCount != 2 {
		t.Errorf("want childCount 2, got %d", comments[1].ChildCount)
	}

	empty, err := db.PostComments(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error listing comments of unknown post: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("want empty list for unknown post, got %d items", len(empty))
	}
}

func TestStore_Replies(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")
	root := seedRootComment(t, db, p.ID, "a@x.com")

	first := seedReply(t, db, root.ID, "a@x.com")
	second := seedReply(t, db, root.ID, "a@x.com")
	seedReply(t, db, first.ID, "a@x.com")

	replies, err := db.Replies(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("unexpected error listing replies: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("want 2 direct replies, got %d", len(replies))
	}
	if replies[0].ID != second.ID || replies[1].ID != first.ID {
		t.Errorf("want order [%d %d], got [%d %d]", second.ID, first.ID, replies[0].ID, replies[1].ID)
	}
}

func TestStore_UpdateComment(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	seedUser(t, db, "b@x.com", "bob")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")
	root := seedRootComment(t, db, p.ID, "a@x.com")

	if _, err := db.UpdateComment(context.Background(), 42, "new", "a@x.com"); !errors.Is(err, storage.ErrCommentNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrCommentNotFound, err)
	}
	if _, err := db.UpdateComment(context.Background(), root.ID, "new", "b@x.com"); !errors.Is(err, storage.ErrNotAuthorized) {
		t.Errorf("want error %v, got %v", storage.ErrNotAuthorized, err)
	}

	got, err := db.UpdateComment(context.Background(), root.ID, "edited", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error updating comment: %v", err)
	}
	if got.Content != "edited" {
		t.Errorf("want content %q, got %q", "edited", got.Content)
	}
	if got.UpdatedAt.Before(root.UpdatedAt) {
		t.Error("want updatedAt refreshed")
	}
}

func TestStore_DeleteComment(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	seedUser(t, db, "b@x.com", "bob")
	c := seedCategory(t, db, "General")
	p := seedPost(t, db, "Hi", c.ID, "a@x.com")

	root := seedRootComment(t, db, p.ID, "a@x.com")
	reply := seedReply(t, db, root.ID, "b@x.com")
	seedReply(t, db, reply.ID, "a@x.com")
	sibling := seedReply(t, db, root.ID, "a@x.com")

	if err := db.DeleteComment(context.Background(), root.ID, "b@x.com"); !errors.Is(err, storage.ErrNotAuthorized) {
		t.Errorf("want error %v, got %v", storage.ErrNotAuthorized, err)
	}

	// Deleting a reply removes its own subtree but not the parent or siblings.
	if err := db.DeleteComment(context.Background(), reply.ID, "b@x.com"); err != nil {
		t.Fatalf("unexpected error deleting reply: %v", err)
	}
	if _, ok := db.comments[root.ID]; !ok {
		t.Error("parent removed with reply")
	}
	if _, ok := db.comments[sibling.ID]; !ok {
		t.Error("sibling removed with reply")
	}
	if len(db.comments) != 2 {
		t.Errorf("want 2 comments left, got %d", len(db.comments))
	}

	roots, err := db.PostComments(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error listing comments: %v", err)
	}
	if roots[0].ChildCount != 1 {
		t.Errorf("want childCount 1 after reply removal, got %d", roots[0].ChildCount)
	}

	// Deleting the root wipes the remaining subtree.
	if err := db.DeleteComment(context.Background(), root.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error deleting root: %v", err)
	}
	if len(db.comments) != 0 {
		t.Errorf("want no comments left, got %d", len(db.comments))
	}
	replies, err := db.Replies(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("unexpected error listing replies: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("want no replies after root deletion, got %d", len(replies))
	}
}

func TestStore_Bookmarks(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	c := seedCategory(t, db, "General")
	first := seedPost(t, db, "First", c.ID, "a@x.com")
	second := seedPost(t, db, "Second", c.ID, "a@x.com")

	if err := db.AddBookmark(context.Background(), 42, "a@x.com"); !errors.Is(err, storage.ErrPostNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrPostNotFound, err)
	}
	if err := db.AddBookmark(context.Background(), first.ID, "ghost@x.com"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrUserNotFound, err)
	}

	if err := db.AddBookmark(context.Background(), first.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error adding bookmark: %v", err)
	}
	bookmarked, err := db.IsBookmarked(context.Background(), first.ID, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error checking bookmark: %v", err)
	}
	if !bookmarked {
		t.Error("want bookmark to exist after create")
	}

	// Duplicate create is a no-op.
	if err := db.AddBookmark(context.Background(), first.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error on duplicate bookmark: %v", err)
	}
	if len(db.bookmarks) != 1 {
		t.Errorf("want 1 bookmark after duplicate create, got %d", len(db.bookmarks))
	}

	if err := db.AddBookmark(context.Background(), second.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error adding bookmark: %v", err)
	}

	posts, err := db.Bookmarks(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error listing bookmarks: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("want 2 bookmarked posts, got %d", len(posts))
	}
	// Most recently bookmarked first.
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Errorf("want order [%d %d], got [%d %d]", second.ID, first.ID, posts[0].ID, posts[1].ID)
	}

	if err := db.RemoveBookmark(context.Background(), first.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error removing bookmark: %v", err)
	}
	bookmarked, _ = db.IsBookmarked(context.Background(), first.ID, "a@x.com")
	if bookmarked {
		t.Error("want bookmark gone after remove")
	}
	if err := db.RemoveBookmark(context.Background(), first.ID, "a@x.com"); !errors.Is(err, storage.ErrBookmarkNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrBookmarkNotFound, err)
	}
}

func TestStore_DeleteUser(t *testing.T) {
	db := New()
	seedUser(t, db, "a@x.com", "alice")
	seedUser(t, db, "b@x.com", "bob")
	c := seedCategory(t, db, "General")

	alicePost := seedPost(t, db, "Alice post", c.ID, "a@x.com")
	bobPost := seedPost(t, db, "Bob post", c.ID, "b@x.com")

	// Alice comments on Bob's post, Bob comments on Alice's.
	aliceComment := seedRootComment(t, db, bobPost.ID, "a@x.com")
	seedRootComment(t, db, alicePost.ID, "b@x.com")

	if err := db.AddBookmark(context.Background(), bobPost.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error adding bookmark: %v", err)
	}
	if err := db.AddBookmark(context.Background(), alicePost.ID, "b@x.com"); err != nil {
		t.Fatalf("unexpected error adding bookmark: %v", err)
	}

	if err := db.DeleteUser(context.Background(), "ghost@x.com"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("want error %v, got %v", storage.ErrUserNotFound, err)
	}

	if err := db.DeleteUser(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("unexpected error deleting user: %v", err)
	}

	// Alice's post, both bookmarks, and the comment on her post are gone.
	if _, ok := db.posts[alicePost.ID]; ok {
		t.Error("want alice's post removed")
	}
	if _, ok := db.posts[bobPost.ID]; !ok {
		t.Error("want bob's post kept")
	}
	if len(db.bookmarks) != 0 {
		t.Errorf("want no bookmarks left, got %d", len(db.bookmarks))
	}

	// Her comment on Bob's post survives without authorship.
	comments, err := db.PostComments(context.Background(), bobPost.ID)
	if err != nil {
		t.Fatalf("unexpected error listing comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("want 1 comment on bob's post, got %d", len(comments))
	}
	if comments[0].ID != aliceComment.ID {
		t.Errorf("want comment %d kept, got %d", aliceComment.ID, comments[0].ID)
	}
	if comments[0].Author != "" {
		t.Errorf("want empty author nickname, got %q", comments[0].Author)
	}

	if _, err := db.RegisterUser(context.Background(), "a@x.com", "hash", "alice"); err != nil {
		t.Errorf("want email and nickname free after deletion, got %v", err)
	}
}

// End-to-end walk over the registries: register, post, comment, reply, delete.
func TestStore_Scenario(t *testing.T) {
	db := New()
	ctx := context.Background()

	if _, err := db.RegisterUser(ctx, "a@x.com", "pw", "alice"); err != nil {
		t.Fatalf("unexpected error registering alice: %v", err)
	}
	if _, err := db.RegisterUser(ctx, "a@x.com", "pw", "alice2"); !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Fatalf("want error %v, got %v", storage.ErrDuplicateEmail, err)
	}

	general := seedCategory(t, db, "General")

	post, err := db.AddPost(ctx, storage.PostInput{Title: "Hi", Content: "there", CategoryID: general.ID}, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error adding post: %v", err)
	}
	if post.Author != "alice" {
		t.Errorf("want author nickname %q, got %q", "alice", post.Author)
	}

	root := seedRootComment(t, db, post.ID, "a@x.com")
	seedReply(t, db, root.ID, "a@x.com")

	roots, err := db.PostComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error listing comments: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("want 1 root comment, got %d", len(roots))
	}
	if roots[0].ChildCount != 1 {
		t.Errorf("want childCount 1, got %d", roots[0].ChildCount)
	}

	replies, err := db.Replies(ctx, root.ID)
	if err != nil {
		t.Fatalf("unexpected error listing replies: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("want 1 reply, got %d", len(replies))
	}

	if err := db.DeleteComment(ctx, root.ID, "a@x.com"); err != nil {
		t.Fatalf("unexpected error deleting root comment: %v", err)
	}
	replies, err = db.Replies(ctx, root.ID)
	if err != nil {
		t.Fatalf("unexpected error listing replies: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("want no replies after root deletion, got %d", len(replies))
	}
}
