package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestArticleStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)

	tag := "test-tag-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, tag) })

	title := "Create And Find " + uuid.NewString()[:8]
	a, err := s.Create(author.ID, title, "a description", "a body", []string{tag})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM articles WHERE id = $1", a.ID) })

	if a.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if a.FavoritesCount != 0 {
		t.Errorf("favorites count: got %d, want 0", a.FavoritesCount)
	}
	if !strings.HasPrefix(a.Slug, "create-and-find-") {
		t.Errorf("slug: got %q, want create-and-find- prefix", a.Slug)
	}
	if a.AuthorID != author.ID {
		t.Errorf("author: got %s, want %s", a.AuthorID, author.ID)
	}

	found, err := s.FindBySlug(a.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected article, got nil")
	}
	if found.Title != title {
		t.Errorf("title: got %q, want %q", found.Title, title)
	}

	tags, err := NewTagStore(db).TagsOf(a.ID)
	if err != nil {
		t.Fatalf("TagsOf: %v", err)
	}
	if len(tags) != 1 || tags[0] != tag {
		t.Errorf("tags: got %v, want [%s]", tags, tag)
	}
}

func TestArticleStoreFindBySlugMiss(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))

	found, err := s.FindBySlug("no-such-slug-" + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown slug, got %+v", found)
	}
}

func TestArticleStoreCreateValidation(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)

	_, err := s.Create(author.ID, "", "  ", "", nil)
	if err == nil {
		t.Fatal("Create with empty fields should fail")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	want := []string{"title", "description", "body"}
	if len(ve.Fields) != len(want) {
		t.Fatalf("fields: got %v, want %v", ve.Fields, want)
	}
	for i, f := range want {
		if ve.Fields[i] != f {
			t.Errorf("fields[%d]: got %q, want %q", i, ve.Fields[i], f)
		}
	}
}

func TestArticleStoreSlugDisambiguation(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)

	// Two articles with the same title must get distinct slugs.
	title := "Hello World " + uuid.NewString()[:8]
	first := createTestArticle(t, db, author.ID, title)
	second := createTestArticle(t, db, author.ID, title)

	if first.Slug == second.Slug {
		t.Fatalf("slugs collided: %q", first.Slug)
	}
	if !strings.HasPrefix(second.Slug, first.Slug+"-") {
		t.Errorf("second slug %q should extend the base %q", second.Slug, first.Slug)
	}

	// Both must be findable under their own slug.
	for _, a := range []*models.Article{first, second} {
		found, err := s.FindBySlug(a.Slug)
		if err != nil || found == nil || found.ID != a.ID {
			t.Errorf("FindBySlug(%q): got %v, %v", a.Slug, found, err)
		}
	}
}

func TestArticleStoreUpdate(t *testing.T) {
	db := testDB(t)
	tags := NewTagStore(db)
	s := NewArticleStore(db, tags)
	author := createTestUser(t, db)

	tagA := "test-upd-a-" + uuid.NewString()[:8]
	tagB := "test-upd-b-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, tagA, tagB) })

	a := createTestArticle(t, db, author.ID, "Update Me "+uuid.NewString()[:8], tagA)

	newTitle := "A Different Title"
	newTags := []string{tagB}
	updated, err := s.Update(a.Slug, UpdateArticleParams{Title: &newTitle, TagList: &newTags})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Slug stays pinned to the creation-time title.
	if updated.Slug != a.Slug {
		t.Errorf("slug changed on update: got %q, want %q", updated.Slug, a.Slug)
	}
	if updated.Title != newTitle {
		t.Errorf("title: got %q, want %q", updated.Title, newTitle)
	}
	if updated.Description != a.Description {
		t.Errorf("description changed without being set: %q", updated.Description)
	}

	got, err := tags.TagsOf(a.ID)
	if err != nil {
		t.Fatalf("TagsOf: %v", err)
	}
	if len(got) != 1 || got[0] != tagB {
		t.Errorf("tags after update: got %v, want [%s]", got, tagB)
	}
}

func TestArticleStoreUpdateNotFound(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))

	title := "whatever"
	_, err := s.Update("no-such-slug-"+uuid.NewString()[:8], UpdateArticleParams{Title: &title})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestArticleStoreUpdateEmptyFieldRejected(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)
	a := createTestArticle(t, db, author.ID, "Keep My Body "+uuid.NewString()[:8])

	empty := "   "
	_, err := s.Update(a.Slug, UpdateArticleParams{Body: &empty})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestArticleStoreDeleteCascade(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)
	reader := createTestUser(t, db)

	tag := "test-cascade-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, tag) })

	a := createTestArticle(t, db, author.ID, "Cascade "+uuid.NewString()[:8], tag)

	comments := NewCommentStore(db, allowAllPolicy{})
	if _, err := comments.Add(a.ID, reader.ID, "first"); err != nil {
		t.Fatalf("Add comment: %v", err)
	}
	if _, err := comments.Add(a.ID, reader.ID, "second"); err != nil {
		t.Fatalf("Add comment: %v", err)
	}
	if err := NewFavoriteStore(db).Favorite(reader.ID, a.ID); err != nil {
		t.Fatalf("Favorite: %v", err)
	}

	if err := s.Delete(a.Slug); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// No orphans of any kind may reference the deleted article.
	for _, table := range []string{"comments", "favorites", "taggings"} {
		if n := countRows(t, db, table, "article_id", a.ID); n != 0 {
			t.Errorf("%s: %d orphan rows after delete", table, n)
		}
	}
	if found, _ := s.FindBySlug(a.Slug); found != nil {
		t.Error("article still findable after delete")
	}
}

func TestArticleStoreDeleteNotFound(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))

	err := s.Delete("no-such-slug-" + uuid.NewString()[:8])
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestArticleStoreTaggedWith(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)

	tag := "test-tagged-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, tag) })

	older := createTestArticle(t, db, author.ID, "Older "+uuid.NewString()[:8], tag)
	newer := createTestArticle(t, db, author.ID, "Newer "+uuid.NewString()[:8], tag)
	createTestArticle(t, db, author.ID, "Untagged "+uuid.NewString()[:8])

	items, err := s.TaggedWith(tag).All()
	if err != nil {
		t.Fatalf("TaggedWith: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("tagged articles: got %d, want 2", len(items))
	}
	// Newest first.
	if items[0].ID != newer.ID || items[1].ID != older.ID {
		t.Errorf("order: got [%s, %s], want [%s, %s]",
			items[0].Slug, items[1].Slug, newer.Slug, older.Slug)
	}
}

func TestArticleStoreTaggedWithUnknownTag(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))

	items, err := s.TaggedWith("no-such-tag-" + uuid.NewString()[:8]).All()
	if err != nil {
		t.Fatalf("TaggedWith unknown tag must not error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("unknown tag: got %d articles, want 0", len(items))
	}
}

func TestArticleStoreFeedFor(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	users := NewUserStore(db)

	reader := createTestUser(t, db)
	followed := createTestUser(t, db)
	stranger := createTestUser(t, db)

	if err := users.Follow(reader.ID, followed.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	first := createTestArticle(t, db, followed.ID, "Followed One "+uuid.NewString()[:8])
	second := createTestArticle(t, db, followed.ID, "Followed Two "+uuid.NewString()[:8])
	createTestArticle(t, db, stranger.ID, "Stranger "+uuid.NewString()[:8])
	createTestArticle(t, db, reader.ID, "My Own "+uuid.NewString()[:8])

	items, err := s.FeedFor(reader.ID).All()
	if err != nil {
		t.Fatalf("FeedFor: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("feed: got %d articles, want 2", len(items))
	}
	// Only the followed author's articles, newest first. The reader's own
	// article is excluded — no implicit self-inclusion.
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("feed order: got [%s, %s], want [%s, %s]",
			items[0].Slug, items[1].Slug, second.Slug, first.Slug)
	}
	for _, a := range items {
		if a.AuthorID != followed.ID {
			t.Errorf("feed contains article by unfollowed author %s", a.AuthorID)
		}
	}
}

func TestArticleStoreFeedForNoFollows(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	loner := createTestUser(t, db)
	createTestArticle(t, db, loner.ID, "Unseen "+uuid.NewString()[:8])

	items, err := s.FeedFor(loner.ID).All()
	if err != nil {
		t.Fatalf("FeedFor: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("feed with zero follows: got %d articles, want 0", len(items))
	}
}

func TestArticleQueryRestartable(t *testing.T) {
	db := testDB(t)
	s := NewArticleStore(db, NewTagStore(db))
	author := createTestUser(t, db)

	tag := "test-restart-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, tag) })

	createTestArticle(t, db, author.ID, "Restart One "+uuid.NewString()[:8], tag)
	createTestArticle(t, db, author.ID, "Restart Two "+uuid.NewString()[:8], tag)

	q := s.TaggedWith(tag)

	// Ranging the same query twice re-executes it and yields the same rows.
	var firstRun, secondRun []string
	for a, err := range q.Each() {
		if err != nil {
			t.Fatalf("first run: %v", err)
		}
		firstRun = append(firstRun, a.Slug)
	}
	for a, err := range q.Each() {
		if err != nil {
			t.Fatalf("second run: %v", err)
		}
		secondRun = append(secondRun, a.Slug)
	}
	if len(firstRun) != 2 || len(secondRun) != 2 {
		t.Fatalf("runs: got %d and %d rows, want 2 and 2", len(firstRun), len(secondRun))
	}
	for i := range firstRun {
		if firstRun[i] != secondRun[i] {
			t.Errorf("runs diverged at %d: %q vs %q", i, firstRun[i], secondRun[i])
		}
	}

	// Early break stops cleanly.
	var seen int
	for _, err := range q.Each() {
		if err != nil {
			t.Fatalf("early-break run: %v", err)
		}
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("early break: saw %d rows, want 1", seen)
	}
}
