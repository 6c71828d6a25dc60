package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func fixedClock(svc *BlogService, at time.Time) {
	svc.now = func() time.Time { return at }
}

func TestBlogCreateDerivesReadTimeAndDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post, err := env.svc.Blog.Create(ctx, &models.BlogPost{
		Title:   "Hello World",
		Summary: "first post",
		Content: words(1000),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Errorf("slug = %q, want hello-world", post.Slug)
	}
	if post.ReadTime != 5 {
		t.Errorf("readTime = %d, want 5", post.ReadTime)
	}
	if post.Author != models.DefaultAuthor {
		t.Errorf("author = %q, want %q", post.Author, models.DefaultAuthor)
	}
	if post.Published || post.PublishedAt != nil {
		t.Errorf("draft should have no publish date, got published=%v at=%v", post.Published, post.PublishedAt)
	}

	short, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "Short", Summary: "s", Content: words(150)})
	if err != nil {
		t.Fatalf("create short: %v", err)
	}
	if short.ReadTime != 1 {
		t.Errorf("short readTime = %d, want 1", short.ReadTime)
	}

	explicit, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "Explicit", Summary: "s", Content: words(10), ReadTime: 12})
	if err != nil {
		t.Fatalf("create explicit: %v", err)
	}
	if explicit.ReadTime != 12 {
		t.Errorf("explicit readTime = %d, want 12", explicit.ReadTime)
	}
}

func TestBlogCreatePublishedStampsDate(t *testing.T) {
	env := newTestEnv(t)
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	fixedClock(env.svc.Blog, at)

	post, err := env.svc.Blog.Create(context.Background(), &models.BlogPost{
		Title: "Live", Summary: "s", Content: "c", Published: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(at) {
		t.Fatalf("publishedAt = %v, want %v", post.PublishedAt, at)
	}
}

func TestBlogCreateValidationAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "T", Summary: "s"}); !errs.IsMissingRequiredFieldError(err) {
		t.Fatalf("missing content err = %v", err)
	}
	if _, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "T", Content: "c"}); !errs.IsMissingRequiredFieldError(err) {
		t.Fatalf("missing summary err = %v", err)
	}

	if _, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "Dup", Summary: "s", Content: "c"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "dup", Summary: "s", Content: "c"}); !errs.IsAlreadyExists(err) {
		t.Fatalf("err = %v, want already exists", err)
	}
}

func TestBlogUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixedClock(env.svc.Blog, at)

	if _, err := env.svc.Blog.Create(ctx, &models.BlogPost{
		Title: "Draft", Summary: "s", Content: words(100), Tags: []string{"go"}, Author: "Ana",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := env.svc.Blog.Update(ctx, "draft", BlogPostPatch{Content: ptr(words(450))})
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if updated.ReadTime != 3 {
		t.Errorf("readTime = %d, want 3", updated.ReadTime)
	}
	if updated.Author != "Ana" || len(updated.Tags) != 1 || updated.Tags[0] != "go" {
		t.Errorf("unspecified fields changed: author=%q tags=%v", updated.Author, updated.Tags)
	}

	updated, err = env.svc.Blog.Update(ctx, "draft", BlogPostPatch{Content: ptr(words(10)), ReadTime: ptr(7)})
	if err != nil {
		t.Fatalf("update explicit read time: %v", err)
	}
	if updated.ReadTime != 7 {
		t.Errorf("readTime = %d, want 7", updated.ReadTime)
	}

	updated, err = env.svc.Blog.Update(ctx, "draft", BlogPostPatch{Published: ptr(true)})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !updated.Published || updated.PublishedAt == nil || !updated.PublishedAt.Equal(at) {
		t.Fatalf("published=%v publishedAt=%v, want stamped at %v", updated.Published, updated.PublishedAt, at)
	}

	// republishing keeps the first publish date
	fixedClock(env.svc.Blog, at.Add(48*time.Hour))
	if _, err := env.svc.Blog.Update(ctx, "draft", BlogPostPatch{Published: ptr(false)}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	updated, err = env.svc.Blog.Update(ctx, "draft", BlogPostPatch{Published: ptr(true)})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(at) {
		t.Fatalf("publishedAt = %v, want %v", updated.PublishedAt, at)
	}

	if _, err := env.svc.Blog.Update(ctx, "missing", BlogPostPatch{Title: ptr("x")}); !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestBlogListOrderAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []*models.BlogPost{
		{Title: "Early", Summary: "s", Content: "c", Published: true, PublishedAt: &early, Tags: []string{"go"}},
		{Title: "Late", Summary: "s", Content: "c", Published: true, PublishedAt: &late},
		{Title: "Hidden", Summary: "s", Content: "c", Tags: []string{"go"}},
	} {
		if _, err := env.svc.Blog.Create(ctx, p); err != nil {
			t.Fatalf("create %q: %v", p.Title, err)
		}
	}

	public, err := env.svc.Blog.List(ctx, BlogFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(public) != 2 || public[0].Slug != "late" || public[1].Slug != "early" {
		t.Fatalf("public list order wrong: %d posts", len(public))
	}

	tagged, err := env.svc.Blog.List(ctx, BlogFilter{Tag: "go"})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Slug != "early" {
		t.Fatalf("tag filter returned %d posts", len(tagged))
	}

	all, err := env.svc.Blog.List(ctx, BlogFilter{IncludeUnpublished: true})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin list = %d posts, want 3", len(all))
	}

	if _, err := env.svc.Blog.Get(ctx, "hidden", false); !errs.IsNotFound(err) {
		t.Fatalf("public get of draft err = %v, want not found", err)
	}
}

func TestBlogDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.svc.Blog.Delete(ctx, "nothing"); !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := env.svc.Blog.Create(ctx, &models.BlogPost{Title: "Bye", Summary: "s", Content: "c"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.svc.Blog.Delete(ctx, "bye"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err := env.svc.Blog.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}

func TestBlogListDegradesOnStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.closeStore(t)

	list, err := env.svc.Blog.List(context.Background(), BlogFilter{Tag: "go"})
	if !errs.IsStorageFailure(err) {
		t.Fatalf("err = %v, want storage failure", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("list = %v, want empty non-nil slice", list)
	}
}
