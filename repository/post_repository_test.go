package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialMediaAPI/internal/testutil"
	"socialMediaAPI/models"
)

func TestPostRepository_CRUD(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users := NewUserRepository(d)
	posts := NewPostRepository(d)
	ctx := context.Background()

	u, _ := users.Create(ctx, newUser("alice"))
	p, err := posts.Create(ctx, &models.Post{Title: "T1", Content: "hello", Published: true, OwnerID: u.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := posts.GetByID(ctx, p.ID)
	if err != nil || got == nil || got.Title != "T1" || got.OwnerID != u.ID || !got.Published {
		t.Fatalf("get: %v %+v", err, got)
	}

	title := "T1 edited"
	published := false
	upd, err := posts.Update(ctx, p.ID, models.PostUpdate{Title: &title, Published: &published})
	if err != nil || upd == nil {
		t.Fatalf("update: %v %+v", err, upd)
	}
	if upd.Title != title || upd.Content != "hello" || upd.Published {
		t.Fatalf("partial update mismatch: %+v", upd)
	}
	if !upd.UpdatedAt.After(p.UpdatedAt) && !upd.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("updated_at went backwards")
	}

	none, err := posts.Update(ctx, "missing", models.PostUpdate{Title: &title})
	if err != nil || none != nil {
		t.Fatalf("update missing: %+v %v", none, err)
	}

	ok, err := posts.Delete(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("delete: %v", err)
	}
	gone, _ := posts.GetByID(ctx, p.ID)
	if gone != nil {
		t.Fatalf("post still present")
	}
}

func TestPostRepository_CreateUnknownOwner(t *testing.T) {
	d := testutil.OpenTestDB(t)
	posts := NewPostRepository(d)
	_, err := posts.Create(context.Background(), &models.Post{Title: "x", Content: "y", OwnerID: "ghost"})
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("want ErrMissingReference, got %v", err)
	}
}

func TestPostRepository_ListByOwner(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users := NewUserRepository(d)
	posts := NewPostRepository(d)
	votes := NewVoteRepository(d)
	ctx := context.Background()

	alice, _ := users.Create(ctx, newUser("alice"))
	bob, _ := users.Create(ctx, newUser("bob"))

	var ids []string
	for i, title := range []string{"Go tips", "cooking 101", "GOLANG generics", "100%_done"} {
		p, err := posts.Create(ctx, &models.Post{Title: title, Content: "c", Published: i%2 == 0, OwnerID: alice.ID})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := posts.Create(ctx, &models.Post{Title: "bob's Go post", Content: "c", Published: true, OwnerID: bob.ID}); err != nil {
		t.Fatalf("create bob post: %v", err)
	}
	for _, uid := range []string{alice.ID, bob.ID} {
		if _, err := votes.Create(ctx, uid, ids[0]); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}

	all, err := posts.ListByOwner(ctx, ListPostsParams{OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	// newest first
	if all[0].Post.ID != ids[3] || all[3].Post.ID != ids[0] {
		t.Fatalf("unexpected order: %s ... %s", all[0].Post.Title, all[3].Post.Title)
	}
	counts := map[string]int64{}
	for _, pv := range all {
		if pv.Post.OwnerID != alice.ID {
			t.Fatalf("listing leaked another owner's post: %+v", pv.Post)
		}
		counts[pv.Post.ID] = pv.Votes
	}
	if counts[ids[0]] != 2 || counts[ids[1]] != 0 {
		t.Fatalf("vote counts wrong: %v", counts)
	}

	tests := []struct {
		name   string
		params ListPostsParams
		want   int
	}{
		{"search is case-insensitive", ListPostsParams{Search: "go"}, 2},
		{"search keeps whitespace", ListPostsParams{Search: " go"}, 0},
		{"published only", ListPostsParams{Published: boolPtr(true)}, 2},
		{"drafts only", ListPostsParams{Published: boolPtr(false)}, 2},
		{"search and published", ListPostsParams{Search: "GO", Published: boolPtr(true)}, 2},
		{"wildcards are literal", ListPostsParams{Search: "%_"}, 1},
		{"underscore alone is literal", ListPostsParams{Search: "_"}, 1},
		{"limit", ListPostsParams{Limit: 3}, 3},
		{"offset", ListPostsParams{Offset: 3}, 1},
		{"offset past end", ListPostsParams{Offset: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.OwnerID = alice.ID
			got, err := posts.ListByOwner(ctx, tt.params)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tt.want {
				titles := make([]string, 0, len(got))
				for _, pv := range got {
					titles = append(titles, pv.Post.Title)
				}
				t.Fatalf("got %d (%v), want %d", len(got), titles, tt.want)
			}
		})
	}

	if _, err := posts.ListByOwner(ctx, ListPostsParams{}); err == nil {
		t.Fatalf("expected error without owner")
	}
}

func TestPostRepository_ListByOwner_SearchFoldsUnicode(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users := NewUserRepository(d)
	posts := NewPostRepository(d)
	ctx := context.Background()

	u, _ := users.Create(ctx, newUser("alice"))
	for _, title := range []string{"Über Älpler", "gopher facts", "let's go now"} {
		if _, err := posts.Create(ctx, &models.Post{Title: title, Content: "c", Published: true, OwnerID: u.ID}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"Über", 1},
		{"über", 1},
		{"ÜBER", 1},
		{"älpler", 1},
		{"ÄLPLER", 1},
		{"go", 2},
		{" go", 1}, // surrounding whitespace is part of the term
		{"go ", 1},
	}
	for _, tt := range tests {
		got, err := posts.ListByOwner(ctx, ListPostsParams{OwnerID: u.ID, Search: tt.search})
		if err != nil {
			t.Fatalf("search %q: %v", tt.search, err)
		}
		if len(got) != tt.want {
			t.Fatalf("search %q: got %d, want %d", tt.search, len(got), tt.want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	for in, want := range map[string]string{
		"plain":  "plain",
		"50%":    `50\%`,
		"a_b":    `a\_b`,
		`back\s`: `back\\s`,
	} {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
