package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"socialMediaAPI/internal/testutil"
	"socialMediaAPI/models"
)

func seedPost(t *testing.T, users *UserRepository, posts *PostRepository, owner string) (*models.User, *models.Post) {
	t.Helper()
	ctx := context.Background()
	u, err := users.Create(ctx, newUser(owner))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	p, err := posts.Create(ctx, &models.Post{Title: "T1", Content: "c", Published: true, OwnerID: u.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return u, p
}

func TestVoteRepository_Lifecycle(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users, posts, votes := NewUserRepository(d), NewPostRepository(d), NewVoteRepository(d)
	ctx := context.Background()
	u, p := seedPost(t, users, posts, "alice")

	if v, err := votes.Get(ctx, u.ID, p.ID); err != nil || v != nil {
		t.Fatalf("expected no vote: %+v %v", v, err)
	}
	if _, err := votes.Create(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := votes.Create(ctx, u.ID, p.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second create: want ErrDuplicate, got %v", err)
	}
	if n := testutil.CountRows(t, d, "votes", "post_id = ?", p.ID); n != 1 {
		t.Fatalf("count = %d", n)
	}
	v, err := votes.Get(ctx, u.ID, p.ID)
	if err != nil || v == nil || v.UserID != u.ID || v.PostID != p.ID {
		t.Fatalf("get: %+v %v", v, err)
	}
	if ok, err := votes.Delete(ctx, u.ID, p.ID); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if ok, err := votes.Delete(ctx, u.ID, p.ID); err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
}

func TestVoteRepository_MissingPost(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users, posts, votes := NewUserRepository(d), NewPostRepository(d), NewVoteRepository(d)
	u, _ := seedPost(t, users, posts, "alice")
	if _, err := votes.Create(context.Background(), u.ID, "no-such-post"); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("want ErrMissingReference, got %v", err)
	}
}

func TestVoteRepository_PostDeleteCascades(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users, posts, votes := NewUserRepository(d), NewPostRepository(d), NewVoteRepository(d)
	ctx := context.Background()
	u, p := seedPost(t, users, posts, "alice")
	if _, err := votes.Create(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if ok, err := posts.Delete(ctx, p.ID); err != nil || !ok {
		t.Fatalf("delete post: %v", err)
	}
	if n := testutil.CountRows(t, d, "votes", "post_id = ?", p.ID); n != 0 {
		t.Fatalf("orphan votes: %d", n)
	}
}

func TestVoteRepository_ConcurrentCreateSingleRow(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users, posts, votes := NewUserRepository(d), NewPostRepository(d), NewVoteRepository(d)
	u, p := seedPost(t, users, posts, "alice")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := votes.Create(context.Background(), u.ID, p.ID)
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicate):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != workers-1 {
		t.Fatalf("ok=%d dup=%d", ok, dup)
	}
	if n := testutil.CountRows(t, d, "votes", "user_id = ? AND post_id = ?", u.ID, p.ID); n != 1 {
		t.Fatalf("rows = %d", n)
	}
}
