package repository

import (
	"context"
	"errors"
	"testing"

	"socialMediaAPI/internal/testutil"
	"socialMediaAPI/models"
)

func newUser(name string) *models.User {
	return &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash-" + name}
}

func TestUserRepository_CRUDAndQueries(t *testing.T) {
	d := testutil.OpenTestDB(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	// Create
	u, err := repo.Create(ctx, newUser("alice"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.Username != "alice" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user: %+v", u)
	}

	// GetByID
	g, err := repo.GetByID(ctx, u.ID)
	if err != nil || g == nil || g.Username != "alice" || g.PasswordHash != "hash-alice" {
		t.Fatalf("get by id: %v %+v", err, g)
	}

	// GetByUsername
	g2, err := repo.GetByUsername(ctx, "alice")
	if err != nil || g2 == nil || g2.ID != u.ID {
		t.Fatalf("get by username: %v %+v", err, g2)
	}
	missing, err := repo.GetByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown username, got %+v %v", missing, err)
	}

	// UpdatePasswordHash
	if err := repo.UpdatePasswordHash(ctx, u.ID, "rotated"); err != nil {
		t.Fatalf("update hash: %v", err)
	}
	g3, _ := repo.GetByID(ctx, u.ID)
	if g3.PasswordHash != "rotated" {
		t.Fatalf("hash not updated: %+v", g3)
	}

	// Delete
	ok, err := repo.Delete(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	gone, err := repo.GetByID(ctx, u.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected user deleted, got: %+v err=%v", gone, err)
	}
	ok, err = repo.Delete(ctx, u.ID)
	if err != nil || ok {
		t.Fatalf("second delete should report nothing removed: ok=%v err=%v", ok, err)
	}
}

func TestUserRepository_Uniqueness(t *testing.T) {
	d := testutil.OpenTestDB(t)
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.Create(ctx, newUser("alice")); err != nil {
		t.Fatalf("create: %v", err)
	}
	dupName := newUser("alice")
	dupName.Email = "other@example.com"
	if _, err := repo.Create(ctx, dupName); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username: want ErrDuplicate, got %v", err)
	}
	dupEmail := newUser("alice2")
	dupEmail.Email = "alice@example.com"
	if _, err := repo.Create(ctx, dupEmail); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email: want ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	d := testutil.OpenTestDB(t)
	users := NewUserRepository(d)
	posts := NewPostRepository(d)
	votes := NewVoteRepository(d)
	ctx := context.Background()

	alice, _ := users.Create(ctx, newUser("alice"))
	bob, _ := users.Create(ctx, newUser("bob"))
	ap, err := posts.Create(ctx, &models.Post{Title: "a", Content: "x", Published: true, OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	bp, _ := posts.Create(ctx, &models.Post{Title: "b", Content: "y", Published: true, OwnerID: bob.ID})

	// alice votes on her post and bob's; bob votes on alice's.
	for _, pair := range [][2]string{{alice.ID, ap.ID}, {alice.ID, bp.ID}, {bob.ID, ap.ID}, {bob.ID, bp.ID}} {
		if _, err := votes.Create(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("vote %v: %v", pair, err)
		}
	}

	if ok, err := users.Delete(ctx, alice.ID); err != nil || !ok {
		t.Fatalf("delete alice: %v", err)
	}

	if n := testutil.CountRows(t, d, "posts", "owner_id = ?", alice.ID); n != 0 {
		t.Fatalf("alice's posts remain: %d", n)
	}
	if n := testutil.CountRows(t, d, "votes", "user_id = ? OR post_id = ?", alice.ID, ap.ID); n != 0 {
		t.Fatalf("orphan votes remain: %d", n)
	}
	// bob's own vote on his own post survives.
	if n := testutil.CountRows(t, d, "votes", ""); n != 1 {
		t.Fatalf("votes remaining = %d, want 1", n)
	}
	if n := testutil.CountRows(t, d, "votes", "post_id NOT IN (SELECT id FROM posts) OR user_id NOT IN (SELECT id FROM users)"); n != 0 {
		t.Fatalf("orphans: %d", n)
	}
}
