package application

import (
	"context"
	"errors"
	"testing"

	"github.com/x67digital/marketplace/internal/domain"
)

func TestCreateReviewUpdatesSellerReputation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	for i, rating := range []int{5, 4, 3} {
		reviewer := Actor{UserID: "buyer-" + string(rune('a'+i))}
		if _, err := env.svc.CreateReview(ctx, reviewer, CreateReviewRequest{
			SellerID: "seller",
			Rating:   rating,
			Comment:  "fine",
		}); err != nil {
			t.Fatalf("CreateReview rating %d: %v", rating, err)
		}
	}

	stats, err := env.svc.SellerStats(ctx, "seller")
	if err != nil {
		t.Fatalf("SellerStats: %v", err)
	}
	if stats.AvgRating != 4.0 || stats.TotalReviews != 3 {
		t.Fatalf("expected 4.0/3, got %.1f/%d", stats.AvgRating, stats.TotalReviews)
	}
	if stats.Distribution[5] != 1 || stats.Distribution[4] != 1 || stats.Distribution[3] != 1 {
		t.Fatalf("unexpected distribution: %v", stats.Distribution)
	}
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	for i, rating := range []int{3, 4, 4} {
		reviewer := Actor{UserID: "buyer-" + string(rune('a'+i))}
		if _, err := env.svc.CreateReview(ctx, reviewer, CreateReviewRequest{SellerID: "seller", Rating: rating}); err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
	}
	stats, err := env.svc.SellerStats(ctx, "seller")
	if err != nil {
		t.Fatalf("SellerStats: %v", err)
	}
	if stats.AvgRating != 3.7 {
		t.Fatalf("expected 3.7, got %v", stats.AvgRating)
	}
}

func TestDeleteReviewRecomputesReputation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	var lowReviewID string
	for i, rating := range []int{5, 4, 3} {
		reviewer := Actor{UserID: "buyer-" + string(rune('a'+i))}
		view, err := env.svc.CreateReview(ctx, reviewer, CreateReviewRequest{SellerID: "seller", Rating: rating})
		if err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
		if rating == 3 {
			lowReviewID = view.ID
		}
	}

	if err := env.svc.DeleteReview(ctx, Actor{UserID: "buyer-c"}, lowReviewID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	stats, _ := env.svc.SellerStats(ctx, "seller")
	if stats.AvgRating != 4.5 || stats.TotalReviews != 2 {
		t.Fatalf("expected 4.5/2 after delete, got %.1f/%d", stats.AvgRating, stats.TotalReviews)
	}
}

func TestReputationWriteFailureFailsTheMutation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.CreateReview(ctx, Actor{UserID: "buyer"}, CreateReviewRequest{SellerID: "seller", Rating: 5})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	statsErr := errors.New("stats table unavailable")
	env.stats.reputationErr = statsErr

	if _, err := env.svc.CreateReview(ctx, Actor{UserID: "buyer-2"}, CreateReviewRequest{SellerID: "seller", Rating: 1}); !errors.Is(err, statsErr) {
		t.Fatalf("expected write failure to propagate, got %v", err)
	}
	if err := env.svc.DeleteReview(ctx, Actor{UserID: "buyer"}, view.ID); !errors.Is(err, statsErr) {
		t.Fatalf("expected write failure to propagate on delete, got %v", err)
	}
}

func TestSelfReviewIsRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.svc.CreateReview(context.Background(), Actor{UserID: "seller"}, CreateReviewRequest{
		SellerID: "seller",
		Rating:   5,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDuplicateReviewForSameAdIsRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	reviewer := Actor{UserID: "buyer"}

	req := CreateReviewRequest{SellerID: "seller", AdID: "ad_1", Rating: 4}
	if _, err := env.svc.CreateReview(ctx, reviewer, req); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := env.svc.CreateReview(ctx, reviewer, req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteReviewAuthorOrAdminOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.CreateReview(ctx, Actor{UserID: "buyer"}, CreateReviewRequest{SellerID: "seller", Rating: 2})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := env.svc.DeleteReview(ctx, Actor{UserID: "stranger"}, view.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := env.svc.DeleteReview(ctx, Actor{UserID: "ops", Role: "admin"}, view.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := env.svc.DeleteReview(ctx, Actor{UserID: "buyer"}, view.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSellerStatsZeroState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	stats, err := env.svc.SellerStats(context.Background(), "fresh-seller")
	if err != nil {
		t.Fatalf("SellerStats: %v", err)
	}
	if stats.AvgRating != 0 || stats.TotalReviews != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if len(stats.Distribution) != 0 {
		t.Fatalf("expected empty distribution, got %v", stats.Distribution)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.CreateReview(ctx, Actor{UserID: "buyer"}, CreateReviewRequest{SellerID: "seller", Rating: 6}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for rating 6, got %v", err)
	}
	if _, err := env.svc.CreateReview(ctx, Actor{UserID: "buyer"}, CreateReviewRequest{Rating: 5}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing seller, got %v", err)
	}
	if _, err := env.svc.CreateReview(ctx, Actor{}, CreateReviewRequest{SellerID: "seller", Rating: 5}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestListSellerReviews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		reviewer := Actor{UserID: "buyer-" + string(rune('a'+i))}
		if _, err := env.svc.CreateReview(ctx, reviewer, CreateReviewRequest{SellerID: "seller", Rating: 5}); err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
	}

	reviews, err := env.svc.ListSellerReviews(ctx, "seller", 1, 2)
	if err != nil {
		t.Fatalf("ListSellerReviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews on page 1, got %d", len(reviews))
	}
	rest, err := env.svc.ListSellerReviews(ctx, "seller", 2, 2)
	if err != nil {
		t.Fatalf("ListSellerReviews page 2: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 review on page 2, got %d", len(rest))
	}
}
