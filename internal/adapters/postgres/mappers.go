package postgres

import (
	"encoding/json"

	"github.com/x67digital/marketplace/internal/domain"
)

func toDomainAd(m adModel) domain.Ad {
	var images []string
	if m.Images != "" {
		_ = json.Unmarshal([]byte(m.Images), &images)
	}
	var details map[string]string
	if m.Details != "" {
		_ = json.Unmarshal([]byte(m.Details), &details)
	}
	return domain.Ad{
		AdID: m.AdID, OwnerID: m.OwnerID, Title: m.Title, Description: m.Description,
		CategoryID: m.CategoryID, SubcategoryID: m.SubcategoryID, CityID: m.CityID,
		Price: m.Price, PriceKind: domain.PriceKind(m.PriceKind),
		ContactPhone: m.ContactPhone, ContactEmail: m.ContactEmail,
		Images: images, Details: details,
		Status: domain.AdStatus(m.Status), IsPaid: m.IsPaid,
		IsBoosted: m.IsBoosted, BoostExpiresAt: m.BoostExpiresAt,
		IsPromoted: m.IsPromoted, PromoteExpiresAt: m.PromoteExpiresAt,
		TopUpRank: m.TopUpRank, LastTopUp: m.LastTopUp, AutoTopUp: m.AutoTopUp,
		Views: m.Views, FavoritesCount: m.FavoritesCount,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func toAdModel(ad domain.Ad) adModel {
	return adModel{
		AdID: ad.AdID, OwnerID: ad.OwnerID, Title: ad.Title, Description: ad.Description,
		CategoryID: ad.CategoryID, SubcategoryID: ad.SubcategoryID, CityID: ad.CityID,
		Price: ad.Price, PriceKind: string(ad.PriceKind),
		ContactPhone: ad.ContactPhone, ContactEmail: ad.ContactEmail,
		Images: marshalJSON(ad.Images), Details: marshalJSON(ad.Details),
		Status: string(ad.Status), IsPaid: ad.IsPaid,
		IsBoosted: ad.IsBoosted, BoostExpiresAt: ad.BoostExpiresAt,
		IsPromoted: ad.IsPromoted, PromoteExpiresAt: ad.PromoteExpiresAt,
		TopUpRank: ad.TopUpRank, LastTopUp: ad.LastTopUp, AutoTopUp: ad.AutoTopUp,
		Views: ad.Views, FavoritesCount: ad.FavoritesCount,
		CreatedAt: ad.CreatedAt, UpdatedAt: ad.UpdatedAt,
	}
}

func toDomainPayment(m paymentModel) domain.PaymentOrder {
	return domain.PaymentOrder{
		PaymentID: m.PaymentID, OrderCode: m.OrderCode, AdID: m.AdID, BuyerID: m.BuyerID,
		Kind: domain.PaymentKind(m.Kind), AmountMinor: m.AmountMinor,
		Status: domain.PaymentStatus(m.Status), TransactionID: m.TransactionID,
		CreatedAt: m.CreatedAt, CompletedAt: m.CompletedAt,
	}
}

func toDomainReview(m reviewModel) domain.Review {
	return domain.Review{
		ReviewID: m.ReviewID, ReviewerID: m.ReviewerID, SellerID: m.SellerID,
		AdID: m.AdID, Rating: m.Rating, Comment: m.Comment, CreatedAt: m.CreatedAt,
	}
}

func toDomainFavorite(m favoriteModel) domain.Favorite {
	return domain.Favorite{
		FavoriteID: m.FavoriteID, UserID: m.UserID, AdID: m.AdID,
		AdPrice: m.AdPrice, CreatedAt: m.CreatedAt,
	}
}

func toDomainSellerStats(m sellerStatsModel) domain.SellerStats {
	return domain.SellerStats{
		UserID: m.UserID, AvgRating: m.AvgRating, TotalReviews: m.TotalReviews,
		ReferralCode: m.ReferralCode, ReferralCount: m.ReferralCount, UpdatedAt: m.UpdatedAt,
	}
}

func marshalJSON(v any) string {
	body, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(body)
}
