package domain

import (
	"sort"
	"time"
)

type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortPriceLow  SortMode = "price_low"
	SortPriceHigh SortMode = "price_high"
	SortBoosted   SortMode = "boosted"
)

// Sortable ad fields. Repositories map these to column order clauses;
// SortAds interprets them in memory.
const (
	SortFieldTopUpRank     = "topup_rank"
	SortFieldCreatedAt     = "created_at"
	SortFieldPrice         = "price"
	SortFieldIsBoosted     = "is_boosted"
	SortFieldBoostExpires  = "boost_expires_at"
	SortFieldPromoteExpire = "promote_expires_at"
)

type SortKey struct {
	Field string
	Desc  bool
}

func ParseSortMode(v string) SortMode {
	switch SortMode(v) {
	case SortOldest, SortPriceLow, SortPriceHigh, SortBoosted:
		return SortMode(v)
	default:
		return SortNewest
	}
}

// OrderFor returns the total order for a listing. topup_rank descending is
// always the primary key except for "oldest", which ignores topup and sorts
// by creation time. For moderation-gated categories the boosted flag is
// folded in ahead of the mode's own secondary keys, including oldest.
func OrderFor(mode SortMode, moderatedCategory bool) []SortKey {
	if mode == SortOldest {
		if moderatedCategory {
			return []SortKey{
				{Field: SortFieldIsBoosted, Desc: true},
				{Field: SortFieldCreatedAt},
			}
		}
		return []SortKey{{Field: SortFieldCreatedAt}}
	}

	var secondary []SortKey
	switch mode {
	case SortPriceLow:
		secondary = []SortKey{{Field: SortFieldPrice}}
	case SortPriceHigh:
		secondary = []SortKey{{Field: SortFieldPrice, Desc: true}}
	case SortBoosted:
		secondary = []SortKey{
			{Field: SortFieldIsBoosted, Desc: true},
			{Field: SortFieldBoostExpires, Desc: true},
			{Field: SortFieldCreatedAt, Desc: true},
		}
	default:
		secondary = []SortKey{{Field: SortFieldCreatedAt, Desc: true}}
	}

	keys := []SortKey{{Field: SortFieldTopUpRank, Desc: true}}
	if moderatedCategory {
		keys = append(keys, SortKey{Field: SortFieldIsBoosted, Desc: true})
	}
	for _, k := range secondary {
		if moderatedCategory && (k.Field == SortFieldTopUpRank || k.Field == SortFieldIsBoosted) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// SortAds orders ads in place according to keys. Used by in-memory
// repositories; SQL adapters translate keys to ORDER BY clauses instead.
func SortAds(ads []Ad, keys []SortKey) {
	sort.SliceStable(ads, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareAdField(ads[i], ads[j], k.Field)
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareAdField(a, b Ad, field string) int {
	switch field {
	case SortFieldTopUpRank:
		return compareFloat(a.TopUpRank, b.TopUpRank)
	case SortFieldCreatedAt:
		return compareTime(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case SortFieldPrice:
		return compareFloat(priceOrZero(a), priceOrZero(b))
	case SortFieldIsBoosted:
		return compareBool(a.IsBoosted, b.IsBoosted)
	case SortFieldBoostExpires:
		return compareTime(timeOrZero(a.BoostExpiresAt), timeOrZero(b.BoostExpiresAt))
	case SortFieldPromoteExpire:
		return compareTime(timeOrZero(a.PromoteExpiresAt), timeOrZero(b.PromoteExpiresAt))
	default:
		return 0
	}
}

func priceOrZero(a Ad) float64 {
	if a.Price == nil {
		return 0
	}
	return *a.Price
}

func timeOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
