package customer

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"customer-manager/internal/domain"
	"github.com/rs/zerolog"
)

const (
	// DefaultLimit applies when no limit is requested.
	DefaultLimit = 25
	// MaxLimit bounds every listing.
	MaxLimit = 100
	// MaxOffset caps requested offsets.
	MaxOffset = math.MaxInt32
	// DefaultSortField applies when sortkey is absent or unknown.
	DefaultSortField = domain.SortByLastUpdated
)

var sortKeys = map[string]domain.SortField{
	"id":          domain.SortByID,
	"_id":         domain.SortByID,
	"name":        domain.SortByName,
	"surname":     domain.SortBySurname,
	"email":       domain.SortByEmail,
	"initials":    domain.SortByInitials,
	"mobile":      domain.SortByMobile,
	"lastupdated": domain.SortByLastUpdated,
}

// NormalizeListQuery turns raw listing parameters (sortkey, sortdir, offset,
// limit) into a bounded query. Unknown sort keys fall back to lastupdated,
// anything but "asc" sorts descending and limit is clamped to MaxLimit.
// Malformed or negative offsets and limits below one are rejected.
func NormalizeListQuery(params url.Values, log zerolog.Logger) (domain.ListQuery, error) {
	q := domain.ListQuery{
		SortField:     DefaultSortField,
		SortDirection: domain.Descending,
		Offset:        0,
		Limit:         DefaultLimit,
	}

	if field, ok := sortKeys[params.Get("sortkey")]; ok {
		q.SortField = field
	}
	if params.Get("sortdir") == "asc" {
		q.SortDirection = domain.Ascending
	}

	if raw := strings.TrimSpace(params.Get("offset")); raw != "" {
		offset, err := parseCount(raw)
		if err != nil || offset < 0 {
			return domain.ListQuery{}, domain.Validation("offset must be a non-negative integer")
		}
		q.Offset = min(offset, MaxOffset)
	}

	if raw := strings.TrimSpace(params.Get("limit")); raw != "" {
		limit, err := parseCount(raw)
		if err != nil || limit < 1 {
			return domain.ListQuery{}, domain.Validation("limit must be a positive integer")
		}
		if limit > MaxLimit {
			log.Debug().Str("requested", raw).Int("limit", MaxLimit).Msg("listing limit clamped")
			limit = MaxLimit
		}
		q.Limit = limit
	}

	return q, nil
}

// parseCount parses a base-10 integer. Positive values too large for an int
// saturate at math.MaxInt so callers clamp them like any other large value.
func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt, nil
	}
	return n, err
}
