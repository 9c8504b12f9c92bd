// Package table holds the pure derivations behind the user table:
// filter, sort, paginate and selection, composed explicitly by Compose.
package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/user-table-api/internal/models"
)

const dateLayout = "2006-01-02"

// Filter narrows users by role, then status, then registration date range, then search text.
// Bounds are interpreted in the process-local time zone.
func Filter(users []models.User, state models.FilterState) []models.User {
	return FilterIn(users, state, time.Local)
}

// FilterIn is Filter with an explicit location for the date bounds.
func FilterIn(users []models.User, state models.FilterState, loc *time.Location) []models.User {
	filtered := byRole(users, state.Role)
	filtered = byStatus(filtered, state.Status)
	filtered = byDateRange(filtered, state.DateFrom, state.DateTo, loc)
	return bySearch(filtered, state.Search)
}

func byRole(users []models.User, role models.UserRole) []models.User {
	if role == "" {
		return users
	}
	return keep(users, func(u models.User) bool { return u.Role == role })
}

func byStatus(users []models.User, status models.UserStatus) []models.User {
	if status == "" {
		return users
	}
	return keep(users, func(u models.User) bool { return u.Status == status })
}

func byDateRange(users []models.User, from, to string, loc *time.Location) []models.User {
	filtered := users
	if lower, ok := ParseDateBound(from, loc, false); ok {
		filtered = keep(filtered, func(u models.User) bool { return !u.RegistrationDate.Before(lower) })
	}
	if upper, ok := ParseDateBound(to, loc, true); ok {
		filtered = keep(filtered, func(u models.User) bool { return !u.RegistrationDate.After(upper) })
	}
	return filtered
}

func bySearch(users []models.User, raw string) []models.User {
	query := strings.ToLower(strings.TrimSpace(raw))
	if query == "" {
		return users
	}
	return keep(users, func(u models.User) bool {
		return strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Email), query) ||
			strings.Contains(strconv.Itoa(u.ID), query)
	})
}

// ParseDateBound parses a YYYY-MM-DD (or RFC3339) bound into the start or end of that day in loc.
// Empty or unparsable input yields ok=false and the bound is ignored.
func ParseDateBound(raw string, loc *time.Location, endOfDay bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	day, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		ts, rfcErr := time.Parse(time.RFC3339, raw)
		if rfcErr != nil {
			return time.Time{}, false
		}
		ts = ts.In(loc)
		day = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
	}

	if endOfDay {
		return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999_000_000, loc), true
	}
	return day, true
}

// ValidDateBound reports whether raw is empty or parses as a bound.
func ValidDateBound(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	_, ok := ParseDateBound(raw, time.UTC, false)
	return ok
}

func keep(users []models.User, pred func(models.User) bool) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if pred(u) {
			out = append(out, u)
		}
	}
	return out
}
