package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	MinStars = 1
	MaxStars = 5
)

type RatingSource string

const (
	RatingSourceJellyfin RatingSource = "jellyfin"
	RatingSourceTMDB     RatingSource = "tmdb"
)

type Rating struct {
	Source    string
	Key       string
	Stars     int
	UpdatedAt time.Time
}

// TMDBRatingKey builds the key under which TMDB titles are rated.
func TMDBRatingKey(mediaType string, tmdbID int) string {
	return fmt.Sprintf("%v:%d", mediaType, tmdbID)
}

func ClampStars(stars int) int {
	if stars < MinStars {
		return MinStars
	}
	if stars > MaxStars {
		return MaxStars
	}
	return stars
}

func UpsertRating(ctx context.Context, db *sql.DB, source, key string, stars int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO ratings (source, key, stars, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source, key) DO UPDATE SET stars = excluded.stars, updated_at = CURRENT_TIMESTAMP`,
		source, key, ClampStars(stars))
	if err != nil {
		return errors.Wrapf(err, "failed to upsert rating source=%v key=%v", source, key)
	}
	return nil
}

func GetRating(ctx context.Context, db *sql.DB, source, key string) (*Rating, error) {
	r := &Rating{
		Source: source,
		Key:    key,
	}
	var updatedAt any
	err := db.QueryRowContext(ctx,
		"SELECT stars, updated_at FROM ratings WHERE source = ? AND key = ?", source, key).
		Scan(&r.Stars, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rating source=%v key=%v", source, key)
	}
	r.UpdatedAt = parseTimestamp(updatedAt)
	return r, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp accepts both driver-decoded times and raw sqlite text.
func parseTimestamp(v any) time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}
	}
	for _, l := range timestampLayouts {
		if ts, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// GetStars returns nil when the item was never rated.
func GetStars(ctx context.Context, db *sql.DB, source, key string) (*int, error) {
	r, err := GetRating(ctx, db, source, key)
	if err != nil || r == nil {
		return nil, err
	}
	return &r.Stars, nil
}

// ListRatings returns ratings newest first, all sources when source is empty.
func ListRatings(ctx context.Context, db *sql.DB, source string, limit int) ([]Rating, error) {
	q := "SELECT source, key, stars, updated_at FROM ratings"
	var args []any
	if source != "" {
		q += " WHERE source = ?"
		args = append(args, source)
	}
	q += " ORDER BY updated_at DESC, source, key"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings")
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)
	var res []Rating
	for rows.Next() {
		var (
			r         Rating
			updatedAt any
		)
		if err := rows.Scan(&r.Source, &r.Key, &r.Stars, &updatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan rating")
		}
		r.UpdatedAt = parseTimestamp(updatedAt)
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list ratings")
	}
	return res, nil
}
