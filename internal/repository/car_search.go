package repository

import (
	"context"
	"database/sql"
	"strings"
)

// CarSearchQuery defines filters & pagination for browsing cars.
type CarSearchQuery struct {
	City        string
	Query       string // matches title or description
	MaxRateFils int64  // 0 = no cap
	From        string // "2006-01-02"; both set -> only cars whose window covers [From, To]
	To          string
	Page        int
	PageSize    int
}

// PublicCarRow is the sanitized car representation returned to
// guests. DailyRate is the AED value derived from fils for display.
type PublicCarRow struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	City          string  `json:"city"`
	DailyRateFils int64   `json:"daily_rate_fils"`
	DailyRate     float64 `json:"daily_rate"`
	AvailableFrom string  `json:"available_from"`
	AvailableTo   string  `json:"available_to"`
	CoverImage    *string `json:"cover_image,omitempty"`
}

// Search returns listed cars matching the query plus the total count
// before pagination. City matching is exact (case-insensitive); free
// text matches title and description.
func (r *CarRepo) Search(ctx context.Context, q CarSearchQuery) ([]PublicCarRow, int64, error) {
	where := []string{"c.status = 'LISTED'"}
	args := []any{}

	if q.City != "" {
		where = append(where, "LOWER(c.city) = ?")
		args = append(args, strings.ToLower(q.City))
	}
	if q.Query != "" {
		where = append(where, "(LOWER(c.title) LIKE ? OR LOWER(c.description) LIKE ?)")
		like := "%" + strings.ToLower(q.Query) + "%"
		args = append(args, like, like)
	}
	if q.MaxRateFils > 0 {
		where = append(where, "c.daily_rate_fils <= ?")
		args = append(args, q.MaxRateFils)
	}
	if q.From != "" && q.To != "" {
		where = append(where, "c.available_from <= ? AND c.available_to >= ?")
		args = append(args, q.From, q.To)
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM cars c WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			c.id,
			c.title,
			c.city,
			c.daily_rate_fils,
			DATE_FORMAT(c.available_from, '%Y-%m-%d'),
			DATE_FORMAT(c.available_to, '%Y-%m-%d'),
			(SELECT url FROM car_images ci WHERE ci.car_id = c.id ORDER BY ci.id LIMIT 1) AS cover_image
		FROM cars c
		WHERE ` + cond + `
		ORDER BY c.created_at DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []PublicCarRow{}
	for rows.Next() {
		var row PublicCarRow
		var cover sql.NullString
		if err := rows.Scan(&row.ID, &row.Title, &row.City, &row.DailyRateFils,
			&row.AvailableFrom, &row.AvailableTo, &cover); err != nil {
			return nil, 0, err
		}
		row.DailyRate = float64(row.DailyRateFils) / 100
		if cover.Valid {
			v := cover.String
			row.CoverImage = &v
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
