package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/usecase"
)

// AnalyticsRepository is the read side over leads, sessions and events. All
// queries run against live data at call time; nothing here caches.
type AnalyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) Overview(ctx context.Context, todayStart, weekStart, monthStart time.Time) (*usecase.OverviewReport, error) {
	report := &usecase.OverviewReport{StatusBreakdown: map[string]int{}}

	countQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= $1),
		       COUNT(*) FILTER (WHERE created_at >= $2),
		       COUNT(*) FILTER (WHERE created_at >= $3)
		FROM leads
	`
	err := r.DB.QueryRowContext(ctx, countQuery, todayStart, weekStart, monthStart).Scan(
		&report.Total, &report.Today, &report.ThisWeek, &report.ThisMonth)
	if err != nil {
		return nil, err
	}

	var avgSeconds sql.NullFloat64
	avgQuery := `
		SELECT AVG(EXTRACT(EPOCH FROM (completed_at - started_at)))
		FROM wizard_sessions
		WHERE completed_at IS NOT NULL
	`
	if err := r.DB.QueryRowContext(ctx, avgQuery).Scan(&avgSeconds); err != nil {
		return nil, err
	}
	if avgSeconds.Valid {
		report.AvgCompletionTimeSeconds = float64(int(avgSeconds.Float64*10+0.5)) / 10
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT COALESCE(NULLIF(status, ''), 'new'), COUNT(*) FROM leads GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		report.StatusBreakdown[status] = count
	}
	return report, rows.Err()
}

func (r *AnalyticsRepository) Funnel(ctx context.Context, since time.Time) (*usecase.FunnelReport, error) {
	report := &usecase.FunnelReport{
		Funnel:        map[string]int{},
		StepViews:     map[string]int{},
		StepCompletes: map[string]int{},
	}

	query := `
		SELECT event_name, COUNT(*)
		FROM events
		WHERE server_timestamp >= $1 AND event_name = ANY($2)
		GROUP BY event_name
	`
	rows, err := r.DB.QueryContext(ctx, query, since, pq.Array(entity.FunnelEventNames))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		report.Funnel[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.stepCounts(ctx, since, "tlj_step_view", report.StepViews); err != nil {
		return nil, err
	}
	if err := r.stepCounts(ctx, since, "tlj_step_complete", report.StepCompletes); err != nil {
		return nil, err
	}
	return report, nil
}

// stepCounts groups a step event by the step_id carried in its payload.
func (r *AnalyticsRepository) stepCounts(ctx context.Context, since time.Time, eventName string, dst map[string]int) error {
	query := `
		SELECT event_data->>'step_id', COUNT(*)
		FROM events
		WHERE server_timestamp >= $1
		  AND event_name = $2
		  AND COALESCE(event_data->>'step_id', '') <> ''
		GROUP BY 1
	`
	rows, err := r.DB.QueryContext(ctx, query, since, eventName)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var step string
		var count int
		if err := rows.Scan(&step, &count); err != nil {
			return err
		}
		dst[step] = count
	}
	return rows.Err()
}

func (r *AnalyticsRepository) Sources(ctx context.Context, since time.Time) ([]usecase.SourceCount, error) {
	query := `
		SELECT COALESCE(NULLIF(attribution->>'utm_source', ''), 'direct'),
		       COALESCE(attribution->>'utm_medium', ''),
		       COUNT(*)
		FROM leads
		WHERE created_at >= $1
		GROUP BY 1, 2
		ORDER BY 3 DESC
		LIMIT 20
	`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := []usecase.SourceCount{}
	for rows.Next() {
		var s usecase.SourceCount
		if err := rows.Scan(&s.Source, &s.Medium, &s.Count); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *AnalyticsRepository) Campaigns(ctx context.Context, since time.Time) ([]usecase.CampaignCount, error) {
	query := `
		SELECT attribution->>'utm_campaign',
		       COALESCE(attribution->>'utm_content', ''),
		       COUNT(*)
		FROM leads
		WHERE created_at >= $1
		  AND COALESCE(attribution->>'utm_campaign', '') <> ''
		GROUP BY 1, 2
		ORDER BY 3 DESC
		LIMIT 20
	`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []usecase.CampaignCount{}
	for rows.Next() {
		var c usecase.CampaignCount
		if err := rows.Scan(&c.Campaign, &c.Content, &c.Count); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *AnalyticsRepository) Devices(ctx context.Context, since time.Time) ([]usecase.DeviceCount, error) {
	query := `
		SELECT COALESCE(NULLIF(attribution->>'device_type', ''), 'unknown'), COUNT(*)
		FROM leads
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT 20
	`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := []usecase.DeviceCount{}
	for rows.Next() {
		var d usecase.DeviceCount
		if err := rows.Scan(&d.Device, &d.Count); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *AnalyticsRepository) Geo(ctx context.Context, since time.Time) ([]usecase.GeoCount, error) {
	query := `
		SELECT COALESCE(NULLIF(attribution->>'country', ''), 'Unknown'), COUNT(*)
		FROM leads
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT 20
	`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	geo := []usecase.GeoCount{}
	for rows.Next() {
		var g usecase.GeoCount
		if err := rows.Scan(&g.Country, &g.Count); err != nil {
			return nil, err
		}
		geo = append(geo, g)
	}
	return geo, rows.Err()
}

// Abandonment groups sessions started in the window by the step they stalled
// on. The rate compares leads created in the window against sessions started.
func (r *AnalyticsRepository) Abandonment(ctx context.Context, since time.Time) (*usecase.AbandonmentReport, error) {
	query := `
		SELECT current_step, COUNT(*)
		FROM wizard_sessions
		WHERE started_at >= $1
		GROUP BY current_step
		ORDER BY 2 DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &usecase.AbandonmentReport{ByScreen: []usecase.ScreenCount{}}
	for rows.Next() {
		var sc usecase.ScreenCount
		if err := rows.Scan(&sc.Screen, &sc.Count); err != nil {
			return nil, err
		}
		report.ByScreen = append(report.ByScreen, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wizard_sessions WHERE started_at >= $1`, since).
		Scan(&report.TotalStarted)
	if err != nil {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= $1`, since).
		Scan(&report.TotalCompleted)
	if err != nil {
		return nil, err
	}

	report.AbandonmentRatePct = usecase.AbandonmentRatePct(report.TotalCompleted, report.TotalStarted)
	return report, nil
}

// TrackingVerification reports, per tracked event name, how many events have
// ever been stored and when the latest one arrived.
func (r *AnalyticsRepository) TrackingVerification(ctx context.Context) ([]usecase.EventVerification, error) {
	verification := make([]usecase.EventVerification, 0, len(entity.TrackedEventNames))
	for _, name := range entity.TrackedEventNames {
		var (
			count    int
			lastSeen sql.NullTime
		)
		err := r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*), MAX(server_timestamp) FROM events WHERE event_name = $1`, name).
			Scan(&count, &lastSeen)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		v := usecase.EventVerification{Event: name, TotalCount: count, LastSeen: "never"}
		if lastSeen.Valid {
			v.LastSeen = lastSeen.Time.UTC().Format(time.RFC3339)
		}
		verification = append(verification, v)
	}
	return verification, nil
}
