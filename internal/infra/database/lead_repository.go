package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thelocaljewel/backend/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	lead_id, first_name, email, phone, notes,
	product_type, occasion, deadline, setting_style,
	bracelet_wrist_size, bracelet_metal, diamond_shape, carat_range,
	priority, metal, ring_size_known, ring_size, budget, has_inspiration,
	inspiration_links, inspiration_files, attribution, status,
	internal_notes, user_id, created_at, updated_at
`

// Upsert writes the lead keyed by lead_id with replace semantics for every
// form-derived field. Status, internal notes, user link and created_at belong
// to the existing row and are deliberately left out of the conflict update.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	links, err := jsonbArray(lead.InspirationLinks)
	if err != nil {
		return fmt.Errorf("encode inspiration links: %w", err)
	}
	files, err := jsonbArray(lead.InspirationFiles)
	if err != nil {
		return fmt.Errorf("encode inspiration files: %w", err)
	}
	attribution, err := jsonb(lead.Attribution)
	if err != nil {
		return fmt.Errorf("encode attribution: %w", err)
	}

	query := `
		INSERT INTO leads (
			lead_id, first_name, email, phone, notes,
			product_type, occasion, deadline, setting_style,
			bracelet_wrist_size, bracelet_metal, diamond_shape, carat_range,
			priority, metal, ring_size_known, ring_size, budget, has_inspiration,
			inspiration_links, inspiration_files, attribution,
			status, internal_notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21, $22,
			'new', '[]', NOW(), NOW()
		)
		ON CONFLICT (lead_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			notes = EXCLUDED.notes,
			product_type = EXCLUDED.product_type,
			occasion = EXCLUDED.occasion,
			deadline = EXCLUDED.deadline,
			setting_style = EXCLUDED.setting_style,
			bracelet_wrist_size = EXCLUDED.bracelet_wrist_size,
			bracelet_metal = EXCLUDED.bracelet_metal,
			diamond_shape = EXCLUDED.diamond_shape,
			carat_range = EXCLUDED.carat_range,
			priority = EXCLUDED.priority,
			metal = EXCLUDED.metal,
			ring_size_known = EXCLUDED.ring_size_known,
			ring_size = EXCLUDED.ring_size,
			budget = EXCLUDED.budget,
			has_inspiration = EXCLUDED.has_inspiration,
			inspiration_links = EXCLUDED.inspiration_links,
			inspiration_files = EXCLUDED.inspiration_files,
			attribution = EXCLUDED.attribution,
			updated_at = NOW()
		RETURNING status, created_at, updated_at
	`

	return r.DB.QueryRowContext(ctx, query,
		lead.LeadID,
		lead.FirstName,
		nullString(lead.Email),
		nullString(lead.Phone),
		lead.Notes,
		lead.ProductType,
		lead.Occasion,
		lead.Deadline,
		lead.SettingStyle,
		lead.BraceletWristSize,
		lead.BraceletMetal,
		lead.DiamondShape,
		lead.CaratRange,
		lead.Priority,
		lead.Metal,
		lead.RingSizeKnown,
		lead.RingSize,
		lead.Budget,
		lead.HasInspiration,
		links,
		files,
		attribution,
	).Scan(&lead.Status, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *LeadRepository) SetUserID(ctx context.Context, leadID, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET user_id = $2 WHERE lead_id = $1`, leadID, userID)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

func (r *LeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE lead_id = $1`, leadID)
	return scanLead(row)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, leadID string, status entity.LeadStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE lead_id = $1`,
		leadID, string(status))
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// AppendNote pushes one note onto the lead's append-only history.
func (r *LeadRepository) AppendNote(ctx context.Context, leadID string, note entity.Note) error {
	encoded, err := json.Marshal([]entity.Note{note})
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET internal_notes = internal_notes || $2::jsonb, updated_at = NOW() WHERE lead_id = $1`,
		leadID, encoded)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// LeadFilters narrows listings and exports. String fields are exact matches
// except Search, which is a case-insensitive substring over name, email,
// phone and lead_id. Nil date bounds are open.
type LeadFilters struct {
	Status      string
	ProductType string
	Budget      string
	Source      string
	Search      string
	DateFrom    *time.Time
	DateTo      *time.Time
}

func (f LeadFilters) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if f.ProductType != "" {
		add("product_type = ?", f.ProductType)
	}
	if f.Budget != "" {
		add("budget = ?", f.Budget)
	}
	if f.Source != "" {
		add("attribution->>'utm_source' = ?", f.Source)
	}
	if f.Search != "" {
		search := escapeLike(f.Search)
		p := len(args)
		args = append(args, search, search, search, search)
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE '%%'||$%d||'%%' OR email ILIKE '%%'||$%d||'%%' OR phone ILIKE '%%'||$%d||'%%' OR lead_id ILIKE '%%'||$%d||'%%')",
			p+1, p+2, p+3, p+4))
	}
	if f.DateFrom != nil {
		add("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("created_at <= ?", *f.DateTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike makes a user-supplied term a literal ILIKE substring by escaping
// the pattern metacharacters.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// List returns one newest-first page plus the total match count.
func (r *LeadRepository) List(ctx context.Context, filters LeadFilters, page, limit int) ([]entity.Lead, int, error) {
	where, args := filters.where()

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `SELECT ` + leadColumns + ` FROM leads` + where +
		` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit) +
		` OFFSET ` + strconv.Itoa((page-1)*limit)

	leads, err := r.queryLeads(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// ListAll returns the full filtered, newest-first set; used by exports.
func (r *LeadRepository) ListAll(ctx context.Context, filters LeadFilters) ([]entity.Lead, error) {
	where, args := filters.where()
	return r.queryLeads(ctx, `SELECT `+leadColumns+` FROM leads`+where+` ORDER BY created_at DESC`, args...)
}

func (r *LeadRepository) ListByUserID(ctx context.Context, userID string) ([]entity.Lead, error) {
	return r.queryLeads(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *LeadRepository) queryLeads(ctx context.Context, query string, args ...any) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead          entity.Lead
		email         sql.NullString
		phone         sql.NullString
		userID        sql.NullString
		links         []byte
		files         []byte
		attribution   []byte
		internalNotes []byte
	)
	err := row.Scan(
		&lead.LeadID,
		&lead.FirstName,
		&email,
		&phone,
		&lead.Notes,
		&lead.ProductType,
		&lead.Occasion,
		&lead.Deadline,
		&lead.SettingStyle,
		&lead.BraceletWristSize,
		&lead.BraceletMetal,
		&lead.DiamondShape,
		&lead.CaratRange,
		&lead.Priority,
		&lead.Metal,
		&lead.RingSizeKnown,
		&lead.RingSize,
		&lead.Budget,
		&lead.HasInspiration,
		&links,
		&files,
		&attribution,
		&lead.Status,
		&internalNotes,
		&userID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = fromNullString(email)
	lead.Phone = fromNullString(phone)
	lead.UserID = fromNullString(userID)
	if err := unmarshalJSONB(links, &lead.InspirationLinks); err != nil {
		return nil, fmt.Errorf("decode inspiration links: %w", err)
	}
	if err := unmarshalJSONB(files, &lead.InspirationFiles); err != nil {
		return nil, fmt.Errorf("decode inspiration files: %w", err)
	}
	if err := unmarshalJSONB(attribution, &lead.Attribution); err != nil {
		return nil, fmt.Errorf("decode attribution: %w", err)
	}
	if err := unmarshalJSONB(internalNotes, &lead.InternalNotes); err != nil {
		return nil, fmt.Errorf("decode internal notes: %w", err)
	}

	return &lead, nil
}
