package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Active         *bool
	Department     *string
	ExcludeStaffID *string
}

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	UpdatePIN(ctx context.Context, id, pinHash string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByStaffID(ctx context.Context, staffID string) (*domain.StaffMember, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
	Overview(ctx context.Context) (*domain.StaffOverview, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, staff_id, pin_hash, name, position, department, email, phone, active_flag, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (staff_id, pin_hash, name, position, department, email, phone, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.StaffID,
		staff.PINHash,
		staff.Name,
		staff.Position,
		staff.Department,
		staff.Email,
		staff.Phone,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET name=$1, position=$2, department=$3, email=$4, phone=$5, active_flag=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		staff.Name,
		staff.Position,
		staff.Department,
		staff.Email,
		staff.Phone,
		staff.Active,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) UpdatePIN(ctx context.Context, id, pinHash string) error {
	const query = `UPDATE staff_members SET pin_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, pinHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_members WHERE id=$1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrHasVotes
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffRepository) GetByStaffID(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE staff_id=$1`
	return r.fetchSingle(ctx, query, staffID)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.StaffID,
		&staff.PINHash,
		&staff.Name,
		&staff.Position,
		&staff.Department,
		&staff.Email,
		&staff.Phone,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members`
	args := []any{}
	clauses := []string{}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.ExcludeStaffID != nil {
		args = append(args, *filter.ExcludeStaffID)
		clauses = append(clauses, fmt.Sprintf("staff_id<>$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		var staff domain.StaffMember
		if err := rows.Scan(
			&staff.ID,
			&staff.StaffID,
			&staff.PINHash,
			&staff.Name,
			&staff.Position,
			&staff.Department,
			&staff.Email,
			&staff.Phone,
			&staff.Active,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Overview(ctx context.Context) (*domain.StaffOverview, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE active_flag),
               COUNT(*) FILTER (WHERE NOT active_flag),
               COUNT(DISTINCT department)
        FROM staff_members`

	var overview domain.StaffOverview
	if err := r.pool.QueryRow(ctx, query).Scan(
		&overview.TotalStaff,
		&overview.ActiveStaff,
		&overview.InactiveStaff,
		&overview.Departments,
	); err != nil {
		return nil, err
	}
	return &overview, nil
}
