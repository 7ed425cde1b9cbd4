package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumekit/cv-service/internal/domain"
)

// CVRepository encapsulates CV persistence. Child collections are always
// written as a whole: a save replaces every education, skill, experience
// and project row of the CV.
type CVRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CV, error)
	GetPrimary(ctx context.Context, ownerID string) (*domain.CV, error)
	// UpsertPrimary creates or updates the single primary CV of cv.OwnerID
	// and fills in the stored identifiers.
	UpsertPrimary(ctx context.Context, cv *domain.CV) error
	// CreateSnapshot stores cv as a new snapshot of cv.OwnerID.
	CreateSnapshot(ctx context.Context, cv *domain.CV) error
	// DeleteSnapshot removes a snapshot only when it belongs to ownerID.
	DeleteSnapshot(ctx context.Context, id, ownerID string) error
}

type cvRepository struct {
	pool *pgxpool.Pool
}

// NewCVRepository instantiates repository.
func NewCVRepository(pool *pgxpool.Pool) CVRepository {
	return &cvRepository{pool: pool}
}

const cvColumns = `id, owner_id, kind, personal_info, created_at, updated_at`

func (r *cvRepository) GetByID(ctx context.Context, id string) (*domain.CV, error) {
	const query = `SELECT ` + cvColumns + ` FROM cvs WHERE id=$1`
	return r.fetchGraph(ctx, query, id)
}

func (r *cvRepository) GetPrimary(ctx context.Context, ownerID string) (*domain.CV, error) {
	const query = `SELECT ` + cvColumns + ` FROM cvs WHERE owner_id=$1 AND kind='primary'`
	return r.fetchGraph(ctx, query, ownerID)
}

func (r *cvRepository) UpsertPrimary(ctx context.Context, cv *domain.CV) error {
	// The partial unique index on (owner_id) WHERE kind='primary' makes
	// concurrent first saves of one account converge on a single row.
	const query = `
        INSERT INTO cvs (owner_id, kind, personal_info)
        VALUES ($1, 'primary', $2)
        ON CONFLICT (owner_id) WHERE kind = 'primary'
        DO UPDATE SET personal_info = EXCLUDED.personal_info, updated_at = NOW()
        RETURNING id, created_at, updated_at`

	cv.Kind = domain.CVKindPrimary
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, cv.OwnerID, cv.PersonalInfo).
			Scan(&cv.ID, &cv.CreatedAt, &cv.UpdatedAt); err != nil {
			return mapPgError(err)
		}
		return replaceChildren(ctx, tx, cv, true)
	})
}

func (r *cvRepository) CreateSnapshot(ctx context.Context, cv *domain.CV) error {
	const query = `
        INSERT INTO cvs (owner_id, kind, personal_info)
        VALUES ($1, 'snapshot', $2)
        RETURNING id, created_at, updated_at`

	cv.Kind = domain.CVKindSnapshot
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, cv.OwnerID, cv.PersonalInfo).
			Scan(&cv.ID, &cv.CreatedAt, &cv.UpdatedAt); err != nil {
			return mapPgError(err)
		}
		return replaceChildren(ctx, tx, cv, false)
	})
}

func (r *cvRepository) DeleteSnapshot(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM cvs WHERE id=$1 AND owner_id=$2 AND kind='snapshot'`
	cmd, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func replaceChildren(ctx context.Context, tx pgx.Tx, cv *domain.CV, clear bool) error {
	batch := &pgx.Batch{}
	if clear {
		batch.Queue(`DELETE FROM cv_education WHERE cv_id=$1`, cv.ID)
		batch.Queue(`DELETE FROM cv_skills WHERE cv_id=$1`, cv.ID)
		batch.Queue(`DELETE FROM cv_experience WHERE cv_id=$1`, cv.ID)
		batch.Queue(`DELETE FROM cv_projects WHERE cv_id=$1`, cv.ID)
	}

	for i := range cv.Education {
		e := &cv.Education[i]
		e.ID = uuid.NewString()
		batch.Queue(`
            INSERT INTO cv_education (id, cv_id, position, institution, degree, field, gpa, start_date, end_date)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			e.ID, cv.ID, i, e.Institution, e.Degree, e.Field, e.GPA, e.StartDate, e.EndDate)
	}
	for i := range cv.Skills {
		s := &cv.Skills[i]
		s.ID = uuid.NewString()
		batch.Queue(`
            INSERT INTO cv_skills (id, cv_id, position, category, items)
            VALUES ($1,$2,$3,$4,$5)`,
			s.ID, cv.ID, i, s.Category, nonNil(s.Items))
	}
	for i := range cv.Experience {
		e := &cv.Experience[i]
		e.ID = uuid.NewString()
		batch.Queue(`
            INSERT INTO cv_experience (id, cv_id, position, title, company, location, start_date, end_date, responsibilities)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			e.ID, cv.ID, i, e.Title, e.Company, e.Location, e.StartDate, e.EndDate, nonNil(e.Responsibilities))
	}
	for i := range cv.Projects {
		p := &cv.Projects[i]
		p.ID = uuid.NewString()
		batch.Queue(`
            INSERT INTO cv_projects (id, cv_id, position, title, link, start_date, end_date, description)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.ID, cv.ID, i, p.Title, p.Link, p.StartDate, p.EndDate, nonNil(p.Description))
	}

	if batch.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return mapPgError(err)
		}
	}
	return results.Close()
}

func (r *cvRepository) fetchGraph(ctx context.Context, query string, arg any) (*domain.CV, error) {
	var cv domain.CV
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&cv.ID,
		&cv.OwnerID,
		&cv.Kind,
		&cv.PersonalInfo,
		&cv.CreatedAt,
		&cv.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`
        SELECT id, institution, degree, field, gpa, start_date, end_date
        FROM cv_education WHERE cv_id=$1 ORDER BY position`, cv.ID).
		Query(func(rows pgx.Rows) error {
			for rows.Next() {
				var e domain.Education
				if err := rows.Scan(&e.ID, &e.Institution, &e.Degree, &e.Field, &e.GPA, &e.StartDate, &e.EndDate); err != nil {
					return err
				}
				cv.Education = append(cv.Education, e)
			}
			return rows.Err()
		})
	batch.Queue(`
        SELECT id, category, items
        FROM cv_skills WHERE cv_id=$1 ORDER BY position`, cv.ID).
		Query(func(rows pgx.Rows) error {
			for rows.Next() {
				var s domain.Skill
				if err := rows.Scan(&s.ID, &s.Category, &s.Items); err != nil {
					return err
				}
				cv.Skills = append(cv.Skills, s)
			}
			return rows.Err()
		})
	batch.Queue(`
        SELECT id, title, company, location, start_date, end_date, responsibilities
        FROM cv_experience WHERE cv_id=$1 ORDER BY position`, cv.ID).
		Query(func(rows pgx.Rows) error {
			for rows.Next() {
				var e domain.Experience
				if err := rows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.StartDate, &e.EndDate, &e.Responsibilities); err != nil {
					return err
				}
				cv.Experience = append(cv.Experience, e)
			}
			return rows.Err()
		})
	batch.Queue(`
        SELECT id, title, link, start_date, end_date, description
        FROM cv_projects WHERE cv_id=$1 ORDER BY position`, cv.ID).
		Query(func(rows pgx.Rows) error {
			for rows.Next() {
				var p domain.Project
				if err := rows.Scan(&p.ID, &p.Title, &p.Link, &p.StartDate, &p.EndDate, &p.Description); err != nil {
					return err
				}
				cv.Projects = append(cv.Projects, p)
			}
			return rows.Err()
		})

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, err
	}
	return &cv, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
