package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// Sort selects the ordering of full listings. The GUI table offers a
// sort-by-number toggle; everything else lists in id order.
type Sort string

const (
	SortByID         Sort = ""
	SortByNumberAsc  Sort = "no_asc"
	SortByNumberDesc Sort = "no_desc"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	GetByNumber(ctx context.Context, studentNo string) (*Student, error)
	SearchByName(ctx context.Context, fragment string) ([]Student, error)
	GetByMajor(ctx context.Context, major string) ([]Student, error)
	GetAll(ctx context.Context, sort Sort) ([]Student, error)
	ExistsByNumber(ctx context.Context, studentNo string) (bool, error)
	Update(ctx context.Context, student *Student) error
	DeleteByID(ctx context.Context, id int) error
	DeleteByNumber(ctx context.Context, studentNo string) error
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	_, err := r.db.NewInsert().Model(student).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) GetByNumber(ctx context.Context, studentNo string) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("student_no = ?", studentNo).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) SearchByName(ctx context.Context, fragment string) ([]Student, error) {
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Where("name LIKE ?", "%"+fragment+"%").
		Order("id ASC").
		Scan(ctx)
	return students, err
}

func (r *repository) GetByMajor(ctx context.Context, major string) ([]Student, error) {
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Where("major = ?", major).
		Order("id ASC").
		Scan(ctx)
	return students, err
}

func (r *repository) GetAll(ctx context.Context, sort Sort) ([]Student, error) {
	var students []Student
	q := r.db.NewSelect().Model(&students)
	switch sort {
	case SortByNumberAsc:
		q = q.Order("student_no ASC")
	case SortByNumberDesc:
		q = q.Order("student_no DESC")
	default:
		q = q.Order("id ASC")
	}
	err := q.Scan(ctx)
	return students, err
}

func (r *repository) ExistsByNumber(ctx context.Context, studentNo string) (bool, error) {
	return r.db.NewSelect().
		Model((*Student)(nil)).
		Where("student_no = ?", studentNo).
		Exists(ctx)
}

func (r *repository) Update(ctx context.Context, student *Student) error {
	result, err := r.db.NewUpdate().Model(student).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

func (r *repository) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.NewDelete().
		Model((*Student)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

func (r *repository) DeleteByNumber(ctx context.Context, studentNo string) error {
	result, err := r.db.NewDelete().
		Model((*Student)(nil)).
		Where("student_no = ?", studentNo).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}
