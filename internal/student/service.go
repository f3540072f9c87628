package student

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateStudentNo = errors.New("student number already in use")
)

// Service is the single business-rule gate shared by the HTTP and console
// adapters. Every mutation passes the ordered validation checks and the
// student-number uniqueness rule before it reaches the repository.
type Service interface {
	AddStudent(ctx context.Context, student *Student) (*Student, error)
	UpdateStudent(ctx context.Context, student *Student) error
	DeleteStudent(ctx context.Context, id int) error
	DeleteStudentByNumber(ctx context.Context, studentNo string) error
	GetStudentByID(ctx context.Context, id int) (*Student, error)
	GetStudentByNumber(ctx context.Context, studentNo string) (*Student, error)
	SearchStudentsByName(ctx context.Context, fragment string) ([]Student, error)
	GetStudentsByMajor(ctx context.Context, major string) ([]Student, error)
	ListStudents(ctx context.Context, sort Sort) ([]Student, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: newValidator(),
	}
}

func (s *service) AddStudent(ctx context.Context, student *Student) (*Student, error) {
	// The storage layer assigns the id; anything the caller set is discarded
	// so the insert never writes a caller-chosen primary key.
	student.ID = 0

	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByNumber(ctx, student.StudentNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateStudentNo
	}

	return s.repo.Create(ctx, student)
}

func (s *service) UpdateStudent(ctx context.Context, student *Student) error {
	if err := s.validateStudent(student); err != nil {
		return err
	}
	if student.ID <= 0 {
		return ErrInvalidInput
	}

	// A record may keep its own number but must not take another row's.
	existing, err := s.repo.GetByNumber(ctx, student.StudentNo)
	if err != nil && !errors.Is(err, ErrStudentNotFound) {
		return err
	}
	if existing != nil && existing.ID != student.ID {
		return ErrDuplicateStudentNo
	}

	return s.repo.Update(ctx, student)
}

func (s *service) DeleteStudent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.DeleteByID(ctx, id)
}

func (s *service) DeleteStudentByNumber(ctx context.Context, studentNo string) error {
	studentNo = strings.TrimSpace(studentNo)
	if studentNo == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByNumber(ctx, studentNo)
}

func (s *service) GetStudentByID(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetStudentByNumber(ctx context.Context, studentNo string) (*Student, error) {
	studentNo = strings.TrimSpace(studentNo)
	if studentNo == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByNumber(ctx, studentNo)
}

func (s *service) SearchStudentsByName(ctx context.Context, fragment string) ([]Student, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.SearchByName(ctx, fragment)
}

func (s *service) GetStudentsByMajor(ctx context.Context, major string) ([]Student, error) {
	major = strings.TrimSpace(major)
	if major == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByMajor(ctx, major)
}

func (s *service) ListStudents(ctx context.Context, sort Sort) ([]Student, error) {
	return s.repo.GetAll(ctx, sort)
}

// validateStudent runs the ordered field checks and reports the first
// failure. The record is normalized in place, so storage always sees the
// trimmed form.
func (s *service) validateStudent(student *Student) error {
	if student == nil {
		return &ValidationError{Field: "student", Reason: "must not be empty"}
	}
	student.Normalize()

	err := s.validate.Struct(student)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return describeFieldError(fieldErrs[0])
	}
	return err
}
