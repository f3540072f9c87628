package student

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Student is the record managed by this system. Validation tags are
// declared in the order the rules are checked; the first failing field
// is the one reported.
type Student struct {
	bun.BaseModel `bun:"table:students"`

	ID        int    `bun:"id,pk,autoincrement" json:"id"`
	StudentNo string `bun:"student_no,notnull,unique" json:"studentNo" validate:"required"`
	Name      string `bun:"name,notnull" json:"name" validate:"required"`
	Gender    string `bun:"gender,notnull" json:"gender" validate:"required,oneof=male female"`
	BirthDate Date   `bun:"birth_date,notnull,type:date" json:"birthDate" validate:"required,notfuture"`
	Major     string `bun:"major,notnull" json:"major" validate:"required"`
	ClassName string `bun:"class_name,notnull" json:"className" validate:"required"`
	Phone     string `bun:"phone" json:"phone" validate:"omitempty,cnmobile"`
	Email     string `bun:"email" json:"email" validate:"omitempty,basicemail"`
	Address   string `bun:"address" json:"address"`

	// Age is derived from BirthDate on the way out; it is never stored.
	Age int `bun:"-" json:"age"`
}

// Normalize trims surrounding whitespace from every text field.
func (s *Student) Normalize() {
	s.StudentNo = strings.TrimSpace(s.StudentNo)
	s.Name = strings.TrimSpace(s.Name)
	s.Gender = strings.TrimSpace(s.Gender)
	s.Major = strings.TrimSpace(s.Major)
	s.ClassName = strings.TrimSpace(s.ClassName)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = strings.TrimSpace(s.Email)
	s.Address = strings.TrimSpace(s.Address)
}

// AgeYears returns the student's age in completed years as of today.
func (s *Student) AgeYears() int {
	return s.BirthDate.YearsUntil(time.Now())
}

// DeriveAge fills the Age field and returns the record for chaining.
func (s *Student) DeriveAge() *Student {
	s.Age = s.AgeYears()
	return s
}

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component. It travels as
// "YYYY-MM-DD" in JSON and over the database driver.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// YearsUntil counts the completed years between the date and ref,
// accounting for whether the anniversary has passed yet.
func (d Date) YearsUntil(ref time.Time) int {
	if d.IsZero() {
		return 0
	}
	years := ref.Year() - d.Year()
	anniversary := time.Date(ref.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ref.Location())
	if ref.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Date{Time: v}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("unsupported date source type %T", src)
	}
}

func (d *Date) scanString(value string) error {
	if value == "" {
		*d = Date{}
		return nil
	}
	// Some drivers hand back a full timestamp for date columns.
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
