package student_test

import (
	"encoding/json"
	"testing"
	"time"

	"student-manager/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("ParseAndFormat", func(t *testing.T) {
		d, err := student.ParseDate("2004-03-15")
		require.NoError(t, err)
		assert.Equal(t, "2004-03-15", d.String())

		_, err = student.ParseDate("15/03/2004")
		assert.Error(t, err)

		_, err = student.ParseDate("2004-13-40")
		assert.Error(t, err)
	})

	t.Run("JSONRoundTrip", func(t *testing.T) {
		d := student.NewDate(2004, time.March, 15)
		encoded, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2004-03-15"`, string(encoded))

		var decoded student.Date
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, d.String(), decoded.String())
	})

	t.Run("ScanTimestampString", func(t *testing.T) {
		var d student.Date
		require.NoError(t, d.Scan("2004-03-15 00:00:00"))
		assert.Equal(t, "2004-03-15", d.String())
	})

	t.Run("YearsUntil", func(t *testing.T) {
		birth := student.NewDate(2000, time.June, 10)

		before := time.Date(2020, time.June, 9, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 19, birth.YearsUntil(before))

		on := time.Date(2020, time.June, 10, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 20, birth.YearsUntil(on))

		after := time.Date(2020, time.June, 11, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 20, birth.YearsUntil(after))
	})
}

func TestStudentDeriveAge(t *testing.T) {
	s := student.Student{BirthDate: student.NewDate(2004, time.March, 15)}
	s.DeriveAge()
	assert.Equal(t, s.AgeYears(), s.Age)
	assert.Greater(t, s.Age, 0)
}
