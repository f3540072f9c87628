package console_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"student-manager/internal/auth"
	"student-manager/internal/console"
	"student-manager/internal/student"
	"student-manager/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSession feeds the scripted input lines to a fresh console over an
// in-memory database and returns everything it printed.
func runSession(t *testing.T, lines ...string) string {
	t.Helper()

	database := testutil.NewDB(t, (*student.Student)(nil), (*auth.User)(nil))
	studentService := student.NewService(student.NewRepository(database))
	authService := auth.NewService(auth.NewRepository(database))
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var output bytes.Buffer

	c := console.New(studentService, authService, input, &output, logger)
	require.NoError(t, c.Run(context.Background()))

	return output.String()
}

func TestConsoleFullSession(t *testing.T) {
	output := runSession(t,
		// register then log in
		"2", "alice", "secret", "secret",
		"1", "alice", "secret",
		// add a student
		"1",
		"S2023001", "Zhang Wei", "male", "2004-03-15",
		"Computer Science", "CS-1",
		"13812345678", "zhang.wei@example.com", "",
		// list all, look one up by number
		"8",
		"5", "S2023001",
		// delete it with confirmation
		"2", "1", "y",
		"8",
		// exit
		"0",
	)

	assert.Contains(t, output, "Account created, you can now log in.")
	assert.Contains(t, output, "Welcome, alice!")
	assert.Contains(t, output, "Student added with ID 1.")
	assert.Contains(t, output, "1 student(s) found.")
	assert.Contains(t, output, "Student details")
	assert.Contains(t, output, "Zhang Wei")
	assert.Contains(t, output, "Student deleted.")
	assert.Contains(t, output, "No students found.")
	assert.Contains(t, output, "Goodbye!")
}

func TestConsoleLoginFailures(t *testing.T) {
	output := runSession(t,
		"2", "alice", "secret", "secret",
		"1", "alice", "wrong",
		"1", "nobody", "secret",
		"0",
	)

	assert.Contains(t, output, "Login failed: wrong password")
	assert.Contains(t, output, "Login failed: user not found")
	assert.NotContains(t, output, "Main Menu")
}

func TestConsoleRegisterMismatch(t *testing.T) {
	output := runSession(t,
		"2", "alice", "secret", "other",
		"0",
	)

	assert.Contains(t, output, "Registration failed: passwords do not match")
}

func TestConsoleAddValidationAndCancel(t *testing.T) {
	output := runSession(t,
		"2", "alice", "secret", "secret",
		"1", "alice", "secret",
		// invalid gender surfaces the rule and returns to the menu
		"1",
		"S2023001", "Zhang Wei", "unknown", "2004-03-15",
		"Computer Science", "CS-1",
		"", "", "",
		// cancel mid-entry
		"1",
		"S2023002", "0",
		"8",
		"0",
	)

	assert.Contains(t, output, `Add failed: Gender must be "male" or "female"`)
	assert.Contains(t, output, "Operation canceled.")
	assert.Contains(t, output, "No students found.")
}

func TestConsoleUpdateKeepsCurrentValues(t *testing.T) {
	output := runSession(t,
		"2", "alice", "secret", "secret",
		"1", "alice", "secret",
		"1",
		"S2023001", "Zhang Wei", "male", "2004-03-15",
		"Computer Science", "CS-1",
		"13812345678", "", "",
		// update: change name only, clear the phone, keep the rest
		"3", "1",
		"", "Zhang Wei Jr", "", "",
		"", "",
		"-", "", "",
		"4", "1",
		"0",
	)

	assert.Contains(t, output, "Student updated.")
	assert.Contains(t, output, "Zhang Wei Jr")
	assert.Contains(t, output, "Phone:          N/A")
}

func TestConsoleDeleteDeclined(t *testing.T) {
	output := runSession(t,
		"2", "alice", "secret", "secret",
		"1", "alice", "secret",
		"1",
		"S2023001", "Zhang Wei", "male", "2004-03-15",
		"Computer Science", "CS-1",
		"", "", "",
		"2", "1", "n",
		"8",
		"0",
	)

	assert.Contains(t, output, "Operation canceled.")
	assert.Contains(t, output, "1 student(s) found.")
}

func TestConsoleEndOfInputExits(t *testing.T) {
	output := runSession(t)
	assert.Contains(t, output, "Goodbye!")
}
