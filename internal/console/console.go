package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"student-manager/internal/auth"
	"student-manager/internal/student"
)

// Console is the terminal adapter. Like the HTTP handler it is pure
// plumbing over the student and auth services; no rule lives here.
type Console struct {
	students student.Service
	auth     *auth.Service
	in       *bufio.Scanner
	out      io.Writer
	logger   *slog.Logger
}

func New(students student.Service, authService *auth.Service, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		students: students,
		auth:     authService,
		in:       bufio.NewScanner(in),
		out:      out,
		logger:   logger,
	}
}

// Run drives the session: the login gate first, then the menu loop until
// the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "=================================================")
	fmt.Fprintln(c.out, "            Student Management System")
	fmt.Fprintln(c.out, "=================================================")

	if !c.authenticate(ctx) {
		return nil
	}

	for {
		c.printMenu()
		choice, ok := c.promptInt("Select an option")
		if !ok {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}

		switch choice {
		case 1:
			c.addStudent(ctx)
		case 2:
			c.deleteStudent(ctx)
		case 3:
			c.updateStudent(ctx)
		case 4:
			c.findByID(ctx)
		case 5:
			c.findByNumber(ctx)
		case 6:
			c.findByName(ctx)
		case 7:
			c.findByMajor(ctx)
		case 8:
			c.listAll(ctx)
		default:
			fmt.Fprintln(c.out, "Invalid choice, please try again.")
		}
	}
}

// authenticate runs the login gate. The session stays unauthenticated
// across any number of failed attempts; only a successful login opens
// the menu.
func (c *Console) authenticate(ctx context.Context) bool {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "1) Log in")
		fmt.Fprintln(c.out, "2) Register")
		fmt.Fprintln(c.out, "0) Exit")

		choice, ok := c.promptInt("Select an option")
		if !ok {
			fmt.Fprintln(c.out, "Goodbye!")
			return false
		}

		switch choice {
		case 1:
			username := c.readLine("Username: ")
			password := c.readLine("Password: ")
			user, err := c.auth.Login(ctx, username, password)
			if err != nil {
				c.logger.Warn("login failed", "username", username, "error", err)
				fmt.Fprintf(c.out, "Login failed: %v\n", err)
				continue
			}
			c.logger.Info("user logged in", "username", user.Username)
			fmt.Fprintf(c.out, "Welcome, %s!\n", user.Username)
			return true
		case 2:
			username := c.readLine("Username: ")
			password := c.readLine("Password: ")
			confirm := c.readLine("Confirm password: ")
			if err := c.auth.Register(ctx, username, password, confirm); err != nil {
				fmt.Fprintf(c.out, "Registration failed: %v\n", err)
				continue
			}
			fmt.Fprintln(c.out, "Account created, you can now log in.")
		default:
			fmt.Fprintln(c.out, "Invalid choice, please try again.")
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "==================== Main Menu ====================")
	fmt.Fprintln(c.out, "1) Add student")
	fmt.Fprintln(c.out, "2) Delete student")
	fmt.Fprintln(c.out, "3) Update student")
	fmt.Fprintln(c.out, "4) Find student by ID")
	fmt.Fprintln(c.out, "5) Find student by number")
	fmt.Fprintln(c.out, "6) Find students by name")
	fmt.Fprintln(c.out, "7) Find students by major")
	fmt.Fprintln(c.out, "8) List all students")
	fmt.Fprintln(c.out, "0) Exit")
}

func (c *Console) addStudent(ctx context.Context) {
	fmt.Fprintln(c.out, "\n---- Add student (enter 0 at any field to cancel) ----")

	labels := []string{
		"Student number",
		"Name",
		"Gender (male/female)",
		"Birth date (YYYY-MM-DD)",
		"Major",
		"Class",
		"Phone (optional)",
		"Email (optional)",
		"Address (optional)",
	}

	values := make([]string, len(labels))
	for i, label := range labels {
		input := c.readLine(label + ": ")
		if input == "0" {
			fmt.Fprintln(c.out, "Operation canceled.")
			return
		}
		values[i] = input
	}

	birthDate, err := student.ParseDate(values[3])
	if values[3] != "" && err != nil {
		fmt.Fprintf(c.out, "Add failed: %v\n", err)
		return
	}

	record := &student.Student{
		StudentNo: values[0],
		Name:      values[1],
		Gender:    values[2],
		BirthDate: birthDate,
		Major:     values[4],
		ClassName: values[5],
		Phone:     values[6],
		Email:     values[7],
		Address:   values[8],
	}

	created, err := c.students.AddStudent(ctx, record)
	if err != nil {
		fmt.Fprintf(c.out, "Add failed: %v\n", err)
		return
	}
	c.logger.Info("student added", "id", created.ID, "student_no", created.StudentNo)
	fmt.Fprintf(c.out, "Student added with ID %d.\n", created.ID)
}

func (c *Console) deleteStudent(ctx context.Context) {
	fmt.Fprintln(c.out, "\n---- Delete student ----")

	id, ok := c.promptInt("Student ID (0 to cancel)")
	if !ok {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}

	record, err := c.students.GetStudentByID(ctx, id)
	if err != nil {
		fmt.Fprintf(c.out, "Lookup failed: %v\n", err)
		return
	}
	c.printStudent(record)

	confirm := c.readLine("Delete this student? (y/n): ")
	if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}

	if err := c.students.DeleteStudent(ctx, id); err != nil {
		fmt.Fprintf(c.out, "Delete failed: %v\n", err)
		return
	}
	c.logger.Info("student deleted", "id", id)
	fmt.Fprintln(c.out, "Student deleted.")
}

func (c *Console) updateStudent(ctx context.Context) {
	fmt.Fprintln(c.out, "\n---- Update student ----")

	id, ok := c.promptInt("Student ID (0 to cancel)")
	if !ok {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}

	record, err := c.students.GetStudentByID(ctx, id)
	if err != nil {
		fmt.Fprintf(c.out, "Lookup failed: %v\n", err)
		return
	}
	c.printStudent(record)

	fmt.Fprintln(c.out, "Enter new values (press enter to keep the current value, \"-\" to clear an optional field):")

	record.StudentNo = c.promptWithDefault("Student number", record.StudentNo)
	record.Name = c.promptWithDefault("Name", record.Name)
	record.Gender = c.promptWithDefault("Gender (male/female)", record.Gender)

	birthInput := c.readLine(fmt.Sprintf("Birth date (YYYY-MM-DD) [%s]: ", record.BirthDate))
	if birthInput != "" {
		birthDate, err := student.ParseDate(birthInput)
		if err != nil {
			fmt.Fprintf(c.out, "Update failed: %v\n", err)
			return
		}
		record.BirthDate = birthDate
	}

	record.Major = c.promptWithDefault("Major", record.Major)
	record.ClassName = c.promptWithDefault("Class", record.ClassName)
	record.Phone = c.promptOptionalWithDefault("Phone", record.Phone)
	record.Email = c.promptOptionalWithDefault("Email", record.Email)
	record.Address = c.promptOptionalWithDefault("Address", record.Address)

	if err := c.students.UpdateStudent(ctx, record); err != nil {
		fmt.Fprintf(c.out, "Update failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Student updated.")
}

func (c *Console) findByID(ctx context.Context) {
	id, ok := c.promptInt("Student ID (0 to cancel)")
	if !ok {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}
	record, err := c.students.GetStudentByID(ctx, id)
	if err != nil {
		fmt.Fprintf(c.out, "Lookup failed: %v\n", err)
		return
	}
	c.printStudent(record)
}

func (c *Console) findByNumber(ctx context.Context) {
	no := c.readLine("Student number (0 to cancel): ")
	if no == "0" {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}
	record, err := c.students.GetStudentByNumber(ctx, no)
	if err != nil {
		fmt.Fprintf(c.out, "Lookup failed: %v\n", err)
		return
	}
	c.printStudent(record)
}

func (c *Console) findByName(ctx context.Context) {
	fragment := c.readLine("Name contains (0 to cancel): ")
	if fragment == "0" {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}
	records, err := c.students.SearchStudentsByName(ctx, fragment)
	if err != nil {
		fmt.Fprintf(c.out, "Search failed: %v\n", err)
		return
	}
	c.printStudents(records)
}

func (c *Console) findByMajor(ctx context.Context) {
	major := c.readLine("Major (0 to cancel): ")
	if major == "0" {
		fmt.Fprintln(c.out, "Operation canceled.")
		return
	}
	records, err := c.students.GetStudentsByMajor(ctx, major)
	if err != nil {
		fmt.Fprintf(c.out, "Search failed: %v\n", err)
		return
	}
	c.printStudents(records)
}

func (c *Console) listAll(ctx context.Context) {
	records, err := c.students.ListStudents(ctx, student.SortByID)
	if err != nil {
		fmt.Fprintf(c.out, "Listing failed: %v\n", err)
		return
	}
	c.printStudents(records)
}

func (c *Console) printStudent(s *student.Student) {
	fmt.Fprintln(c.out, "\n---- Student details ----")
	fmt.Fprintf(c.out, "ID:             %d\n", s.ID)
	fmt.Fprintf(c.out, "Student number: %s\n", s.StudentNo)
	fmt.Fprintf(c.out, "Name:           %s\n", s.Name)
	fmt.Fprintf(c.out, "Gender:         %s\n", s.Gender)
	fmt.Fprintf(c.out, "Birth date:     %s\n", s.BirthDate)
	fmt.Fprintf(c.out, "Age:            %d\n", s.AgeYears())
	fmt.Fprintf(c.out, "Major:          %s\n", s.Major)
	fmt.Fprintf(c.out, "Class:          %s\n", s.ClassName)
	fmt.Fprintf(c.out, "Phone:          %s\n", orNA(s.Phone))
	fmt.Fprintf(c.out, "Email:          %s\n", orNA(s.Email))
	fmt.Fprintf(c.out, "Address:        %s\n", orNA(s.Address))
}

func (c *Console) printStudents(records []student.Student) {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No students found.")
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNumber\tName\tGender\tAge\tBirth date\tMajor\tClass\tPhone")
	for i := range records {
		s := &records[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.StudentNo, s.Name, s.Gender, s.AgeYears(), s.BirthDate,
			s.Major, s.ClassName, orNA(s.Phone))
	}
	w.Flush()
	fmt.Fprintf(c.out, "%d student(s) found.\n", len(records))
}

// readLine prints the prompt and returns the trimmed next input line.
// End of input reads as "0" so every pending operation cancels and the
// menu loop exits cleanly.
func (c *Console) readLine(prompt string) string {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "0"
	}
	return strings.TrimSpace(c.in.Text())
}

// promptInt reads a positive integer; 0 (or end of input) cancels.
func (c *Console) promptInt(label string) (int, bool) {
	for {
		input := c.readLine(label + ": ")
		n, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a valid number.")
			continue
		}
		if n == 0 {
			return 0, false
		}
		return n, true
	}
}

func (c *Console) promptWithDefault(label, current string) string {
	input := c.readLine(fmt.Sprintf("%s [%s]: ", label, current))
	if input == "" {
		return current
	}
	return input
}

func (c *Console) promptOptionalWithDefault(label, current string) string {
	display := current
	if display == "" {
		display = "none"
	}
	input := c.readLine(fmt.Sprintf("%s [%s]: ", label, display))
	switch input {
	case "":
		return current
	case "-":
		return ""
	default:
		return input
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
