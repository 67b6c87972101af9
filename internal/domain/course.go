package domain

// Course groups assignments and enrolled users.
type Course struct {
	ID          int64
	Code        string
	Name        string
	Assignments []*Assignment
	Instructors []*CourseUser
	Students    []*CourseUser
}

// Assignment belongs to a single course. DueDate is a unix timestamp.
type Assignment struct {
	ID       int64
	CourseID int64
	Title    string
	DueDate  int64
}

// CourseUser is a course-management user, enrolled in courses as a
// student or an instructor.
type CourseUser struct {
	ID      int64
	Name    string
	NetID   string
	Courses []*Course
}

// EnrollmentType distinguishes the two enrollment roles.
type EnrollmentType string

const (
	EnrollStudent    EnrollmentType = "student"
	EnrollInstructor EnrollmentType = "instructor"
)

// Valid reports whether the enrollment type is known.
func (e EnrollmentType) Valid() bool {
	return e == EnrollStudent || e == EnrollInstructor
}
