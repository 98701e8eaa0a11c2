// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "slices"

// Member roles that bypass enrollment checks.
const (
	RoleModerator  = "moderator"
	RoleInstructor = "instructor"
)

// Course is an LMS course.
type Course struct {
	UID         string   `json:"uid"`
	Title       string   `json:"title"`
	Instructors []string `json:"instructors,omitempty"`
}

// HasInstructor reports whether member teaches the course.
func (c *Course) HasInstructor(member string) bool {
	return c != nil && slices.Contains(c.Instructors, member)
}

// Lesson is a lesson that belongs to a course.
type Lesson struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	CourseUID string `json:"course_uid"`
}

// Batch groups students that take one or more courses together.
// Courses keeps the order in which the courses were attached.
type Batch struct {
	UID         string   `json:"uid"`
	Title       string   `json:"title"`
	Courses     []string `json:"courses,omitempty"`
	Instructors []string `json:"instructors,omitempty"`
}

// HasInstructor reports whether member teaches the batch.
func (b *Batch) HasInstructor(member string) bool {
	return b != nil && slices.Contains(b.Instructors, member)
}

// Enrollment links a member to a course or a batch.
type Enrollment struct {
	UID        string `json:"uid"`
	Member     string `json:"member"`
	MemberName string `json:"member_name,omitempty"`
	CourseUID  string `json:"course_uid,omitempty"`
	BatchUID   string `json:"batch_uid,omitempty"`
}

// Member is an LMS user.
type Member struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole reports whether the member holds role.
func (m *Member) HasRole(role string) bool {
	return m != nil && slices.Contains(m.Roles, role)
}

// IsPrivileged reports whether the member is a moderator or an instructor.
func (m *Member) IsPrivileged() bool {
	return m.HasRole(RoleModerator) || m.HasRole(RoleInstructor)
}

// DisplayName returns the full name, falling back to the email address.
func (m *Member) DisplayName() string {
	if m == nil {
		return ""
	}
	if m.FullName != "" {
		return m.FullName
	}
	return m.Email
}
