package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

// AcademicHandler manages the reference data the rest of the system hangs
// off: departments, courses, classes and subject assignments.
type AcademicHandler struct {
	db *gorm.DB
}

func NewAcademicHandler(db *gorm.DB) *AcademicHandler {
	return &AcademicHandler{db: db}
}

type departmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required,max=10"`
	HeadID      *uint  `json:"head_id"`
	Description string `json:"description"`
}

func (h *AcademicHandler) CreateDepartment(c echo.Context) error {
	var req departmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	dept := models.Department{
		Name:        req.Name,
		Code:        req.Code,
		HeadID:      req.HeadID,
		Description: req.Description,
	}
	if err := h.db.Create(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.DuplicateError{Resource: "department", Key: req.Code}
		}
		return err
	}
	return c.JSON(http.StatusCreated, dept)
}

func (h *AcademicHandler) ListDepartments(c echo.Context) error {
	var depts []models.Department
	if err := h.db.Preload("Head").Order("code").Find(&depts).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, depts)
}

// GetDepartment returns one department with its student, teacher and course
// counts for the department detail page.
func (h *AcademicHandler) GetDepartment(c echo.Context) error {
	deptID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var dept models.Department
	if err := h.db.Preload("Head").First(&dept, deptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("department", deptID)
		}
		return err
	}

	var studentCount, teacherCount, courseCount int64
	if err := h.db.Model(&models.Student{}).Where("department_id = ? AND is_active = ?", deptID, true).Count(&studentCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Teacher{}).Where("department_id = ? AND is_active = ?", deptID, true).Count(&teacherCount).Error; err != nil {
		return err
	}
	if err := h.db.Model(&models.Course{}).Where("department_id = ?", deptID).Count(&courseCount).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"department": dept,
		"students":   studentCount,
		"teachers":   teacherCount,
		"courses":    courseCount,
	})
}

type courseRequest struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required,max=20"`
	DepartmentID uint   `json:"department_id" validate:"required"`
	Semester     int    `json:"semester" validate:"required,min=1,max=8"`
	Credits      int    `json:"credits" validate:"required,min=1,max=6"`
	Description  string `json:"description"`
}

func (h *AcademicHandler) CreateCourse(c echo.Context) error {
	var req courseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course := models.Course{
		Name:         req.Name,
		Code:         req.Code,
		DepartmentID: req.DepartmentID,
		Semester:     req.Semester,
		Credits:      req.Credits,
		Description:  req.Description,
	}
	if err := h.db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.DuplicateError{Resource: "course", Key: req.Code}
		}
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *AcademicHandler) ListCourses(c echo.Context) error {
	query := h.db.Model(&models.Course{}).Preload("Department")
	if deptID := queryUint(c, "department_id"); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if semester := queryInt(c, "semester", 0); semester > 0 {
		query = query.Where("semester = ?", semester)
	}

	var courses []models.Course
	if err := query.Order("code").Find(&courses).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}

type classRequest struct {
	Name           string `json:"name" validate:"required"`
	DepartmentID   uint   `json:"department_id" validate:"required"`
	Semester       int    `json:"semester" validate:"required,min=1,max=8"`
	Section        string `json:"section"`
	AcademicYear   string `json:"academic_year" validate:"required"`
	ClassTeacherID *uint  `json:"class_teacher_id"`
	MaxStrength    int    `json:"max_strength"`
}

func (h *AcademicHandler) CreateClass(c echo.Context) error {
	var req classRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	class := models.Class{
		Name:           req.Name,
		DepartmentID:   req.DepartmentID,
		Semester:       req.Semester,
		AcademicYear:   req.AcademicYear,
		ClassTeacherID: req.ClassTeacherID,
	}
	if req.Section != "" {
		class.Section = req.Section
	}
	if req.MaxStrength > 0 {
		class.MaxStrength = req.MaxStrength
	}
	if err := h.db.Create(&class).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.DuplicateError{Resource: "class", Key: req.Name}
		}
		return err
	}
	return c.JSON(http.StatusCreated, class)
}

func (h *AcademicHandler) ListClasses(c echo.Context) error {
	query := h.db.Model(&models.Class{}).Preload("Department").Preload("ClassTeacher")
	if deptID := queryUint(c, "department_id"); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if year := c.QueryParam("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	var classes []models.Class
	if err := query.Order("department_id, semester, section").Find(&classes).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, classes)
}

type subjectRequest struct {
	CourseID    uint               `json:"course_id" validate:"required"`
	ClassID     uint               `json:"class_id" validate:"required"`
	TeacherID   *uint              `json:"teacher_id"`
	SubjectType models.SubjectType `json:"subject_type"`
}

// CreateSubject assigns a course to a class. The unique index rejects a
// second assignment of the same course to the same class.
func (h *AcademicHandler) CreateSubject(c echo.Context) error {
	var req subjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	subject := models.Subject{
		CourseID:  req.CourseID,
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
	}
	if req.SubjectType != "" {
		subject.SubjectType = req.SubjectType
	}
	if err := h.db.Create(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &apperr.DuplicateError{Resource: "subject", Key: "course already assigned to class"}
		}
		return err
	}
	return c.JSON(http.StatusCreated, subject)
}

func (h *AcademicHandler) ListSubjects(c echo.Context) error {
	query := h.db.Model(&models.Subject{}).Preload("Course").Preload("Class").Preload("Teacher")
	if classID := queryUint(c, "class_id"); classID > 0 {
		query = query.Where("class_id = ?", classID)
	}
	if teacherID := queryUint(c, "teacher_id"); teacherID > 0 {
		query = query.Where("teacher_id = ?", teacherID)
	}

	var subjects []models.Subject
	if err := query.Find(&subjects).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subjects)
}
