package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

type TeacherHandler struct {
	db *gorm.DB
}

func NewTeacherHandler(db *gorm.DB) *TeacherHandler {
	return &TeacherHandler{db: db}
}

type teacherRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	DepartmentID    uint   `json:"department_id" validate:"required"`
	Designation     string `json:"designation"`
	Qualification   string `json:"qualification"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	JoiningDate     string `json:"joining_date" validate:"required"`
}

// nextEmployeeID allocates an employee id of the form {DEPT}T{year}{seq}
func nextEmployeeID(tx *gorm.DB, dept models.Department, year int) (string, error) {
	prefix := fmt.Sprintf("%sT%d", dept.Code, year)
	var count int64
	if err := tx.Model(&models.Teacher{}).Unscoped().
		Where("employee_id LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// CreateTeacher registers a faculty member with a generated employee id
func (h *TeacherHandler) CreateTeacher(c echo.Context) error {
	var req teacherRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	joiningDate, err := parseDate(req.JoiningDate, "joining_date")
	if err != nil {
		return err
	}

	var teacher models.Teacher
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var dept models.Department
		if err := tx.First(&dept, req.DepartmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("department", req.DepartmentID)
			}
			return err
		}

		employeeID, err := nextEmployeeID(tx, dept, joiningDate.Year())
		if err != nil {
			return err
		}

		teacher = models.Teacher{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			EmployeeID:      employeeID,
			DepartmentID:    req.DepartmentID,
			Specialization:  req.Specialization,
			ExperienceYears: req.ExperienceYears,
			JoiningDate:     joiningDate,
			IsActive:        true,
		}
		if req.Designation != "" {
			teacher.Designation = req.Designation
		}
		if req.Qualification != "" {
			teacher.Qualification = req.Qualification
		}
		if err := tx.Create(&teacher).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateError{Resource: "teacher", Key: req.Email}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, teacher)
}

// ListTeachers lists faculty with filters and pagination
func (h *TeacherHandler) ListTeachers(c echo.Context) error {
	query := h.db.Model(&models.Teacher{}).Preload("Department")
	if deptID := queryUint(c, "department_id"); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if c.QueryParam("all") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}
	page, offset := paginate(c, total)

	var teachers []models.Teacher
	if err := query.Order("employee_id").Limit(page.PageSize).Offset(offset).Find(&teachers).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"teachers":   teachers,
		"pagination": page,
	})
}

// GetTeacher returns one teacher with department and assigned subjects
func (h *TeacherHandler) GetTeacher(c echo.Context) error {
	teacherID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var teacher models.Teacher
	err = h.db.Preload("Department").Preload("Subjects.Course").First(&teacher, teacherID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("teacher", teacherID)
		}
		return err
	}
	return c.JSON(http.StatusOK, teacher)
}

// ExportTeachersCSV streams the faculty directory as CSV
func (h *TeacherHandler) ExportTeachersCSV(c echo.Context) error {
	query := h.db.Model(&models.Teacher{}).Preload("Department")
	if deptID := queryUint(c, "department_id"); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}

	var teachers []models.Teacher
	if err := query.Order("employee_id").Find(&teachers).Error; err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="teachers.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"Employee ID", "Name", "Email", "Phone", "Department", "Designation", "Experience Years", "Joining Date", "Active"}); err != nil {
		return err
	}
	for _, t := range teachers {
		row := []string{
			t.EmployeeID,
			t.Name,
			t.Email,
			t.Phone,
			t.Department.Name,
			t.Designation,
			strconv.Itoa(t.ExperienceYears),
			t.JoiningDate.Format(dateLayout),
			strconv.FormatBool(t.IsActive),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
