package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"college_erp_echo/internal/apperr"
	"college_erp_echo/internal/models"
)

type StudentHandler struct {
	db *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{db: db}
}

type studentRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone"`
	DepartmentID     uint   `json:"department_id" validate:"required"`
	ClassID          *uint  `json:"class_id"`
	AdmissionDate    string `json:"admission_date" validate:"required"`
	GuardianName     string `json:"guardian_name"`
	GuardianPhone    string `json:"guardian_phone"`
	GuardianAddress  string `json:"guardian_address"`
	EmergencyContact string `json:"emergency_contact"`
}

// nextRollNumber allocates a roll number of the form {DEPT}{year}{seq},
// where seq is a zero-padded counter per department and admission year.
func nextRollNumber(tx *gorm.DB, dept models.Department, year int) (string, error) {
	prefix := fmt.Sprintf("%s%d", dept.Code, year)
	var count int64
	if err := tx.Model(&models.Student{}).Unscoped().
		Where("roll_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// nextAdmissionNumber allocates an admission number of the form ADM{year}{seq}
func nextAdmissionNumber(tx *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("ADM%d", year)
	var count int64
	if err := tx.Model(&models.Student{}).Unscoped().
		Where("admission_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// CreateStudent enrolls a student, generating roll and admission numbers
// from the department code and admission year.
func (h *StudentHandler) CreateStudent(c echo.Context) error {
	var req studentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	admissionDate, err := parseDate(req.AdmissionDate, "admission_date")
	if err != nil {
		return err
	}

	var student models.Student
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var dept models.Department
		if err := tx.First(&dept, req.DepartmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("department", req.DepartmentID)
			}
			return err
		}

		year := admissionDate.Year()
		rollNumber, err := nextRollNumber(tx, dept, year)
		if err != nil {
			return err
		}
		admissionNumber, err := nextAdmissionNumber(tx, year)
		if err != nil {
			return err
		}

		student = models.Student{
			Name:             req.Name,
			Email:            req.Email,
			Phone:            req.Phone,
			RollNumber:       rollNumber,
			AdmissionNumber:  admissionNumber,
			DepartmentID:     req.DepartmentID,
			ClassID:          req.ClassID,
			AdmissionDate:    admissionDate,
			GuardianName:     req.GuardianName,
			GuardianPhone:    req.GuardianPhone,
			GuardianAddress:  req.GuardianAddress,
			EmergencyContact: req.EmergencyContact,
			IsActive:         true,
		}
		if err := tx.Create(&student).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateError{Resource: "student", Key: req.Email}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, student)
}

// ListStudents lists students with filters and pagination
func (h *StudentHandler) ListStudents(c echo.Context) error {
	query := h.db.Model(&models.Student{}).Preload("Department").Preload("Class")

	if deptID := queryUint(c, "department_id"); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}
	if classID := queryUint(c, "class_id"); classID > 0 {
		query = query.Where("class_id = ?", classID)
	}
	if c.QueryParam("all") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if search := c.QueryParam("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR roll_number ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}
	page, offset := paginate(c, total)

	var students []models.Student
	if err := query.Order("roll_number").Limit(page.PageSize).Offset(offset).Find(&students).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"students":   students,
		"pagination": page,
	})
}

// GetStudent returns one student with department and class
func (h *StudentHandler) GetStudent(c echo.Context) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	err = h.db.Preload("Department").Preload("Class").First(&student, studentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("student", studentID)
		}
		return err
	}
	return c.JSON(http.StatusOK, student)
}

type studentUpdateRequest struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	ClassID          *uint   `json:"class_id"`
	GuardianName     *string `json:"guardian_name"`
	GuardianPhone    *string `json:"guardian_phone"`
	GuardianAddress  *string `json:"guardian_address"`
	EmergencyContact *string `json:"emergency_contact"`
}

// UpdateStudent applies a partial update. Roll and admission numbers are
// immutable once allocated.
func (h *StudentHandler) UpdateStudent(c echo.Context) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req studentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	var student models.Student
	if err := h.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NewNotFound("student", studentID)
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.ClassID != nil {
		updates["class_id"] = *req.ClassID
	}
	if req.GuardianName != nil {
		updates["guardian_name"] = *req.GuardianName
	}
	if req.GuardianPhone != nil {
		updates["guardian_phone"] = *req.GuardianPhone
	}
	if req.GuardianAddress != nil {
		updates["guardian_address"] = *req.GuardianAddress
	}
	if req.EmergencyContact != nil {
		updates["emergency_contact"] = *req.EmergencyContact
	}
	if len(updates) > 0 {
		if err := h.db.Model(&student).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &apperr.DuplicateError{Resource: "student", Key: student.Email}
			}
			return err
		}
	}
	return c.JSON(http.StatusOK, student)
}

// DeactivateStudent marks a student inactive rather than deleting the row,
// so the fee ledger and results stay attached.
func (h *StudentHandler) DeactivateStudent(c echo.Context) error {
	studentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res := h.db.Model(&models.Student{}).Where("id = ?", studentID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NewNotFound("student", studentID)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}

// ExportStudentsCSV streams the student directory as CSV
func (h *StudentHandler) ExportStudentsCSV(c echo.Context) error {
	query := h.db.Model(&models.Student{}).Preload("Department")
	if deptID := queryUint(c, "department_id"); deptID > 0 {
		query = query.Where("department_id = ?", deptID)
	}

	var students []models.Student
	if err := query.Order("roll_number").Find(&students).Error; err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="students.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"Roll Number", "Admission Number", "Name", "Email", "Phone", "Department", "Admission Date", "Active"}); err != nil {
		return err
	}
	for _, s := range students {
		row := []string{
			s.RollNumber,
			s.AdmissionNumber,
			s.Name,
			s.Email,
			s.Phone,
			s.Department.Name,
			s.AdmissionDate.Format(dateLayout),
			fmt.Sprintf("%t", s.IsActive),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
