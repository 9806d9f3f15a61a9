package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeStructure defines the standard fee amounts for a course, semester and
// academic year. Bulk billing expands a structure into one Fee per non-zero
// component per student.
type FeeStructure struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CourseID     uint   `gorm:"index;uniqueIndex:idx_fee_structures_course_sem_year" json:"course_id"`
	Semester     int    `gorm:"uniqueIndex:idx_fee_structures_course_sem_year" json:"semester"`
	AcademicYear string `gorm:"type:varchar(9);uniqueIndex:idx_fee_structures_course_sem_year" json:"academic_year"`

	TuitionFee     decimal.Decimal `gorm:"type:decimal(10,2)" json:"tuition_fee"`
	LibraryFee     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"library_fee"`
	LabFee         decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"lab_fee"`
	ExamFee        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"exam_fee"`
	DevelopmentFee decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"development_fee"`
	OtherFee       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"other_fee"`
	PaymentDueDate time.Time       `gorm:"type:date" json:"payment_due_date"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// TotalFee sums all fee components of the structure
func (fs FeeStructure) TotalFee() decimal.Decimal {
	return fs.TuitionFee.
		Add(fs.LibraryFee).
		Add(fs.LabFee).
		Add(fs.ExamFee).
		Add(fs.DevelopmentFee).
		Add(fs.OtherFee)
}

// Components returns the per-type breakdown of the structure, keyed by fee type
func (fs FeeStructure) Components() map[FeeType]decimal.Decimal {
	return map[FeeType]decimal.Decimal{
		FeeTypeTuition:     fs.TuitionFee,
		FeeTypeLibrary:     fs.LibraryFee,
		FeeTypeLab:         fs.LabFee,
		FeeTypeExam:        fs.ExamFee,
		FeeTypeDevelopment: fs.DevelopmentFee,
		FeeTypeOther:       fs.OtherFee,
	}
}
