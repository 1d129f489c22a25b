package models

import "time"

// AppointmentStatus — статус записи на консультацию.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentApproved  AppointmentStatus = "approved"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// AppointmentStatuses перечисляет все статусы в порядке жизненного цикла.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentApproved,
	AppointmentCancelled,
	AppointmentCompleted,
}

// Valid сообщает, является ли статус одним из известных.
func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Appointment представляет запись студента к преподавателю.
type Appointment struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	TeacherID   string            `json:"teacherId"`
	Status      AppointmentStatus `json:"status"`
	ScheduledAt *time.Time        `json:"scheduledAt,omitempty"` // Желаемое время встречи
	Purpose     string            `json:"purpose,omitempty"`     // Тема консультации
	CreatedAt   time.Time         `json:"createdAt"`
}

// HasParticipant сообщает, участвует ли пользователь в записи
// как студент или как преподаватель.
func (a Appointment) HasParticipant(userID string) bool {
	return a.StudentID == userID || a.TeacherID == userID
}

// AppointmentPatch описывает частичное обновление записи.
type AppointmentPatch struct {
	Status      *AppointmentStatus
	ScheduledAt *time.Time
	Purpose     *string
}
