package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	StudentRepository       *StudentRepository
	SchoolRepository        *SchoolRepository
	SchoolRequestRepository *SchoolRequestRepository
	ExamRepository          *ExamRepository
	RevenueRepository       *RevenueRepository
	EventRepository         *EventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		StudentRepository:       NewStudentRepository(db),
		SchoolRepository:        NewSchoolRepository(db),
		SchoolRequestRepository: NewSchoolRequestRepository(db),
		ExamRepository:          NewExamRepository(db),
		RevenueRepository:       NewRevenueRepository(db),
		EventRepository:         NewEventRepository(db),
	}
}
