package handler

import (
	"sync"

	"civicbot/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) FindRecord(kind models.RecordKind, id string) (models.WorkflowRecord, error) {
	args := m.Called(kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.WorkflowRecord), args.Error(1)
}

func (m *MockStorage) CreateRecord(rec models.WorkflowRecord) error {
	return m.Called(rec).Error(0)
}

func (m *MockStorage) UpdateRecordStatus(rec models.WorkflowRecord, entry *models.StatusHistory) error {
	return m.Called(rec, entry).Error(0)
}

func (m *MockStorage) UpdateRecordAssignee(rec models.WorkflowRecord) error {
	return m.Called(rec).Error(0)
}

func (m *MockStorage) GetHistory(kind models.RecordKind, id string) ([]models.StatusHistory, error) {
	args := m.Called(kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatusHistory), args.Error(1)
}

func (m *MockStorage) ListGrievances(companyID string, departmentID *string) ([]models.Grievance, error) {
	args := m.Called(companyID, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Grievance), args.Error(1)
}

func (m *MockStorage) ListAppointments(companyID string, departmentID *string) ([]models.Appointment, error) {
	args := m.Called(companyID, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockStorage) FindUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockStorage) ListUsers(companyID string) ([]models.User, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) AvailableUsers(companyID string, departmentID *string) ([]models.User, error) {
	args := m.Called(companyID, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) SaveCompany(company *models.Company) error {
	return m.Called(company).Error(0)
}

func (m *MockStorage) FindCompanyByID(id string) (*models.Company, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockStorage) ListCompanies() ([]models.Company, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *MockStorage) SaveDepartment(dept *models.Department) error {
	return m.Called(dept).Error(0)
}

func (m *MockStorage) FindDepartmentByID(id string) (*models.Department, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStorage) ListDepartments(companyID string) ([]models.Department, error) {
	args := m.Called(companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Department), args.Error(1)
}

func (m *MockStorage) SaveAuditLog(entry *models.AuditLog) error {
	return m.Called(entry).Error(0)
}

func (m *MockStorage) ListAuditLogs(companyID string, limit int) ([]models.AuditLog, error) {
	args := m.Called(companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func (m *MockStorage) PublishAuditEntry(entry models.AuditLog) error {
	return m.Called(entry).Error(0)
}

// collectingAuditor gathers entries synchronously for assertions.
type collectingAuditor struct {
	mu      sync.Mutex
	Entries []models.AuditLog
}

func (a *collectingAuditor) Record(entry models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, entry)
}

// nopDispatcher satisfies notify.Dispatcher without side effects.
type nopDispatcher struct{}

func (nopDispatcher) NotifyStatusChange(models.WorkflowRecord, models.Status, string) error {
	return nil
}
