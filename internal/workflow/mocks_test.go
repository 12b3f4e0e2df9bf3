package workflow_test

import (
	"sync"

	"civicbot/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
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
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockStorage) UpdateRecordStatus(rec models.WorkflowRecord, entry *models.StatusHistory) error {
	args := m.Called(rec, entry)
	return args.Error(0)
}

func (m *MockStorage) UpdateRecordAssignee(rec models.WorkflowRecord) error {
	args := m.Called(rec)
	return args.Error(0)
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
	args := m.Called(user)
	return args.Error(0)
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
	args := m.Called(company)
	return args.Error(0)
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
	args := m.Called(dept)
	return args.Error(0)
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
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockStorage) ListAuditLogs(companyID string, limit int) ([]models.AuditLog, error) {
	args := m.Called(companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func (m *MockStorage) PublishAuditEntry(entry models.AuditLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

// MockDispatcher is a testify mock of notify.Dispatcher.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) NotifyStatusChange(rec models.WorkflowRecord, newStatus models.Status, remarks string) error {
	args := m.Called(rec, newStatus, remarks)
	return args.Error(0)
}

// CollectingAuditor records entries in memory for assertions.
type CollectingAuditor struct {
	mu      sync.Mutex
	Entries []models.AuditLog
}

func (a *CollectingAuditor) Record(entry models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, entry)
}

// CollectingAlerter records assignment alerts in memory.
type CollectingAlerter struct {
	Alerts []string // assignee ids in call order
	Err    error
}

func (a *CollectingAlerter) AlertAssignment(assignee *models.User, rec models.WorkflowRecord) error {
	a.Alerts = append(a.Alerts, assignee.ID)
	return a.Err
}
