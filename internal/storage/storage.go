package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"civicbot/backend/internal/config"
	"civicbot/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence surface the services depend on. Implementations
// other than Service exist only in tests.
type Storage interface {
	// Workflow records
	FindRecord(kind models.RecordKind, id string) (models.WorkflowRecord, error)
	CreateRecord(rec models.WorkflowRecord) error
	UpdateRecordStatus(rec models.WorkflowRecord, entry *models.StatusHistory) error
	UpdateRecordAssignee(rec models.WorkflowRecord) error
	GetHistory(kind models.RecordKind, id string) ([]models.StatusHistory, error)
	ListGrievances(companyID string, departmentID *string) ([]models.Grievance, error)
	ListAppointments(companyID string, departmentID *string) ([]models.Appointment, error)

	// Users
	FindUserByID(id string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	SaveUser(user *models.User) error
	ListUsers(companyID string) ([]models.User, error)
	AvailableUsers(companyID string, departmentID *string) ([]models.User, error)

	// Companies and departments
	SaveCompany(company *models.Company) error
	FindCompanyByID(id string) (*models.Company, error)
	ListCompanies() ([]models.Company, error)
	SaveDepartment(dept *models.Department) error
	FindDepartmentByID(id string) (*models.Department, error)
	ListDepartments(companyID string) ([]models.Department, error)

	// Audit trail
	SaveAuditLog(entry *models.AuditLog) error
	ListAuditLogs(companyID string, limit int) ([]models.AuditLog, error)
	PublishAuditEntry(entry models.AuditLog) error
}

// Service implements Storage over PostgreSQL (gorm) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor. Redis may be nil for CLI use; the caching
// and feed methods degrade to plain database access then.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// FindRecord loads a grievance or appointment by id.
func (s *Service) FindRecord(kind models.RecordKind, id string) (models.WorkflowRecord, error) {
	var rec models.WorkflowRecord
	switch kind {
	case models.KindAppointment:
		rec = &models.Appointment{}
	default:
		rec = &models.Grievance{}
	}
	err := s.DB.First(rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to load %s %s: %v", kind, id, err)
		return nil, err
	}
	return rec, nil
}

// CreateRecord inserts a new grievance or appointment.
func (s *Service) CreateRecord(rec models.WorkflowRecord) error {
	return s.DB.Create(rec).Error
}

// UpdateRecordStatus persists the record's new status and appends the history
// entry in a single transaction, so a history row never exists without the
// matching status write and vice versa.
func (s *Service) UpdateRecordStatus(rec models.WorkflowRecord, entry *models.StatusHistory) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// UpdateRecordAssignee persists the record's assignee field.
func (s *Service) UpdateRecordAssignee(rec models.WorkflowRecord) error {
	return s.DB.Save(rec).Error
}

// GetHistory returns the record's status trail in chronological order.
func (s *Service) GetHistory(kind models.RecordKind, id string) ([]models.StatusHistory, error) {
	var history []models.StatusHistory
	err := s.DB.Where("record_kind = ? AND record_id = ?", string(kind), id).
		Order("created_at asc").
		Find(&history).Error
	if err != nil {
		log.Printf("ERROR: Failed to load history for %s %s: %v", kind, id, err)
		return nil, err
	}
	return history, nil
}

// ListGrievances returns a company's grievances, newest first. A non-nil
// departmentID narrows the list to that department.
func (s *Service) ListGrievances(companyID string, departmentID *string) ([]models.Grievance, error) {
	var out []models.Grievance
	q := s.DB.Where("company_id = ?", companyID)
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}
	if err := q.Order("created_at desc").Limit(config.DefaultPageSize).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAppointments returns a company's appointments ordered by schedule.
func (s *Service) ListAppointments(companyID string, departmentID *string) ([]models.Appointment, error) {
	var out []models.Appointment
	q := s.DB.Where("company_id = ?", companyID)
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}
	if err := q.Order("scheduled_at asc").Limit(config.DefaultPageSize).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindUserByID loads a user by primary key.
func (s *Service) FindUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail loads a user by their login email.
func (s *Service) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser upserts a user and drops the company's cached assignee pool,
// since the pool depends on role, department and active flags.
func (s *Service) SaveUser(user *models.User) error {
	if err := s.DB.Save(user).Error; err != nil {
		return err
	}
	s.invalidateAssigneeCache(user.CompanyID)
	return nil
}

// ListUsers returns a company's users.
func (s *Service) ListUsers(companyID string) ([]models.User, error) {
	var users []models.User
	if err := s.DB.Where("company_id = ?", companyID).Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AvailableUsers returns the pool of active staff and admins eligible for
// assignment within the company scope. Department-scoped requests include
// company-wide users (no department) alongside the department's own. The
// result is cached in Redis for a short TTL because the dashboard polls it
// on every assignment dialog.
func (s *Service) AvailableUsers(companyID string, departmentID *string) ([]models.User, error) {
	key := assigneeCacheKey(companyID, departmentID)
	if s.Redis != nil {
		cached, err := s.Redis.Get(s.Ctx, key).Result()
		if err == nil {
			var users []models.User
			if jsonErr := json.Unmarshal([]byte(cached), &users); jsonErr == nil {
				return users, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: Assignee cache read failed for %s: %v", key, err)
		}
	}

	var users []models.User
	q := s.DB.Where("company_id = ? AND active = ? AND role IN ?",
		companyID, true, []string{string(models.RoleAdmin), string(models.RoleStaff)})
	if departmentID != nil {
		q = q.Where("department_id = ? OR department_id IS NULL", *departmentID)
	}
	if err := q.Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(users); err == nil {
			if err := s.Redis.Set(s.Ctx, key, data, config.AssigneeCacheTTL).Err(); err != nil {
				log.Printf("WARN: Assignee cache write failed for %s: %v", key, err)
			}
		}
	}
	return users, nil
}

func assigneeCacheKey(companyID string, departmentID *string) string {
	key := "assignees:" + companyID
	if departmentID != nil {
		key += ":" + *departmentID
	}
	return key
}

func (s *Service) invalidateAssigneeCache(companyID string) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(s.Ctx, 0, "assignees:"+companyID+"*", 0).Iterator()
	for iter.Next(s.Ctx) {
		if err := s.Redis.Del(s.Ctx, iter.Val()).Err(); err != nil {
			log.Printf("WARN: Failed to drop assignee cache key %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("WARN: Assignee cache scan failed for company %s: %v", companyID, err)
	}
}

// SaveCompany upserts a company.
func (s *Service) SaveCompany(company *models.Company) error {
	return s.DB.Save(company).Error
}

// FindCompanyByID loads a company by primary key.
func (s *Service) FindCompanyByID(id string) (*models.Company, error) {
	var company models.Company
	err := s.DB.First(&company, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// ListCompanies returns all tenants.
func (s *Service) ListCompanies() ([]models.Company, error) {
	var companies []models.Company
	if err := s.DB.Order("name asc").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// SaveDepartment upserts a department.
func (s *Service) SaveDepartment(dept *models.Department) error {
	if err := s.DB.Save(dept).Error; err != nil {
		return err
	}
	s.invalidateAssigneeCache(dept.CompanyID)
	return nil
}

// FindDepartmentByID loads a department by primary key.
func (s *Service) FindDepartmentByID(id string) (*models.Department, error) {
	var dept models.Department
	err := s.DB.First(&dept, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// ListDepartments returns a company's departments.
func (s *Service) ListDepartments(companyID string) ([]models.Department, error) {
	var depts []models.Department
	if err := s.DB.Where("company_id = ?", companyID).Order("name asc").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

// SaveAuditLog appends a trail row.
func (s *Service) SaveAuditLog(entry *models.AuditLog) error {
	if err := s.DB.Create(entry).Error; err != nil {
		log.Printf("ERROR: Failed to save audit entry %s/%s: %v", entry.Action, entry.ResourceID, err)
		return err
	}
	return nil
}

// ListAuditLogs returns the newest trail rows for a company. An empty
// companyID returns entries across all tenants (superadmin view).
func (s *Service) ListAuditLogs(companyID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > config.ActivityLimit {
		limit = config.ActivityLimit
	}
	var entries []models.AuditLog
	q := s.DB.Order("created_at desc").Limit(limit)
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// PublishAuditEntry fans an audit entry out on the Redis feed channel so
// every API instance's activity hub can broadcast it.
func (s *Service) PublishAuditEntry(entry models.AuditLog) error {
	if s.Redis == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.AuditFeedChannel, string(data)).Err()
}

// SubscribeAuditFeed subscribes to the audit feed channel. The caller owns
// the subscription and must close it.
func (s *Service) SubscribeAuditFeed() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.AuditFeedChannel)
}
