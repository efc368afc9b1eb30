package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NagawaEsther/live-well/internal/domain"
)

// ResourceService provides validated CRUD over one resource repository.
type ResourceService[T any, P domain.EntityPtr[T]] struct {
	name string
	repo domain.Repository[T]
}

// NewResourceService creates a ResourceService. The name appears in errors.
func NewResourceService[T any, P domain.EntityPtr[T]](name string, repo domain.Repository[T]) *ResourceService[T, P] {
	return &ResourceService[T, P]{name: name, repo: repo}
}

// Name returns the resource name used in errors and logs.
func (s *ResourceService[T, P]) Name() string {
	return s.name
}

// Create stores a new entity. Any id or server-owned timestamp supplied by
// the caller is discarded.
func (s *ResourceService[T, P]) Create(ctx context.Context, entity *T) error {
	var zero T
	P(entity).SetEntityID(0)
	P(entity).CopyTimestamps(&zero)
	P(entity).Touch(time.Now().UTC())
	if err := P(entity).Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return fmt.Errorf("create %s: %w", s.name, err)
	}
	return nil
}

func (s *ResourceService[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ResourceService[T, P]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Update loads the entity, lets patch modify it, and stores the result. The
// id and server-owned timestamps cannot be changed by patch.
func (s *ResourceService[T, P]) Update(ctx context.Context, id int64, patch func(*T) error) (*T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stored := *entity
	if err := patch(entity); err != nil {
		return nil, err
	}

	P(entity).SetEntityID(id)
	P(entity).CopyTimestamps(&stored)
	P(entity).Touch(time.Now().UTC())
	if err := P(entity).Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", s.name, id, err)
	}
	return entity, nil
}

func (s *ResourceService[T, P]) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// PhoneService adds per-user operations to phone CRUD.
type PhoneService struct {
	*ResourceService[domain.Phone, *domain.Phone]
	phones domain.PhoneRepository
}

// NewPhoneService creates a PhoneService.
func NewPhoneService(phones domain.PhoneRepository) *PhoneService {
	return &PhoneService{
		ResourceService: NewResourceService[domain.Phone]("phone", phones),
		phones:          phones,
	}
}

// ListForUser returns the phones registered to userID.
func (s *PhoneService) ListForUser(ctx context.Context, userID int64) ([]domain.Phone, error) {
	return s.phones.ListByUser(ctx, userID)
}

// CreateForUser registers phone to userID, whatever user_id it carried.
func (s *PhoneService) CreateForUser(ctx context.Context, userID int64, phone *domain.Phone) error {
	phone.UserID = userID
	return s.Create(ctx, phone)
}

// MedicalRecordService adds patient-scoped listing to medical record CRUD.
type MedicalRecordService struct {
	*ResourceService[domain.MedicalRecord, *domain.MedicalRecord]
	records domain.MedicalRecordRepository
}

// NewMedicalRecordService creates a MedicalRecordService.
func NewMedicalRecordService(records domain.MedicalRecordRepository) *MedicalRecordService {
	return &MedicalRecordService{
		ResourceService: NewResourceService[domain.MedicalRecord]("medical record", records),
		records:         records,
	}
}

// ListForPatient returns the records written for patientID.
func (s *MedicalRecordService) ListForPatient(ctx context.Context, patientID int64) ([]domain.MedicalRecord, error) {
	return s.records.ListByPatient(ctx, patientID)
}
