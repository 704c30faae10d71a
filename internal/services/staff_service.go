package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

// StaffService handles staff records and their labor contracts
type StaffService struct {
	repo         repository.StaffRepository
	contractRepo repository.StaffContractRepository
	parishRepo   repository.ParishRepository
	auditSvc     *AuditService
}

func NewStaffService(repo repository.StaffRepository, contractRepo repository.StaffContractRepository, parishRepo repository.ParishRepository, auditSvc *AuditService) *StaffService {
	return &StaffService{repo: repo, contractRepo: contractRepo, parishRepo: parishRepo, auditSvc: auditSvc}
}

func (s *StaffService) FindByID(ctx context.Context, id uint) (*models.Staff, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StaffService) List(ctx context.Context, query *repository.ListQuery) ([]models.Staff, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *StaffService) Create(ctx context.Context, staff *models.Staff, actorID uint) error {
	if _, err := s.parishRepo.FindByID(ctx, staff.ParishID); err != nil {
		return fmt.Errorf("giáo xứ không tồn tại: %w", err)
	}
	if staff.Status == "" {
		staff.Status = models.StaffStatusActive
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Staff", staff.ID,
		fmt.Sprintf("Tạo nhân viên %s (%s)", staff.FullName, staff.Code), "", "")
}

func (s *StaffService) Update(ctx context.Context, staff *models.Staff, actorID uint) error {
	existing, err := s.repo.FindByID(ctx, staff.ID)
	if err != nil {
		return ErrNotFound
	}
	staff.Code = existing.Code
	if err := s.repo.Update(ctx, staff); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Staff", staff.ID,
		fmt.Sprintf("Sửa nhân viên %s", staff.Code), "", "")
}

func (s *StaffService) Delete(ctx context.Context, id uint, actorID uint) error {
	active, err := s.contractRepo.FindActiveByStaff(ctx, id)
	if err == nil && active != nil {
		return errors.New("không thể xóa nhân viên còn hợp đồng lao động đang hiệu lực")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Staff", id, "Xóa nhân viên", "", "")
}

// Contracts lists every labor contract of a staff member, newest first.
func (s *StaffService) Contracts(ctx context.Context, staffID uint) ([]models.StaffContract, error) {
	if _, err := s.repo.FindByID(ctx, staffID); err != nil {
		return nil, ErrNotFound
	}
	return s.contractRepo.FindByStaff(ctx, staffID)
}

// CreateContract attaches a new labor contract. The partial unique index on
// staff_contracts rejects a second active contract for the same staff member.
func (s *StaffService) CreateContract(ctx context.Context, contract *models.StaffContract, actorID uint) error {
	if _, err := s.repo.FindByID(ctx, contract.StaffID); err != nil {
		return ErrNotFound
	}
	if contract.BasicSalary <= 0 {
		return errors.New("lương cơ bản phải lớn hơn 0")
	}
	if contract.EndDate != nil && !contract.EndDate.After(contract.StartDate) {
		return errors.New("ngày kết thúc phải sau ngày bắt đầu")
	}
	if contract.Status == "" {
		contract.Status = models.StaffContractStatusActive
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "StaffContract", contract.ID,
		fmt.Sprintf("Tạo hợp đồng lao động cho nhân viên #%d", contract.StaffID), "", "")
}

// TerminateContract ends an active contract. The staff member keeps their
// record; only the contract status changes.
func (s *StaffService) TerminateContract(ctx context.Context, contractID uint, actorID uint) error {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return ErrNotFound
	}
	if contract.Status != models.StaffContractStatusActive {
		return ErrInvalidState
	}
	contract.Status = models.StaffContractStatusTerminated
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "StaffContract", contract.ID,
		fmt.Sprintf("Chấm dứt hợp đồng lao động #%d", contract.ID), "", "")
}
