package services

import (
	"context"
	"fmt"

	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
)

// ParishService handles parish registry operations
type ParishService struct {
	repo       repository.ParishRepository
	personRepo repository.PersonRepository
	auditSvc   *AuditService
}

func NewParishService(repo repository.ParishRepository, personRepo repository.PersonRepository, auditSvc *AuditService) *ParishService {
	return &ParishService{repo: repo, personRepo: personRepo, auditSvc: auditSvc}
}

func (s *ParishService) FindByID(ctx context.Context, id uint) (*models.Parish, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ParishService) List(ctx context.Context, query *repository.ListQuery) ([]models.Parish, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ParishService) FindAll(ctx context.Context) ([]models.Parish, error) {
	return s.repo.FindAll(ctx)
}

func (s *ParishService) CongregantCount(ctx context.Context, id uint) (int64, error) {
	return s.personRepo.CountByParish(ctx, id)
}

func (s *ParishService) Create(ctx context.Context, parish *models.Parish, actorID uint) error {
	if err := s.repo.Create(ctx, parish); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Parish", parish.ID,
		fmt.Sprintf("Tạo giáo xứ %s (%s)", parish.Name, parish.Code), "", "")
}

func (s *ParishService) Update(ctx context.Context, parish *models.Parish, actorID uint) error {
	if err := s.repo.Update(ctx, parish); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Parish", parish.ID,
		fmt.Sprintf("Sửa giáo xứ %s", parish.Code), "", "")
}

func (s *ParishService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Parish", id, "Xóa giáo xứ", "", "")
}

// PersonService handles congregant records
type PersonService struct {
	repo       repository.PersonRepository
	parishRepo repository.ParishRepository
	auditSvc   *AuditService
}

func NewPersonService(repo repository.PersonRepository, parishRepo repository.ParishRepository, auditSvc *AuditService) *PersonService {
	return &PersonService{repo: repo, parishRepo: parishRepo, auditSvc: auditSvc}
}

func (s *PersonService) FindByID(ctx context.Context, id uint) (*models.Person, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PersonService) List(ctx context.Context, query *repository.ListQuery) ([]models.Person, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *PersonService) Create(ctx context.Context, person *models.Person, actorID uint) error {
	if _, err := s.parishRepo.FindByID(ctx, person.ParishID); err != nil {
		return fmt.Errorf("giáo xứ không tồn tại: %w", err)
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Person", person.ID,
		fmt.Sprintf("Tạo giáo dân %s (%s)", person.FullName, person.Code), "", "")
}

func (s *PersonService) Update(ctx context.Context, person *models.Person, actorID uint) error {
	if err := s.repo.Update(ctx, person); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Person", person.ID,
		fmt.Sprintf("Sửa giáo dân %s", person.Code), "", "")
}

func (s *PersonService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Person", id, "Xóa giáo dân", "", "")
}

// FundService handles funds and their computed balances
type FundService struct {
	repo     repository.FundRepository
	txnRepo  repository.TransactionRepository
	auditSvc *AuditService
}

func NewFundService(repo repository.FundRepository, txnRepo repository.TransactionRepository, auditSvc *AuditService) *FundService {
	return &FundService{repo: repo, txnRepo: txnRepo, auditSvc: auditSvc}
}

func (s *FundService) FindByID(ctx context.Context, id uint) (*models.Fund, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *FundService) List(ctx context.Context, query *repository.ListQuery) ([]models.Fund, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *FundService) FindAll(ctx context.Context) ([]models.Fund, error) {
	return s.repo.FindAll(ctx)
}

// Balances derives fund balances from approved transactions. Pass fundID = 0
// for every fund.
func (s *FundService) Balances(ctx context.Context, fundID uint) ([]models.FundBalance, error) {
	return s.txnRepo.GetFundBalances(ctx, fundID)
}

func (s *FundService) Create(ctx context.Context, fund *models.Fund, actorID uint) error {
	if err := s.repo.Create(ctx, fund); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Fund", fund.ID,
		fmt.Sprintf("Tạo quỹ %s (%s)", fund.Name, fund.Code), "", "")
}

func (s *FundService) Update(ctx context.Context, fund *models.Fund, actorID uint) error {
	if err := s.repo.Update(ctx, fund); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Fund", fund.ID,
		fmt.Sprintf("Sửa quỹ %s", fund.Code), "", "")
}

func (s *FundService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Fund", id, "Xóa quỹ", "", "")
}

// BankAccountService handles diocese bank accounts
type BankAccountService struct {
	repo     repository.BankAccountRepository
	auditSvc *AuditService
}

func NewBankAccountService(repo repository.BankAccountRepository, auditSvc *AuditService) *BankAccountService {
	return &BankAccountService{repo: repo, auditSvc: auditSvc}
}

func (s *BankAccountService) FindByID(ctx context.Context, id uint) (*models.BankAccount, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BankAccountService) List(ctx context.Context, query *repository.ListQuery) ([]models.BankAccount, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *BankAccountService) Create(ctx context.Context, account *models.BankAccount, actorID uint) error {
	if err := s.repo.Create(ctx, account); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "BankAccount", account.ID,
		fmt.Sprintf("Tạo tài khoản %s (%s)", account.AccountNumber, account.BankName), "", "")
}

func (s *BankAccountService) Update(ctx context.Context, account *models.BankAccount, actorID uint) error {
	if err := s.repo.Update(ctx, account); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "BankAccount", account.ID,
		fmt.Sprintf("Sửa tài khoản %s", account.AccountNumber), "", "")
}

func (s *BankAccountService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "BankAccount", id, "Xóa tài khoản ngân hàng", "", "")
}

// ContactService handles payer/payee contacts
type ContactService struct {
	repo     repository.ContactRepository
	auditSvc *AuditService
}

func NewContactService(repo repository.ContactRepository, auditSvc *AuditService) *ContactService {
	return &ContactService{repo: repo, auditSvc: auditSvc}
}

func (s *ContactService) FindByID(ctx context.Context, id uint) (*models.Contact, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context, query *repository.ListQuery) ([]models.Contact, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ContactService) Create(ctx context.Context, contact *models.Contact, actorID uint) error {
	if err := s.repo.Create(ctx, contact); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "CREATE", "Contact", contact.ID,
		fmt.Sprintf("Tạo đối tác %s", contact.Name), "", "")
}

func (s *ContactService) Update(ctx context.Context, contact *models.Contact, actorID uint) error {
	if err := s.repo.Update(ctx, contact); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "UPDATE", "Contact", contact.ID,
		fmt.Sprintf("Sửa đối tác %s", contact.Name), "", "")
}

func (s *ContactService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, "DELETE", "Contact", id, "Xóa đối tác", "", "")
}
