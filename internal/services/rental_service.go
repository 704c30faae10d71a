package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/statemachine"
)

type RentalService struct {
	repo            repository.RentalContractRepository
	assetRepo       repository.AssetRepository
	txnRepo         repository.TransactionRepository
	fundRepo        repository.FundRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewRentalService(
	repo repository.RentalContractRepository,
	assetRepo repository.AssetRepository,
	txnRepo repository.TransactionRepository,
	fundRepo repository.FundRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *RentalService {
	return &RentalService{
		repo:            repo,
		assetRepo:       assetRepo,
		txnRepo:         txnRepo,
		fundRepo:        fundRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *RentalService) FindByID(ctx context.Context, id uint) (*models.RentalContract, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RentalService) List(ctx context.Context, query *repository.RentalQuery) ([]models.RentalContract, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a pending rental contract. When an asset is attached the
// contract insert and the asset claim commit together; a second contract
// racing for the same asset loses cleanly.
func (s *RentalService) Create(ctx context.Context, contract *models.RentalContract, actorID uint, ip, userAgent string) error {
	if contract.RentAmount <= 0 {
		return fmt.Errorf("tiền thuê phải lớn hơn 0")
	}
	if !contract.EndDate.After(contract.StartDate) {
		return fmt.Errorf("ngày kết thúc phải sau ngày bắt đầu")
	}
	if contract.PaymentMethod == models.PaymentMethodOnline && !contract.TenantHasBankDetails() && contract.BankAccountID == nil {
		return ErrMissingBankDetails
	}

	contract.Status = models.RentalStatusPending
	if contract.Code == "" {
		contract.Code = generateCode("HD")
	}

	if err := s.repo.CreateAndClaimAsset(ctx, contract); err != nil {
		if errors.Is(err, repository.ErrAssetClaimed) {
			return ErrAssetUnavailable
		}
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "RentalContract", contract.ID,
		fmt.Sprintf("Tạo hợp đồng thuê %s, khách thuê %s, tiền thuê %s/%s",
			contract.Code, contract.TenantName, formatAmount(contract.RentAmount), contract.PaymentCycle), ip, userAgent)

	return nil
}

// Update edits a contract while it is still pending
func (s *RentalService) Update(ctx context.Context, contract *models.RentalContract, actorID uint, ip, userAgent string) error {
	existing, err := s.repo.FindByID(ctx, contract.ID)
	if err != nil {
		return err
	}
	if existing.Status != models.RentalStatusPending {
		return ErrInvalidState
	}

	contract.Code = existing.Code
	contract.Status = existing.Status
	contract.AssetID = existing.AssetID

	if err := s.repo.Update(ctx, contract); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "RentalContract", contract.ID,
		fmt.Sprintf("Sửa hợp đồng thuê %s", contract.Code), ip, userAgent)
	return nil
}

// Activate moves a pending contract into its active term
func (s *RentalService) Activate(ctx context.Context, id uint, actorID uint, ip, userAgent string) (*models.RentalContract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewRentalContractFSM(contract)
	if err := fsm.Activate(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	contract.ActivatedAt = &now

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "ACTIVATE", "RentalContract", contract.ID,
		fmt.Sprintf("Kích hoạt hợp đồng thuê %s", contract.Code), ip, userAgent)

	return contract, nil
}

// Terminate ends a contract early and releases its asset
func (s *RentalService) Terminate(ctx context.Context, id uint, note string, actorID uint, ip, userAgent string) (*models.RentalContract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewRentalContractFSM(contract)
	if err := fsm.Terminate(ctx); err != nil {
		return nil, err
	}

	if note != "" {
		contract.TerminationNote = &note
	}

	if err := s.repo.UpdateAndReleaseAsset(ctx, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "TERMINATE", "RentalContract", contract.ID,
		fmt.Sprintf("Chấm dứt hợp đồng thuê %s. Ghi chú: %s", contract.Code, note), ip, userAgent)

	return contract, nil
}

// ConvertPaymentInput carries the period to convert plus optional overrides.
// Zero-valued fields fall back to the contract: rent amount, tenant name,
// payment method and bank account, income date of today.
type ConvertPaymentInput struct {
	Period        string
	FundID        uint
	Amount        float64
	IncomeDate    time.Time
	PaymentMethod string
	BankAccountID *uint
	PayerPayee    string
	Notes         string
}

// ConvertPayment turns one payment period of an active contract into a
// pending income transaction. Converting the same period twice is refused
// unless the earlier transaction was rejected.
func (s *RentalService) ConvertPayment(ctx context.Context, id uint, in ConvertPaymentInput, actorID uint, ip, userAgent string) (*models.Transaction, error) {
	if in.Period == "" {
		return nil, ErrInvalidPeriod
	}

	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contract.MayConvert() {
		return nil, ErrInvalidState
	}

	if _, err := s.txnRepo.FindByRentalAndPeriod(ctx, contract.ID, in.Period); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.fundRepo.FindByID(ctx, in.FundID); err != nil {
		return nil, fmt.Errorf("quỹ không tồn tại: %w", err)
	}

	if in.Amount <= 0 {
		in.Amount = contract.RentAmount
	}
	if in.IncomeDate.IsZero() {
		in.IncomeDate = time.Now()
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = contract.PaymentMethod
	}
	if in.BankAccountID == nil {
		in.BankAccountID = contract.BankAccountID
	}
	if in.PayerPayee == "" {
		in.PayerPayee = contract.TenantName
	}
	if in.PaymentMethod == models.PaymentMethodOnline && in.BankAccountID == nil && !contract.TenantHasBankDetails() {
		return nil, ErrMissingBankDetails
	}

	p := in.Period
	txn := &models.Transaction{
		Code:             generateCode("GD"),
		Type:             models.TransactionTypeIncome,
		Amount:           in.Amount,
		TransactionDate:  in.IncomeDate,
		PayerPayee:       in.PayerPayee,
		PaymentMethod:    in.PaymentMethod,
		FundID:           in.FundID,
		ParishID:         contract.ParishID,
		BankAccountID:    in.BankAccountID,
		Status:           models.TransactionStatusPending,
		Source:           models.TransactionSourceRentalContract,
		RentalContractID: &contract.ID,
		PaymentPeriod:    &p,
	}
	if in.Notes != "" {
		n := in.Notes
		txn.Notes = &n
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyApprovers(ctx,
			"Giao dịch chờ duyệt",
			fmt.Sprintf("Tiền thuê kỳ %s của hợp đồng %s chờ duyệt", p, contract.Code),
			models.NotificationTypeTransactionPending)
	})

	s.auditSvc.Log(ctx, actorID, "CONVERT_PAYMENT", "RentalContract", contract.ID,
		fmt.Sprintf("Chuyển kỳ %s của hợp đồng %s thành giao dịch thu %s", p, contract.Code, txn.Code), ip, userAgent)

	return txn, nil
}

// ExpireOverdue moves active contracts past their end date to expired and
// releases their assets. Runs from the daily scheduler.
func (s *RentalService) ExpireOverdue(ctx context.Context) error {
	contracts, err := s.repo.FindActivePastEndDate(ctx)
	if err != nil {
		return err
	}

	expired := 0
	for i := range contracts {
		contract := &contracts[i]
		fsm := statemachine.NewRentalContractFSM(contract)
		if err := fsm.Expire(ctx); err != nil {
			continue
		}
		if err := s.repo.UpdateAndReleaseAsset(ctx, contract); err != nil {
			return err
		}
		expired++
	}

	if expired > 0 {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyAdmins(ctx,
				"Hợp đồng thuê hết hạn",
				fmt.Sprintf("%d hợp đồng thuê đã hết hạn và được giải phóng tài sản", expired),
				models.NotificationTypeRentalExpired)
		})
	}

	return nil
}
