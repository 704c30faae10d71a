package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/statemachine"
)

// BatchApprovalError carries the per-transaction reasons a batch approval was
// refused. The batch is all-or-nothing: one bad transaction rejects the lot.
type BatchApprovalError struct {
	Reasons map[uint]string
}

func (e *BatchApprovalError) Error() string {
	parts := make([]string, 0, len(e.Reasons))
	for id, reason := range e.Reasons {
		parts = append(parts, fmt.Sprintf("#%d: %s", id, reason))
	}
	return "không thể duyệt: " + strings.Join(parts, "; ")
}

type TransactionService struct {
	repo            repository.TransactionRepository
	receiptRepo     repository.ReceiptRepository
	contactRepo     repository.ContactRepository
	fundRepo        repository.FundRepository
	parishRepo      repository.ParishRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewTransactionService(
	repo repository.TransactionRepository,
	receiptRepo repository.ReceiptRepository,
	contactRepo repository.ContactRepository,
	fundRepo repository.FundRepository,
	parishRepo repository.ParishRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *TransactionService {
	return &TransactionService{
		repo:            repo,
		receiptRepo:     receiptRepo,
		contactRepo:     contactRepo,
		fundRepo:        fundRepo,
		parishRepo:      parishRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// FindByID gets a transaction by ID
func (s *TransactionService) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, query *repository.TransactionQuery) ([]models.Transaction, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *TransactionService) GetStats(ctx context.Context, parishID uint) (*repository.TransactionStats, error) {
	return s.repo.GetStats(ctx, parishID)
}

func (s *TransactionService) GetFundBalances(ctx context.Context, fundID uint) ([]models.FundBalance, error) {
	return s.repo.GetFundBalances(ctx, fundID)
}

// Create records a new pending transaction
func (s *TransactionService) Create(ctx context.Context, txn *models.Transaction, actorID uint, ip, userAgent string) error {
	if txn.Type != models.TransactionTypeIncome && txn.Type != models.TransactionTypeExpense {
		return fmt.Errorf("loại giao dịch không hợp lệ: %s", txn.Type)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("số tiền phải lớn hơn 0")
	}

	// Verify references exist
	if _, err := s.fundRepo.FindByID(ctx, txn.FundID); err != nil {
		return fmt.Errorf("quỹ không tồn tại: %w", err)
	}
	if _, err := s.parishRepo.FindByID(ctx, txn.ParishID); err != nil {
		return fmt.Errorf("giáo xứ không tồn tại: %w", err)
	}

	txn.Status = models.TransactionStatusPending
	if txn.Source == "" {
		txn.Source = models.TransactionSourceManual
	}
	if txn.Code == "" {
		txn.Code = generateCode("GD")
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		return err
	}

	// Notify approvers asynchronously
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyApprovers(ctx,
			"Giao dịch chờ duyệt",
			fmt.Sprintf("Giao dịch %s (%s) đang chờ duyệt", txn.Code, formatAmount(txn.Amount)),
			models.NotificationTypeTransactionPending)
	})

	s.auditSvc.Log(ctx, actorID, "CREATE", "Transaction", txn.ID,
		fmt.Sprintf("Tạo giao dịch %s loại %s, số tiền %s", txn.Code, txn.Type, formatAmount(txn.Amount)), ip, userAgent)

	return nil
}

// Update edits a transaction while it is still pending
func (s *TransactionService) Update(ctx context.Context, txn *models.Transaction, actorID uint, ip, userAgent string) error {
	existing, err := s.repo.FindByID(ctx, txn.ID)
	if err != nil {
		return err
	}
	if !existing.MayEdit() {
		return ErrInvalidState
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("số tiền phải lớn hơn 0")
	}

	// Immutable fields
	txn.Code = existing.Code
	txn.Status = existing.Status
	txn.Source = existing.Source
	txn.ReceiptID = existing.ReceiptID

	if err := s.repo.Update(ctx, txn); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "UPDATE", "Transaction", txn.ID,
		fmt.Sprintf("Sửa giao dịch %s", txn.Code), ip, userAgent)
	return nil
}

// Delete removes a pending transaction
func (s *TransactionService) Delete(ctx context.Context, id uint, actorID uint, ip, userAgent string) error {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if txn.Status != models.TransactionStatusPending {
		return ErrInvalidState
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "Transaction", id,
		fmt.Sprintf("Xóa giao dịch %s", txn.Code), ip, userAgent)
	return nil
}

// AddVoucherImage records a stored voucher image path on the transaction
func (s *TransactionService) AddVoucherImage(ctx context.Context, id uint, path string) (*models.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	txn.AddImagePath(path)
	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Approve approves a single transaction and issues its receipt. The state
// transition and receipt creation are persisted atomically.
func (s *TransactionService) Approve(ctx context.Context, id uint, note string, actorID uint, ip, userAgent string) (*models.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reason := s.approvalBlocker(ctx, txn); reason != "" {
		return nil, fmt.Errorf("không thể duyệt giao dịch %s: %s", txn.Code, reason)
	}

	fsm := statemachine.NewTransactionFSM(txn)
	if err := fsm.Approve(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	txn.ApprovedAt = &now
	txn.ApprovedByUserID = &actorID
	if note != "" {
		txn.ApprovalNote = &note
	}

	receipt := s.buildReceipt([]*models.Transaction{txn}, false, actorID)
	if err := s.receiptRepo.CreateForTransactions(ctx, receipt, []*models.Transaction{txn}); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyApprovers(ctx,
			"Giao dịch đã duyệt",
			fmt.Sprintf("Giao dịch %s đã được duyệt, phiếu %s", txn.Code, receipt.ReceiptNo),
			models.NotificationTypeTransactionApproved)
	})

	s.auditSvc.Log(ctx, actorID, "APPROVE", "Transaction", txn.ID,
		fmt.Sprintf("Duyệt giao dịch %s, phát hành phiếu %s", txn.Code, receipt.ReceiptNo), ip, userAgent)

	return txn, nil
}

// ApproveBatch approves a set of pending transactions together. With combined
// set, one receipt covers the whole batch; otherwise each transaction gets its
// own. Validation is fail-closed: if any transaction cannot be approved the
// whole batch is refused and every offending id is reported.
func (s *TransactionService) ApproveBatch(ctx context.Context, ids []uint, combined bool, note string, actorID uint, ip, userAgent string) ([]*models.Transaction, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}

	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Transaction, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	reasons := make(map[uint]string)
	txns := make([]*models.Transaction, 0, len(ids))
	for _, id := range ids {
		txn, ok := byID[id]
		if !ok {
			reasons[id] = "không tìm thấy"
			continue
		}
		if reason := s.approvalBlocker(ctx, txn); reason != "" {
			reasons[id] = reason
			continue
		}
		txns = append(txns, txn)
	}
	if len(reasons) > 0 {
		return nil, &BatchApprovalError{Reasons: reasons}
	}

	if combined {
		first := txns[0]
		for _, txn := range txns[1:] {
			if txn.Type != first.Type || txn.FundID != first.FundID || txn.ParishID != first.ParishID {
				return nil, ErrMixedBatch
			}
		}
	}

	now := time.Now()
	for _, txn := range txns {
		fsm := statemachine.NewTransactionFSM(txn)
		if err := fsm.Approve(ctx); err != nil {
			return nil, err
		}
		txn.ApprovedAt = &now
		txn.ApprovedByUserID = &actorID
		if note != "" {
			n := note
			txn.ApprovalNote = &n
		}
	}

	var receiptNos []string
	if combined {
		receipt := s.buildReceipt(txns, true, actorID)
		if err := s.receiptRepo.CreateForTransactions(ctx, receipt, txns); err != nil {
			return nil, err
		}
		receiptNos = append(receiptNos, receipt.ReceiptNo)
	} else {
		for _, txn := range txns {
			receipt := s.buildReceipt([]*models.Transaction{txn}, false, actorID)
			if err := s.receiptRepo.CreateForTransactions(ctx, receipt, []*models.Transaction{txn}); err != nil {
				return nil, err
			}
			receiptNos = append(receiptNos, receipt.ReceiptNo)
		}
	}

	s.auditSvc.Log(ctx, actorID, "APPROVE_BATCH", "Transaction", txns[0].ID,
		fmt.Sprintf("Duyệt %d giao dịch, phiếu: %s", len(txns), strings.Join(receiptNos, ", ")), ip, userAgent)

	return txns, nil
}

// Reject rejects a pending transaction with a reason
func (s *TransactionService) Reject(ctx context.Context, id uint, reason string, actorID uint, ip, userAgent string) (*models.Transaction, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewTransactionFSM(txn)
	if err := fsm.Reject(ctx); err != nil {
		return nil, err
	}

	if reason != "" {
		txn.RejectionNote = &reason
	}

	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyApprovers(ctx,
			"Giao dịch bị từ chối",
			fmt.Sprintf("Giao dịch %s bị từ chối: %s", txn.Code, reason),
			models.NotificationTypeTransactionRejected)
	})

	s.auditSvc.Log(ctx, actorID, "REJECT", "Transaction", txn.ID,
		fmt.Sprintf("Từ chối giao dịch %s. Lý do: %s", txn.Code, reason), ip, userAgent)

	return txn, nil
}

// RemindPendingApprovals notifies approvers about transactions sitting in the
// pending queue for too long. Runs from the daily scheduler.
func (s *TransactionService) RemindPendingApprovals(ctx context.Context, olderThanHours int) error {
	txns, err := s.repo.FindPendingOlderThan(ctx, olderThanHours)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return nil
	}
	return s.notificationSvc.NotifyApprovers(ctx,
		"Giao dịch chờ duyệt quá hạn",
		fmt.Sprintf("Có %d giao dịch chờ duyệt quá %d giờ", len(txns), olderThanHours),
		models.NotificationTypeTransactionPending)
}

// approvalBlocker returns the localized reason a transaction cannot be
// approved, or an empty string when approval may proceed.
func (s *TransactionService) approvalBlocker(ctx context.Context, txn *models.Transaction) string {
	if !txn.MayApprove() {
		return fmt.Sprintf("trạng thái hiện tại là %s", txn.Status)
	}
	if txn.IsOnline() {
		// Resolve the contact if not preloaded; a missing counterparty bank
		// account blocks approval of online transactions.
		if txn.Contact == nil && txn.ContactID != nil {
			if contact, err := s.contactRepo.FindByID(ctx, *txn.ContactID); err == nil {
				txn.Contact = contact
			}
		}
		if !txn.CounterpartyHasBankDetails() {
			return ErrMissingBankDetails.Error()
		}
	}
	return ""
}

// buildReceipt assembles the receipt for a set of same-type transactions.
// Income receipts get the PT (phiếu thu) prefix, expenses PC (phiếu chi).
func (s *TransactionService) buildReceipt(txns []*models.Transaction, combined bool, actorID uint) *models.Receipt {
	first := txns[0]

	prefix := "PT"
	receiptType := models.ReceiptTypeIncome
	if first.Type == models.TransactionTypeExpense {
		prefix = "PC"
		receiptType = models.ReceiptTypeExpense
	}

	var amount float64
	for _, txn := range txns {
		amount += txn.Amount
	}

	payerPayee := first.PayerPayee
	if combined && len(txns) > 1 {
		payerPayee = fmt.Sprintf("Phiếu gộp (%d giao dịch)", len(txns))
	}

	return &models.Receipt{
		ReceiptNo:       generateCode(prefix),
		ReceiptType:     receiptType,
		IsCombined:      combined && len(txns) > 1,
		ParishID:        first.ParishID,
		FundID:          first.FundID,
		Amount:          amount,
		PayerPayee:      payerPayee,
		CreatedByUserID: &actorID,
	}
}

func generateCode(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.0f VND", amount)
}
