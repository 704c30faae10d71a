package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/statemachine"
)

type ReceiptService struct {
	repo            repository.ReceiptRepository
	txnRepo         repository.TransactionRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
	worker          *jobs.Worker
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	txnRepo repository.TransactionRepository,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *ReceiptService {
	return &ReceiptService{
		repo:            repo,
		txnRepo:         txnRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

func (s *ReceiptService) FindByID(ctx context.Context, id uint) (*models.Receipt, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ReceiptService) List(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, int64, error) {
	return s.repo.List(ctx, query)
}

// Cancel voids a receipt: every transaction it covers reverts to pending and
// the receipt is deleted, atomically. Routing restricts this to admins.
func (s *ReceiptService) Cancel(ctx context.Context, id uint, reason string, actorID uint, ip, userAgent string) error {
	receipt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	for i := range receipt.Transactions {
		txn := &receipt.Transactions[i]
		fsm := statemachine.NewTransactionFSM(txn)
		if err := fsm.Revert(ctx); err != nil {
			return fmt.Errorf("không thể hủy phiếu %s: %w", receipt.ReceiptNo, err)
		}
	}

	if err := s.repo.CancelWithTransactions(ctx, receipt); err != nil {
		return err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyApprovers(ctx,
			"Phiếu đã bị hủy",
			fmt.Sprintf("Phiếu %s đã bị hủy, %d giao dịch trở về chờ duyệt", receipt.ReceiptNo, len(receipt.Transactions)),
			models.NotificationTypeReceiptCancelled)
	})

	s.auditSvc.Log(ctx, actorID, "CANCEL", "Receipt", receipt.ID,
		fmt.Sprintf("Hủy phiếu %s. Lý do: %s", receipt.ReceiptNo, reason), ip, userAgent)

	return nil
}

// GeneratePDF renders a printable receipt. Core PDF fonts carry no Vietnamese
// glyphs, so the layout uses unaccented labels.
func (s *ReceiptService) GeneratePDF(ctx context.Context, id uint) ([]byte, string, error) {
	receipt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	title := "PHIEU THU"
	counterpartyLabel := "Nguoi nop tien:"
	if receipt.ReceiptType == models.ReceiptTypeExpense {
		title = "PHIEU CHI"
		counterpartyLabel = "Nguoi nhan tien:"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 6, "TOA GIAM MUC")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	if receipt.Parish.ID != 0 {
		pdf.Cell(100, 6, fmt.Sprintf("Giao xu: %s", stripDiacritics(receipt.Parish.Name)))
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("So: %s - Ngay %s", receipt.ReceiptNo, receipt.CreatedAt.Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(50, 8, counterpartyLabel)
	pdf.Cell(0, 8, stripDiacritics(receipt.PayerPayee))
	pdf.Ln(8)

	if receipt.Fund.ID != 0 {
		pdf.Cell(50, 8, "Quy:")
		pdf.Cell(0, 8, stripDiacritics(receipt.Fund.Name))
		pdf.Ln(8)
	}

	pdf.Cell(50, 8, "So tien:")
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%.0f VND", receipt.Amount))
	pdf.SetFont("Arial", "", 11)
	pdf.Ln(8)

	pdf.Cell(50, 8, "Bang chu:")
	pdf.Cell(0, 8, stripDiacritics(AmountToWords(receipt.Amount)))
	pdf.Ln(12)

	// Itemize combined receipts
	if receipt.IsCombined && len(receipt.Transactions) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 8, "Ma GD", "1", 0, "C", false, 0, "")
		pdf.CellFormat(100, 8, "Noi dung", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, "So tien", "1", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, txn := range receipt.Transactions {
			note := ""
			if txn.Notes != nil {
				note = stripDiacritics(*txn.Notes)
			}
			pdf.CellFormat(30, 8, txn.Code, "1", 0, "L", false, 0, "")
			pdf.CellFormat(100, 8, note, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 8, fmt.Sprintf("%.0f", txn.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(8)
	}

	pdf.Ln(10)
	pdf.CellFormat(63, 8, "Nguoi lap phieu", "", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, "Thu quy", "", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, counterpartyLabel, "", 1, "C", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_%s.pdf", receipt.ReceiptNo, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// stripDiacritics maps Vietnamese letters onto their base ASCII forms for the
// core-font PDF output.
func stripDiacritics(s string) string {
	var out []rune
	for _, r := range s {
		if mapped, ok := viASCII[r]; ok {
			out = append(out, mapped)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

var viASCII = buildViASCII()

func buildViASCII() map[rune]rune {
	groups := map[rune]string{
		'a': "àáạảãâầấậẩẫăằắặẳẵ",
		'e': "èéẹẻẽêềếệểễ",
		'i': "ìíịỉĩ",
		'o': "òóọỏõôồốộổỗơờớợởỡ",
		'u': "ùúụủũưừứựửữ",
		'y': "ỳýỵỷỹ",
		'd': "đ",
		'A': "ÀÁẠẢÃÂẦẤẬẨẪĂẰẮẶẲẴ",
		'E': "ÈÉẸẺẼÊỀẾỆỂỄ",
		'I': "ÌÍỊỈĨ",
		'O': "ÒÓỌỎÕÔỒỐỘỔỖƠỜỚỢỞỠ",
		'U': "ÙÚỤỦŨƯỪỨỰỬỮ",
		'Y': "ỲÝỴỶỸ",
		'D': "Đ",
	}
	m := make(map[rune]rune)
	for base, variants := range groups {
		for _, v := range variants {
			m[v] = base
		}
	}
	return m
}
