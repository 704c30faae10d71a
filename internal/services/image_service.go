package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/KhoaTran011604/gp-bmt-api/internal/storage"
)

const voucherMaxWidth = 1600

// ImageService handles voucher image processing before handing the result to
// local storage.
type ImageService struct {
	store *storage.LocalStorage
}

func NewImageService(store *storage.LocalStorage) *ImageService {
	return &ImageService{store: store}
}

// ProcessAndSaveVoucher validates, downscales and stores a voucher image
// attached to a transaction. It returns the relative path to store on the
// transaction record.
func (s *ImageService) ProcessAndSaveVoucher(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("định dạng ảnh không được hỗ trợ (chỉ JPG/PNG)")
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("không đọc được ảnh chứng từ: %w", err)
	}

	// Phone photos arrive at full camera resolution. Cap the width so the
	// stored voucher stays reviewable without eating disk.
	if img.Bounds().Dx() > voucherMaxWidth {
		img = imaging.Resize(img, voucherMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if ext == ".png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("không lưu được ảnh chứng từ: %w", err)
	}

	relPath, err := s.store.UploadFromBytes(buf.Bytes(), header.Filename, "vouchers")
	if err != nil {
		return "", fmt.Errorf("không lưu được ảnh chứng từ: %w", err)
	}
	return "/uploads/" + relPath, nil
}

// CopyRaw stores a non-image attachment (PDF scan) without processing.
func (s *ImageService) CopyRaw(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("định dạng tệp không được hỗ trợ")
	}

	relPath, err := s.store.Upload(file, header, "vouchers")
	if err != nil {
		return "", fmt.Errorf("không lưu được tệp: %w", err)
	}
	return "/uploads/" + relPath, nil
}
