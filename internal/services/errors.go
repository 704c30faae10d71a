package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("không tìm thấy bản ghi")
	ErrInvalidPassword    = errors.New("mật khẩu không đúng")
	ErrUnauthorized       = errors.New("không có quyền thực hiện")
	ErrInvalidState       = errors.New("chuyển trạng thái không hợp lệ")
	ErrDuplicate          = errors.New("bản ghi đã tồn tại")
	ErrMissingBankDetails = errors.New("giao dịch chuyển khoản thiếu thông tin tài khoản ngân hàng")
	ErrAssetUnavailable   = errors.New("tài sản đã gắn với hợp đồng cho thuê khác")
	ErrInvalidPeriod      = errors.New("kỳ không hợp lệ, định dạng phải là MM/YYYY")
	ErrExpenseNotApproved = errors.New("phiếu chi lương của kỳ này chưa được duyệt")
	ErrEmptyBatch         = errors.New("danh sách giao dịch trống")
	ErrMixedBatch         = errors.New("các giao dịch gộp phải cùng loại, cùng quỹ và cùng giáo xứ")
)
