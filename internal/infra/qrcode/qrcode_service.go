// Package qrcode renders post share links as QR code images.
package qrcode

import (
	"strconv"
	"strings"

	"letsshare/config"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a QR code service from the qrcode configuration.
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	var qrCfg config.QRCodeConfig
	if cfg.QRCode != nil {
		qrCfg = *cfg.QRCode
	}

	return newQRCodeService(qrCfg.Size, qrCfg.ErrorCorrectionLevel, qrCfg.BaseURL)
}

func newQRCodeService(size int, errorCorrectionLevel, baseURL string) *qrcodeService {
	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: recoveryLevel(errorCorrectionLevel),
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// PostShareURL returns baseURL/posts/{id}, or a root-relative path when no base URL is set.
func (s *qrcodeService) PostShareURL(postID int64) string {
	return s.baseURL + "/posts/" + strconv.FormatInt(postID, 10)
}

// GeneratePostQR renders the share URL of a post as a PNG image.
func (s *qrcodeService) GeneratePostQR(postID int64) ([]byte, error) {
	qrCode, err := qrcode.New(s.PostShareURL(postID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
