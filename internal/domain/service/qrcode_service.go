package service

// QRCodeService renders share codes for posts.
type QRCodeService interface {
	// PostShareURL returns the public URL a post's QR code points to.
	PostShareURL(postID int64) string

	// GeneratePostQR renders the share URL of a post as a PNG image.
	GeneratePostQR(postID int64) ([]byte, error)
}
