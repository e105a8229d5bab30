package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxReceiptBytes bounds receipt uploads.
const MaxReceiptBytes = 5 << 20

var receiptMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

var receiptExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".pdf": true,
}

// CheckReceipt gates a receipt upload by size, MIME type and, for
// application/octet-stream, by file extension. It returns the extension to store under.
func CheckReceipt(contentType, filename string, size int64) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("receipt file is empty")
	}
	if size > MaxReceiptBytes {
		return "", fmt.Errorf("receipt exceeds %d MB", MaxReceiptBytes>>20)
	}
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext := strings.ToLower(filepath.Ext(filename))
	if stored, ok := receiptMIMETypes[mime]; ok {
		if receiptExtensions[ext] {
			return ext, nil
		}
		return stored, nil
	}
	if mime == "application/octet-stream" && receiptExtensions[ext] {
		return ext, nil
	}
	return "", fmt.Errorf("file type %q not allowed, use JPG, PNG, WEBP, GIF or PDF", mime)
}
