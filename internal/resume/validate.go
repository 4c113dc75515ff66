package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxSize = 5 << 20

	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrTooLarge        = errors.New("file size should be less than 5MB")
	ErrUnsupportedType = errors.New("please upload a PDF or Word document")
	ErrEmpty           = errors.New("file is empty")
)

// AllowedTypes lists the accepted resume MIME types.
var AllowedTypes = []string{MIMEPDF, MIMEDOC, MIMEDOCX}

// Validate checks the declared type and size. It never touches the network.
func Validate(contentType string, size int64) error {
	return ValidateMax(contentType, size, MaxSize)
}

func ValidateMax(contentType string, size, max int64) error {
	if size <= 0 {
		return ErrEmpty
	}
	if size > max {
		return ErrTooLarge
	}
	if !Allowed(contentType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return nil
}

func Allowed(contentType string) bool {
	ct := NormalizeType(contentType)
	for _, t := range AllowedTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// NormalizeType drops parameters such as "; charset=binary".
func NormalizeType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// Sniff detects the content type from the first bytes of r and returns a reader
// that replays those bytes followed by the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	return NormalizeType(mt.String()), io.MultiReader(bytes.NewReader(head), r), nil
}

// ResolveType picks the declared type unless it is missing or generic, in which case the sniffed type wins.
func ResolveType(declared, sniffed string) string {
	d := NormalizeType(declared)
	if d == "" || d == "application/octet-stream" {
		return sniffed
	}
	return d
}
