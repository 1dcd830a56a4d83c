package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	AvatarSize     = 256
	maxAvatarBytes = 5 << 20
)

var allowedAvatarExts = []string{".jpg", ".jpeg", ".png"}

// StoredFile identifies an uploaded file by its storage key and public URL.
type StoredFile struct {
	Key string
	URL string
}

type FileService interface {
	UploadAvatar(ctx context.Context, employeeID string, file io.Reader, filename string) (StoredFile, error)
	DeleteFile(ctx context.Context, key string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAvatar crops the image to a centred square, scales it to
// AvatarSize and stores it as JPEG.
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, employeeID string, file io.Reader, filename string) (StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	isValid := false
	for _, allowed := range allowedAvatarExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return StoredFile{}, fmt.Errorf("%w: only jpg, jpeg, png allowed", employee.ErrInvalidAvatar)
	}

	buffer, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > maxAvatarBytes {
		return StoredFile{}, fmt.Errorf("%w: image exceeds 5MB", employee.ErrInvalidAvatar)
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return StoredFile{}, fmt.Errorf("%w: cannot decode image", employee.ErrInvalidAvatar)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, squareThumbnail(img, AvatarSize), &jpeg.Options{Quality: 85}); err != nil {
		return StoredFile{}, fmt.Errorf("failed to encode avatar: %w", err)
	}

	key := path.Join("avatars", employeeID, uuid.NewString()+".jpg")
	uploadedKey, err := s.storage.Upload(ctx, &out, key, "image/jpeg")
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return StoredFile{Key: uploadedKey, URL: s.storage.URL(uploadedKey)}, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// squareThumbnail resizes the largest centred square of src to size x size
func squareThumbnail(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}
