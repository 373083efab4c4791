package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const postImagesDir = "posts_images"

// MediaService stores uploaded post images under root. Paths handed out are
// relative to root and use forward slashes.
type MediaService struct {
	root    string
	maxSize int64
}

func NewMediaService(root string, maxSize int64) *MediaService {
	return &MediaService{root: root, maxSize: maxSize}
}

func (m *MediaService) Root() string {
	return m.root
}

func (m *MediaService) SavePostImage(header *multipart.FileHeader) (string, error) {
	if header.Size > m.maxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrInvalidImage, header.Size, m.maxSize)
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: %s is not an image", ErrInvalidImage, mtype.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := path.Join(postImagesDir, uuid.New().String()+mtype.Extension())
	dest := filepath.Join(m.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, io.LimitReader(file, m.maxSize)); err != nil {
		out.Close()
		os.Remove(dest)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", err
	}

	return name, nil
}

// Remove deletes a stored file. Empty names and missing files are ignored.
func (m *MediaService) Remove(name string) {
	if m == nil || name == "" {
		return
	}
	clean := path.Clean("/" + name)[1:]
	if clean == "" {
		return
	}
	err := os.Remove(filepath.Join(m.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to remove media file %s: %v", name, err)
	}
}
