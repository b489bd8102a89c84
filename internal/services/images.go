package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"plantopia_back_end/internal/apperr"
	"plantopia_back_end/internal/config"
)

const imageFolder = "plantopia"

// Cadre maximal des images du catalogue : réduites pour y tenir, jamais
// agrandies.
const (
	maxImageWidth  = 800
	maxImageHeight = 600
	jpegQuality    = 80
)

var errImagesDisabled = errors.New("MinIO non initialisé")

type UploadedImage struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

// ImageStore reçoit un fichier multipart et renvoie son URL publique.
type ImageStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*UploadedImage, error)
}

type MinIOImages struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOImages(client *minio.Client, cfg config.MinIOConfig) *MinIOImages {
	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &MinIOImages{client: client, bucket: cfg.Bucket, baseURL: base}
}

// Upload range l'objet sous plantopia/<uuid><ext>. publicId est la clé sans
// extension.
func (m *MinIOImages) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadedImage, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if fitted, ok := fitImage(data); ok {
		data, ext, contentType = fitted.data, fitted.ext, fitted.contentType
	}

	publicID := path.Join(imageFolder, uuid.NewString())
	key := publicID + ext

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, err
	}

	log.Printf("🖼️ Image envoyée : %s (%d octets)", key, len(data))
	return &UploadedImage{URL: m.baseURL + "/" + key, PublicID: publicID}, nil
}

type fittedImage struct {
	data        []byte
	ext         string
	contentType string
}

// fitImage réduit une image plus grande que le cadre maximal en gardant ses
// proportions. ok vaut false si l'image tient déjà dans le cadre ou ne se
// décode pas : l'original est alors envoyé tel quel.
func fitImage(data []byte) (fittedImage, bool) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fittedImage{}, false
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxImageWidth && h <= maxImageHeight {
		return fittedImage{}, false
	}

	scale := min(float64(maxImageWidth)/float64(w), float64(maxImageHeight)/float64(h))
	nw, nh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	out := fittedImage{ext: ".jpg", contentType: "image/jpeg"}
	switch format {
	case "png", "gif":
		// Transparence conservée.
		out.ext, out.contentType = ".png", "image/png"
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		log.Printf("⚠️ Redimensionnement impossible, image envoyée telle quelle: %v", err)
		return fittedImage{}, false
	}
	out.data = buf.Bytes()
	return out, true
}

type ImageService struct {
	store ImageStore
}

// NewImageService : store nil désactive l'envoi d'images.
func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

func (s *ImageService) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadedImage, error) {
	if file == nil {
		return nil, apperr.Validation("No image file provided")
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, apperr.Validation("Only image files are allowed")
	}
	if s.store == nil {
		return nil, apperr.Store("images.upload", errImagesDisabled)
	}

	img, err := s.store.Upload(ctx, file)
	if err != nil {
		return nil, apperr.Store("images.upload", err)
	}
	return img, nil
}
