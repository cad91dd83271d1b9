package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/storeshot/storeshot-api/internal/config"
	"github.com/storeshot/storeshot-api/internal/models"
)

const qrCodeSize = 256

// ShareService stores exported rasters as shareable artifacts and builds
// share links with QR codes. With a database it persists through gorm;
// without one it falls back to an in-memory map so sharing still works in
// local development.
type ShareService struct {
	db      *gorm.DB
	baseURL string

	mu     sync.RWMutex
	memory map[string]*models.ShareArtifact
}

func NewShareService(db *gorm.DB, cfg *config.Config) *ShareService {
	return &ShareService{
		db:      db,
		baseURL: cfg.ShareBaseURL,
		memory:  make(map[string]*models.ShareArtifact),
	}
}

// ShareLink is what the share endpoint returns: the public URL plus a PNG
// QR code encoding it.
type ShareLink struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	QRCode []byte `json:"-"`
}

// CreateShare stores the raster and returns its share link.
func (s *ShareService) CreateShare(screenName, fileName string, pngData []byte) (*ShareLink, error) {
	artifact := &models.ShareArtifact{
		ID:         uuid.New().String(),
		ScreenName: screenName,
		FileName:   fileName,
		PNG:        pngData,
	}

	if s.db != nil {
		if err := s.db.Create(artifact).Error; err != nil {
			return nil, fmt.Errorf("storing share artifact: %w", err)
		}
	} else {
		s.mu.Lock()
		s.memory[artifact.ID] = artifact
		s.mu.Unlock()
	}

	url := fmt.Sprintf("%s/share/%s", s.baseURL, artifact.ID)
	qr, err := qrcode.Encode(url, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}

	return &ShareLink{ID: artifact.ID, URL: url, QRCode: qr}, nil
}

// ShareQR regenerates the QR code PNG for an existing artifact. QR codes are
// derived from the URL rather than stored, so this works for artifacts in
// either backend.
func (s *ShareService) ShareQR(id string) ([]byte, error) {
	if _, err := s.GetShare(id); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/share/%s", s.baseURL, id)
	qr, err := qrcode.Encode(url, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}
	return qr, nil
}

// GetShare fetches a stored artifact by id.
func (s *ShareService) GetShare(id string) (*models.ShareArtifact, error) {
	if s.db != nil {
		var artifact models.ShareArtifact
		if err := s.db.First(&artifact, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("share %q not found", id)
		}
		return &artifact, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	artifact, ok := s.memory[id]
	if !ok {
		return nil, fmt.Errorf("share %q not found", id)
	}
	return artifact, nil
}
