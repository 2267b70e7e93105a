package services

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
	"underwritepro/internal/uuid"
)

// documentService handles document upload and retrieval. File bodies are
// written under the upload directory; metadata lives in the documents table.
type documentService struct {
	db        *gorm.DB
	uploadDir string
	maxBytes  int64
}

// NewDocumentService creates a new DocumentServicer storing files under uploadDir.
func NewDocumentService(db *gorm.DB, uploadDir string, maxBytes int64) DocumentServicer {
	return &documentService{db: db, uploadDir: uploadDir, maxBytes: maxBytes}
}

// StoreDocument writes the file body to disk and records its metadata against
// the deal. The deal must belong to the user.
func (s *documentService) StoreDocument(userID, dealID string, docType models.DocumentType, fileName, contentType string, size int64, body io.Reader, taxYear *int) (*models.Document, error) {
	if fileName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "file name is required")
	}
	if size > s.maxBytes {
		return nil, apperrors.ErrDocumentTooLarge
	}

	var count int64
	s.db.Model(&models.Deal{}).Where("id = ? AND user_id = ?", dealID, userID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrDealNotFound
	}

	dir := filepath.Join(s.uploadDir, dealID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Stored under a generated name; the original file name stays in metadata.
	storagePath := filepath.Join(dir, uuid.New()+filepath.Ext(fileName))
	dst, err := os.Create(storagePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		os.Remove(storagePath)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if written > s.maxBytes {
		os.Remove(storagePath)
		return nil, apperrors.ErrDocumentTooLarge
	}

	doc := &models.Document{
		DealID:       dealID,
		UserID:       userID,
		DocumentType: docType,
		FileName:     fileName,
		StoragePath:  storagePath,
		ContentType:  contentType,
		SizeBytes:    written,
		TaxYear:      taxYear,
	}

	if err := s.db.Create(doc).Error; err != nil {
		os.Remove(storagePath)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return doc, nil
}

// GetDealDocuments retrieves a paginated list of documents for a deal.
func (s *documentService) GetDealDocuments(userID, dealID string, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error) {
	page.Defaults()

	var count int64
	s.db.Model(&models.Deal{}).Where("id = ? AND user_id = ?", dealID, userID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrDealNotFound
	}

	base := s.db.Model(&models.Document{}).Where("deal_id = ?", dealID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var docs []models.Document
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(docs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDocumentByID retrieves a document by ID for a specific user.
func (s *documentService) GetDocumentByID(userID, documentID string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.Where("id = ? AND user_id = ?", documentID, userID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &doc, nil
}
