package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
	"underwritepro/internal/services"
)

// DocumentHandler handles document upload and listing.
type DocumentHandler struct {
	documentService services.DocumentServicer
	auditService    services.AuditServicer
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService services.DocumentServicer, auditService services.AuditServicer) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, auditService: auditService}
}

// DocumentResponse represents a document in the response.
type DocumentResponse struct {
	ID           string `json:"id"`
	DealID       string `json:"deal_id"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

// UploadDocument accepts a multipart file upload against a deal
// @Summary     Upload a document
// @Description Upload an underwriting document (tax return, financial statement, appraisal) against a deal
// @Tags        documents
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Param       file formData file true "Document file"
// @Param       document_type formData string true "Document type"
// @Param       tax_year formData int false "Tax year for tax returns"
// @Success     201 {object} DocumentResponse "Document stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     413 {object} ErrorResponse "File too large"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	docType := models.DocumentType(c.PostForm("document_type"))
	switch docType {
	case models.DocumentTypeTaxReturnBusiness, models.DocumentTypeTaxReturnPersonal,
		models.DocumentTypeFinancialStatement, models.DocumentTypeBankStatement,
		models.DocumentTypeRentRoll, models.DocumentTypeAppraisal, models.DocumentTypeOther:
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid document_type"))
		return
	}

	var taxYear *int
	if v := c.PostForm("tax_year"); v != "" {
		year, convErr := strconv.Atoi(v)
		if convErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid tax_year"))
			return
		}
		taxYear = &year
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	doc, err := h.documentService.StoreDocument(userID, dealID, docType, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, file, taxYear)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPLOAD_DOCUMENT", "document", doc.ID, c.ClientIP(),
		map[string]interface{}{"deal_id": dealID, "document_type": string(docType), "file_name": doc.FileName})

	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// GetDealDocuments lists documents on a deal
// @Summary     List deal documents
// @Description Get a paginated list of documents uploaded against a deal
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Document] "Documents"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/documents [get]
func (h *DocumentHandler) GetDealDocuments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.documentService.GetDealDocuments(userID, dealID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
