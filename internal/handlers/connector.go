// internal/handlers/connector.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

// 20MB cap on uploaded sales exports.
const maxImportSize = 20 << 20

type ConnectorHandler struct {
	connectors *services.ConnectorService
}

func NewConnectorHandler(connectors *services.ConnectorService) *ConnectorHandler {
	return &ConnectorHandler{connectors: connectors}
}

func (h *ConnectorHandler) List(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	connectors, err := h.connectors.List(publisherID)
	if err != nil {
		respondServiceError(c, err, "connector")
		return
	}
	utils.SuccessResponse(c, connectors)
}

func (h *ConnectorHandler) Create(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req services.CreateConnectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	connector, err := h.connectors.Create(publisherID, req)
	if err != nil {
		respondServiceError(c, err, "connector")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, connector, gin.H{
		"message": i18n.T(lang, i18n.KeyConnectorCreated),
	})
}

func (h *ConnectorHandler) Delete(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	connectorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.connectors.Delete(publisherID, connectorID); err != nil {
		respondServiceError(c, err, "connector")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// Import ingests a multipart CSV sales export through a CSV connector.
func (h *ConnectorHandler) Import(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	connectorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lang := utils.GetLangFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	if fileHeader.Size > maxImportSize {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	summary, err := h.connectors.ImportCSV(publisherID, connectorID, fileHeader.Filename, content)
	if err != nil {
		respondServiceError(c, err, "connector")
		return
	}

	utils.SuccessResponseWithMeta(c, summary, gin.H{
		"message": i18n.T(lang, i18n.KeyConnectorImportDone, summary.ImportedSales),
	})
}
