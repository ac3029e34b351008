// internal/handlers/ip_asset.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/phantomos/phantomos-backend/internal/i18n"
	"github.com/phantomos/phantomos-backend/internal/services"
	"github.com/phantomos/phantomos-backend/internal/utils"
)

type IPHandler struct {
	ips *services.IPService
}

func NewIPHandler(ips *services.IPService) *IPHandler {
	return &IPHandler{ips: ips}
}

func (h *IPHandler) ListGameIPs(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	gameIPs, err := h.ips.ListGameIPs(publisherID)
	if err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}
	utils.SuccessResponse(c, gameIPs)
}

func (h *IPHandler) GetGameIP(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	gameIPID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gameIP, err := h.ips.GetGameIP(publisherID, gameIPID)
	if err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}
	utils.SuccessResponse(c, gameIP)
}

func (h *IPHandler) CreateGameIP(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}

	var req services.CreateGameIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	gameIP, err := h.ips.CreateGameIP(publisherID, req)
	if err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, gameIP, gin.H{
		"message": i18n.T(lang, i18n.KeyGameIPCreated),
	})
}

func (h *IPHandler) UpdateGameIP(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	gameIPID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateGameIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	gameIP, err := h.ips.UpdateGameIP(publisherID, gameIPID, req)
	if err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}
	utils.SuccessResponse(c, gameIP)
}

func (h *IPHandler) DeleteGameIP(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	gameIPID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ips.DeleteGameIP(publisherID, gameIPID); err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func (h *IPHandler) ListAssets(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	gameIPID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assets, err := h.ips.ListAssets(publisherID, gameIPID)
	if err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}
	utils.SuccessResponse(c, assets)
}

func (h *IPHandler) CreateAsset(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	gameIPID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	asset, err := h.ips.CreateAsset(publisherID, gameIPID, req)
	if err != nil {
		respondServiceError(c, err, "game_ip")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponseWithMeta(c, asset, gin.H{
		"message": i18n.T(lang, i18n.KeyIPAssetCreated),
	})
}

func (h *IPHandler) UpdateAsset(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	assetID, ok := parseIDParam(c, "assetId")
	if !ok {
		return
	}

	var req services.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	asset, err := h.ips.UpdateAsset(publisherID, assetID, req)
	if err != nil {
		respondServiceError(c, err, "ip_asset")
		return
	}
	utils.SuccessResponse(c, asset)
}

func (h *IPHandler) DeleteAsset(c *gin.Context) {
	publisherID, ok := requirePublisher(c)
	if !ok {
		return
	}
	assetID, ok := parseIDParam(c, "assetId")
	if !ok {
		return
	}

	if err := h.ips.DeleteAsset(publisherID, assetID); err != nil {
		respondServiceError(c, err, "ip_asset")
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyIPAssetDeleted)})
}
