package api

import (
	"net/http"

	"CricketSync/internal/cache"
	"CricketSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MatchHandler 比赛文档上传接口
type MatchHandler struct {
	matchService *service.MatchService
	logger       *logrus.Logger
}

// NewMatchHandler 创建 MatchHandler
func NewMatchHandler(db *gorm.DB, cacheSvc *cache.Service, logger *logrus.Logger) *MatchHandler {
	return &MatchHandler{
		matchService: service.NewMatchService(db, cacheSvc, logger),
		logger:       logger,
	}
}

// UploadMatchData 摄取一份比赛文档
// POST /api/matches/upload
func (h *MatchHandler) UploadMatchData(c *gin.Context) {
	content, err := c.GetRawData()
	if err != nil {
		h.logger.WithError(err).Error("读取请求体失败")
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取请求体失败"})
		return
	}
	if len(content) == 0 {
		h.logger.Warn("收到空的比赛文档")
		c.JSON(http.StatusBadRequest, gin.H{"error": "比赛文档不能为空"})
		return
	}

	if err := h.matchService.SaveMatchData(c.Request.Context(), content); err != nil {
		h.logger.WithError(err).Error("比赛文档处理失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "比赛数据上传并处理成功"})
}
