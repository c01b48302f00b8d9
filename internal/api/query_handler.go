package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"CricketSync/internal/cache"
	"CricketSync/internal/mirror"
	"CricketSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// QueryHandler 聚合查询接口，每次结果附带镜像发布
type QueryHandler struct {
	queryService *service.QueryService
	mirror       *mirror.Publisher
	logger       *logrus.Logger
}

// NewQueryHandler 创建 QueryHandler
func NewQueryHandler(db *gorm.DB, cacheSvc *cache.Service, pub *mirror.Publisher, logger *logrus.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: service.NewQueryService(db, cacheSvc, logger),
		mirror:       pub,
		logger:       logger,
	}
}

// GetMatchesByPlayerName 按球员姓名查比赛
// GET /api/matches/player?playerName=Virat Kohli
func (h *QueryHandler) GetMatchesByPlayerName(c *gin.Context) {
	playerName := c.Query("playerName")
	if playerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName不能为空"})
		return
	}

	matches, err := h.queryService.MatchesByPlayerName(c.Request.Context(), playerName)
	if err != nil {
		h.logger.WithError(err).Error("按球员查比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, matches)
	h.mirror.Publish(fmt.Sprintf("Matches for player %s", playerName), matches)
}

// GetCumulativeScore 查球员累计得分
// GET /api/matches/cumulativeScore/:playerName
func (h *QueryHandler) GetCumulativeScore(c *gin.Context) {
	playerName := c.Param("playerName")

	score, err := h.queryService.CumulativeScoreByPlayerName(c.Request.Context(), playerName)
	if err != nil {
		h.logger.WithError(err).Error("查累计得分失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playerName":      playerName,
		"cumulativeScore": score.Score,
		"found":           score.Found,
	})
	h.mirror.Publish(fmt.Sprintf("Cumulative score for player %s", playerName), score)
}

// GetMatchesByDate 按日期查比赛
// GET /api/matches/date/2024-09-17
func (h *QueryHandler) GetMatchesByDate(c *gin.Context) {
	date, ok := h.parseDateParam(c)
	if !ok {
		return
	}

	matches, err := h.queryService.MatchesByDate(c.Request.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("按日期查比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, matches)
	h.mirror.Publish(fmt.Sprintf("Matches on date %s", c.Param("date")), matches)
}

// GetScoresByDate 按日期查各场比赛的局得分
// GET /api/matches/scores/2024-09-17
func (h *QueryHandler) GetScoresByDate(c *gin.Context) {
	date, ok := h.parseDateParam(c)
	if !ok {
		return
	}

	scores, err := h.queryService.ScoresByDate(c.Request.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("按日期查局得分失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scores)
	h.mirror.Publish(fmt.Sprintf("Scores on date %s", c.Param("date")), scores)
}

// GetTopBatsmen 最佳击球手分页
// GET /api/matches/batsmen/top?page=0&size=10
func (h *QueryHandler) GetTopBatsmen(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	result, err := h.queryService.TopBatsmen(c.Request.Context(), page, size)
	if err != nil {
		h.logger.WithError(err).Error("查最佳击球手失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
	h.mirror.Publish(fmt.Sprintf("Top batsmen for page %d and size %d", page, size), result.Items)
}

// parseDateParam 解析:date路径参数，格式不对返回400
func (h *QueryHandler) parseDateParam(c *gin.Context) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "日期格式应为YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}
