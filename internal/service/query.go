package service

import (
	"context"
	"time"

	"CricketSync/internal/cache"
	"CricketSync/internal/model"
	"CricketSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 缓存键的操作种类，与各查询一一对应
const (
	kindMatchesByPlayer = "matchesByPlayerName"
	kindScoreByPlayer   = "cumulativeScoreByPlayerName"
	kindMatchesByDate   = "matchesByDate"
	kindScoresByDate    = "scoresByDate"
	kindTopBatsmen      = "topBatsmen"
)

// PlayerScore 累计得分查询结果。Found用于区分"没有这名球员"和"得分确实是0"
type PlayerScore struct {
	Score int  `json:"score"`
	Found bool `json:"found"`
}

// BatsmenPage 最佳击球手分页结果
type BatsmenPage struct {
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int64           `json:"total"`
	Items []*model.Player `json:"items"`
}

// QueryService 聚合查询服务：五个只读视图，逐键走读穿缓存
type QueryService struct {
	repo   repository.QueryRepository
	cache  *cache.Service
	logger *logrus.Logger
}

// NewQueryService 创建 QueryService
func NewQueryService(db *gorm.DB, cacheSvc *cache.Service, logger *logrus.Logger) *QueryService {
	return &QueryService{
		repo:   repository.NewQueryRepository(db),
		cache:  cacheSvc,
		logger: logger,
	}
}

// MatchesByPlayerName 按球员姓名查比赛列表，球员未知时返回空列表
func (s *QueryService) MatchesByPlayerName(ctx context.Context, playerName string) ([]*model.Match, error) {
	key := cache.Key(kindMatchesByPlayer, playerName)
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]*model.Match, error) {
		return s.repo.FindMatchesByPlayerName(ctx, playerName)
	})
}

// CumulativeScoreByPlayerName 查球员累计得分。
// 未找到时得分为0且Found=false（对外仍兼容只读得分的调用方）
func (s *QueryService) CumulativeScoreByPlayerName(ctx context.Context, playerName string) (PlayerScore, error) {
	key := cache.Key(kindScoreByPlayer, playerName)
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (PlayerScore, error) {
		player, err := s.repo.FindPlayerByName(ctx, playerName)
		if err != nil {
			return PlayerScore{}, err
		}
		if player == nil {
			return PlayerScore{Score: 0, Found: false}, nil
		}
		return PlayerScore{Score: player.TotalScore, Found: true}, nil
	})
}

// MatchesByDate 查指定日期的所有比赛
func (s *QueryService) MatchesByDate(ctx context.Context, date time.Time) ([]*model.Match, error) {
	key := cache.Key(kindMatchesByDate, date.Format("2006-01-02"))
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]*model.Match, error) {
		return s.repo.FindMatchesByDate(ctx, date)
	})
}

// ScoresByDate 指定日期各场比赛的局得分序列（matchID -> 各局总得分）。
// 比赛存在但各局均被丢弃时，映射值为空序列
func (s *QueryService) ScoresByDate(ctx context.Context, date time.Time) (map[uint64][]int, error) {
	key := cache.Key(kindScoresByDate, date.Format("2006-01-02"))
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (map[uint64][]int, error) {
		matches, err := s.MatchesByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		scoresMap := make(map[uint64][]int, len(matches))
		for _, m := range matches {
			scores, err := s.repo.FindScoresByMatchID(ctx, m.ID)
			if err != nil {
				return nil, err
			}
			scoresMap[m.ID] = scores
		}
		return scoresMap, nil
	})
}

// TopBatsmen 按累计得分降序分页返回球员（同分按id升序）
func (s *QueryService) TopBatsmen(ctx context.Context, page, size int) (*BatsmenPage, error) {
	key := cache.Key(kindTopBatsmen, page, size)
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (*BatsmenPage, error) {
		players, total, err := s.repo.FindTopBatsmen(ctx, page, size)
		if err != nil {
			return nil, err
		}
		return &BatsmenPage{
			Page:  page,
			Size:  size,
			Total: total,
			Items: players,
		}, nil
	})
}

// ClearPlayerCache 单个球员的比赛列表缓存失效（次级原语，写路径用的是全量失效）
func (s *QueryService) ClearPlayerCache(playerName string) {
	s.cache.EvictKey(cache.Key(kindMatchesByPlayer, playerName))
}
