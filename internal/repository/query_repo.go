package repository

import (
	"context"
	"errors"
	"time"

	"CricketSync/internal/model"

	"gorm.io/gorm"
)

// QueryRepository 聚合查询仓储接口，全部为只读操作
type QueryRepository interface {
	// FindMatchesByPlayerName 经参赛关联表查球员打过的所有比赛（按存储顺序返回）
	FindMatchesByPlayerName(ctx context.Context, playerName string) ([]*model.Match, error)
	// FindPlayerByName 按姓名精确查球员，不存在时返回 (nil, nil)
	FindPlayerByName(ctx context.Context, playerName string) (*model.Player, error)
	// FindMatchesByDate 查指定日期的所有比赛
	FindMatchesByDate(ctx context.Context, date time.Time) ([]*model.Match, error)
	// FindScoresByMatchID 查某场比赛各局的总得分序列
	FindScoresByMatchID(ctx context.Context, matchID uint64) ([]int, error)
	// FindTopBatsmen 按总得分降序分页查球员，并返回总数。
	// 平分时按id升序稳定排列
	FindTopBatsmen(ctx context.Context, page, size int) ([]*model.Player, int64, error)
}

type queryRepository struct {
	db *gorm.DB
}

// NewQueryRepository 创建 QueryRepository 实例
func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

// FindMatchesByPlayerName 经参赛关联表查球员打过的所有比赛
func (r *queryRepository) FindMatchesByPlayerName(ctx context.Context, playerName string) ([]*model.Match, error) {
	var matches []*model.Match
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Joins("JOIN match_players ON match_players.match_id = matches.id").
		Joins("JOIN players ON players.id = match_players.player_id").
		Where("players.name = ?", playerName).
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// FindPlayerByName 按姓名精确查球员
func (r *queryRepository) FindPlayerByName(ctx context.Context, playerName string) (*model.Player, error) {
	var player model.Player
	if err := r.db.WithContext(ctx).
		Where("name = ?", playerName).
		First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未找到不是错误
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

// FindMatchesByDate 查指定日期的所有比赛
func (r *queryRepository) FindMatchesByDate(ctx context.Context, date time.Time) ([]*model.Match, error) {
	var matches []*model.Match
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("date = ?", date).
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// FindScoresByMatchID 查某场比赛各局的总得分序列
func (r *queryRepository) FindScoresByMatchID(ctx context.Context, matchID uint64) ([]int, error) {
	scores := make([]int, 0)
	if err := r.db.WithContext(ctx).Model(&model.Inning{}).
		Where("match_id = ?", matchID).
		Order("id ASC").
		Pluck("total_runs", &scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// FindTopBatsmen 按总得分降序分页查球员
func (r *queryRepository) FindTopBatsmen(ctx context.Context, page, size int) ([]*model.Player, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}

	db := r.db.WithContext(ctx).Model(&model.Player{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var players []*model.Player
	if err := db.
		Order("total_score DESC, id ASC").
		Offset(page * size).
		Limit(size).
		Find(&players).Error; err != nil {
		return nil, 0, err
	}

	return players, total, nil
}
