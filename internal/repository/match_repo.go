package repository

import (
	"context"
	"fmt"

	"CricketSync/internal/model"

	"gorm.io/gorm"
)

// MatchRepository 比赛实体图入库仓储
type MatchRepository interface {
	// SaveMatchGraph 将一份文档构建出的实体图作为单个事务整体写入，
	// 任一结构性约束被破坏时整体回滚
	SaveMatchGraph(ctx context.Context, g *model.MatchGraph) error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository 创建 MatchRepository 实例
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

// SaveMatchGraph 通用入库逻辑：按依赖顺序创建各实体并回填外键ID
func (r *matchRepository) SaveMatchGraph(ctx context.Context, g *model.MatchGraph) error {
	if g == nil || g.Match == nil {
		return fmt.Errorf("实体图缺少Match节点")
	}

	// 开启事务
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	// 1. 保存Match
	if err := tx.Create(g.Match).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存Match失败: %w, event: %s", err, g.Match.EventName)
	}

	// 2. 保存队伍、球员及两类关联行
	for _, tn := range g.Teams {
		if err := tx.Create(tn.Team).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("保存Team失败: %w, name: %s", err, tn.Team.Name)
		}
		if err := tx.Create(&model.MatchTeam{MatchID: g.Match.ID, TeamID: tn.Team.ID}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("保存MatchTeam失败: %w", err)
		}
		for _, p := range tn.Players {
			if err := tx.Create(p).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("保存Player失败: %w, name: %s", err, p.Name)
			}
			if err := tx.Create(&model.MatchPlayer{MatchID: g.Match.ID, PlayerID: p.ID}).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("保存MatchPlayer失败: %w", err)
			}
		}
	}

	// 3. 保存各局子树
	for _, in := range g.Innings {
		// 队伍未解析的局不允许进入入库阶段（构建阶段应已丢弃）
		if in.Team == nil || in.Team.ID == 0 {
			tx.Rollback()
			return fmt.Errorf("局的队伍引用缺失，拒绝入库")
		}
		in.Inning.MatchID = g.Match.ID
		in.Inning.TeamID = in.Team.ID
		if err := tx.Create(in.Inning).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("保存Inning失败: %w", err)
		}

		for _, on := range in.Overs {
			on.Over.InningID = in.Inning.ID
			if err := tx.Create(on.Over).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("保存Over失败: %w", err)
			}

			for _, d := range on.Deliveries {
				d.MatchID = g.Match.ID
				d.InningID = in.Inning.ID
				d.OverID = on.Over.ID
				// 三个结构性外链缺一不可，缺失即整份文档作废
				if d.MatchID == 0 || d.InningID == 0 || d.OverID == 0 {
					tx.Rollback()
					return fmt.Errorf("每球记录缺少Match/Inning/Over外链，整份文档回滚")
				}
				if err := tx.Create(d).Error; err != nil {
					tx.Rollback()
					return fmt.Errorf("保存Delivery失败: %w", err)
				}
			}
		}

		for _, pp := range in.Powerplays {
			pp.InningID = in.Inning.ID
			if err := tx.Create(pp).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("保存Powerplay失败: %w", err)
			}
		}

		if in.Target != nil {
			in.Target.InningID = in.Inning.ID
			if err := tx.Create(in.Target).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("保存Target失败: %w", err)
			}
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}
