package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CricketSync/internal/cache"
	"CricketSync/internal/model"
	"CricketSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	// created字段无时区后缀的兜底格式
	createdFallbackLayout = "2006-01-02T15:04:05"
)

var emptyExtras = datatypes.JSON([]byte("{}"))

// MatchService 文档摄取服务：解析比赛文档、构建实体图、整体入库并触发缓存失效
type MatchService struct {
	repo   repository.MatchRepository
	cache  *cache.Service
	logger *logrus.Logger
}

// NewMatchService 创建 MatchService
func NewMatchService(db *gorm.DB, cacheSvc *cache.Service, logger *logrus.Logger) *MatchService {
	return &MatchService{
		repo:   repository.NewMatchRepository(db),
		cache:  cacheSvc,
		logger: logger,
	}
}

// SaveMatchData 处理一份比赛文档：空内容或顶层解析失败直接拒绝（写前），
// 成功提交后无条件清空全部查询缓存
func (s *MatchService) SaveMatchData(ctx context.Context, content []byte) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return fmt.Errorf("比赛文档不能为空")
	}

	var doc model.MatchDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("解析比赛文档失败: %w", err)
	}

	g, err := s.buildGraph(&doc)
	if err != nil {
		return err
	}

	if err := s.repo.SaveMatchGraph(ctx, g); err != nil {
		return fmt.Errorf("比赛数据入库失败: %w", err)
	}

	// 写提交视为可能影响所有聚合结果，全量失效
	s.cache.EvictAll()
	s.logger.Infof("比赛文档摄取完成: %s，共%d局", g.Match.EventName, len(g.Innings))
	return nil
}

// buildGraph 遍历中间树构建完整实体图。
// 可恢复的字段错误（日期、extras、队伍名解析）就地兜底继续；
// 每球记录缺少结构性父节点为致命错误，整份文档作废
func (s *MatchService) buildGraph(doc *model.MatchDocument) (*model.MatchGraph, error) {
	info := doc.Info

	// 1. Match标量字段
	match := &model.Match{
		MatchUUID:    uuid.NewString(),
		EventName:    info.Event.Name,
		MatchType:    info.MatchType,
		City:         info.City,
		Date:         s.parseDate(info.Dates),
		Venue:        info.Venue,
		Created:      s.parseCreated(info.Created),
		BallsPerOver: info.BallsPerOver,
		Season:       info.Season,
	}

	// 2. 队伍与名单（文档内按名建行，不做跨文档合并）
	teams := make([]*model.TeamNode, 0, len(info.Teams))
	for _, teamName := range info.Teams {
		tn := &model.TeamNode{Team: &model.Team{Name: teamName}}
		for _, playerName := range info.Players[teamName] {
			tn.Players = append(tn.Players, &model.Player{Name: playerName})
		}
		teams = append(teams, tn)
	}

	// 3. 各局：队伍名在本文档队伍中精确解析，0个或多个匹配都丢弃整棵子树
	innings := make([]*model.InningNode, 0, len(doc.Innings))
	for i := range doc.Innings {
		inningDoc := &doc.Innings[i]
		team := s.resolveTeam(teams, inningDoc.Team)
		if team == nil {
			s.logger.Warnf("局未入库：队伍引用缺失，team=%s", inningDoc.Team)
			continue
		}

		node := &model.InningNode{
			Inning: &model.Inning{
				TotalRuns:   inningDoc.TotalRuns,
				TotalOvers:  inningDoc.TotalOvers,
				IsCompleted: inningDoc.IsCompleted,
			},
			Team: team,
		}

		for _, overDoc := range inningDoc.Overs {
			on := &model.OverNode{Over: &model.Over{OverNumber: overDoc.Over}}
			for _, dd := range overDoc.Deliveries {
				d, err := s.buildDelivery(match, node.Inning, on.Over, &dd)
				if err != nil {
					return nil, err
				}
				on.Deliveries = append(on.Deliveries, d)
			}
			node.Overs = append(node.Overs, on)
		}

		for _, pp := range inningDoc.Powerplays {
			node.Powerplays = append(node.Powerplays, &model.Powerplay{
				StartOver: pp.StartOver,
				EndOver:   pp.EndOver,
			})
		}

		if inningDoc.Target != nil {
			node.Target = &model.Target{
				Runs:  inningDoc.Target.Runs,
				Overs: inningDoc.Target.Overs,
			}
		}

		innings = append(innings, node)
	}

	return &model.MatchGraph{Match: match, Teams: teams, Innings: innings}, nil
}

// buildDelivery 构建每球记录。Match/Inning/Over三个父节点缺一不可
func (s *MatchService) buildDelivery(match *model.Match, inning *model.Inning, over *model.Over, dd *model.DeliveryDoc) (*model.Delivery, error) {
	if match == nil {
		return nil, fmt.Errorf("每球记录缺少Match父节点")
	}
	if inning == nil {
		return nil, fmt.Errorf("每球记录缺少Inning父节点")
	}
	if over == nil {
		return nil, fmt.Errorf("每球记录缺少Over父节点")
	}

	return &model.Delivery{
		Batter:     dd.Batter,
		Bowler:     dd.Bowler,
		NonStriker: dd.NonStriker,
		RunsBatter: dd.Runs.Batter,
		RunsExtras: dd.Runs.Extras,
		TotalRuns:  dd.Runs.Total,
		Extras:     s.buildExtras(dd.Extras),
	}, nil
}

// resolveTeam 在本文档队伍里按名精确匹配。
// 恰好一个匹配才算成功，多个同名不猜测
func (s *MatchService) resolveTeam(teams []*model.TeamNode, name string) *model.Team {
	var found *model.Team
	count := 0
	for _, tn := range teams {
		if tn.Team.Name == name {
			found = tn.Team
			count++
		}
	}
	switch {
	case count == 1:
		return found
	case count > 1:
		s.logger.Warnf("同名队伍有%d支，无法确定: %s", count, name)
		return nil
	default:
		s.logger.Warnf("未找到队伍: %s", name)
		return nil
	}
}

// buildExtras 序列化extras的字段->次数表。
// 缺失、为空或校验不过时一律存{}，不让一个坏extras拖垮整份文档
func (s *MatchService) buildExtras(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return emptyExtras
	}

	var fields map[string]int
	if err := json.Unmarshal(raw, &fields); err != nil {
		s.logger.Warnf("extras结构无效，按空处理: %v", err)
		return emptyExtras
	}
	if len(fields) == 0 {
		return emptyExtras
	}

	data, err := json.Marshal(fields)
	if err != nil || !json.Valid(data) {
		s.logger.Warnf("extras序列化失败，按空处理: %v", err)
		return emptyExtras
	}
	return datatypes.JSON(data)
}

// parseDate 取dates第一个元素解析为日期，失败记日志置空
func (s *MatchService) parseDate(dates []string) *time.Time {
	if len(dates) == 0 || dates[0] == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, dates[0])
	if err != nil {
		s.logger.Warnf("比赛日期解析失败: %v", err)
		return nil
	}
	return &t
}

// parseCreated 解析created时间戳，失败记日志置空
func (s *MatchService) parseCreated(created string) *time.Time {
	if created == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		t, err = time.Parse(createdFallbackLayout, created)
	}
	if err != nil {
		s.logger.Warnf("created时间解析失败: %v", err)
		return nil
	}
	return &t
}
