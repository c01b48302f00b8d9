package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"CricketSync/internal/cache"
	"CricketSync/internal/model"
	"CricketSync/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 一份包含完整子树的合法文档：两支队伍、一局、一over、两球、powerplay与target
const sampleDoc = `{
  "info": {
    "event": {"name": "Test Cup"},
    "match_type": "T20",
    "city": "Bangalore",
    "dates": ["2024-09-17"],
    "venue": "Chinnaswamy Stadium",
    "created": "2024-09-18T10:30:00",
    "balls_per_over": 6,
    "season": "2024",
    "teams": ["A", "B"],
    "players": {
      "A": ["X", "Y"],
      "B": ["Z"]
    }
  },
  "innings": [
    {
      "team": "A",
      "total_runs": 120,
      "total_overs": 20,
      "is_completed": true,
      "overs": [
        {
          "over": 0,
          "deliveries": [
            {
              "batter": "X", "bowler": "Z", "non_striker": "Y",
              "runs": {"batter": 4, "extras": 0, "total": 4},
              "extras": {}
            },
            {
              "batter": "X", "bowler": "Z", "non_striker": "Y",
              "runs": {"batter": 0, "extras": 1, "total": 1},
              "extras": {"wides": 1}
            }
          ]
        }
      ],
      "powerplays": [{"start_over": 0, "end_over": 5}],
      "target": {"runs": 150, "overs": 20}
    }
  ]
}`

func newCache() *cache.Service {
	return cache.New(cache.Config{
		TTL:                time.Minute,
		Capacity:           100,
		NumShards:          2,
		EvictionPercentage: 10,
	}, nil)
}

func newMatchService(t *testing.T) (*MatchService, *gorm.DB, *cache.Service) {
	t.Helper()
	db := testsupport.NewTestDB(t)
	c := newCache()
	return NewMatchService(db, c, testsupport.NewTestLogger()), db, c
}

func TestSaveMatchDataPersistsFullGraph(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveMatchData(ctx, []byte(sampleDoc)))

	var match model.Match
	require.NoError(t, db.First(&match).Error)
	assert.Equal(t, "Test Cup", match.EventName)
	assert.Equal(t, "T20", match.MatchType)
	assert.Equal(t, 6, match.BallsPerOver)
	assert.NotEmpty(t, match.MatchUUID)
	require.NotNil(t, match.Date)
	assert.Equal(t, "2024-09-17", match.Date.Format("2006-01-02"))
	require.NotNil(t, match.Created)

	var counts = map[string]int64{}
	for name, m := range map[string]any{
		"teams":         &model.Team{},
		"players":       &model.Player{},
		"match_teams":   &model.MatchTeam{},
		"match_players": &model.MatchPlayer{},
		"innings":       &model.Inning{},
		"overs":         &model.Over{},
		"deliveries":    &model.Delivery{},
		"powerplays":    &model.Powerplay{},
		"targets":       &model.Target{},
	} {
		var c int64
		db.Model(m).Count(&c)
		counts[name] = c
	}
	assert.Equal(t, int64(2), counts["teams"])
	assert.Equal(t, int64(3), counts["players"])
	assert.Equal(t, int64(2), counts["match_teams"])
	assert.Equal(t, int64(3), counts["match_players"])
	assert.Equal(t, int64(1), counts["innings"])
	assert.Equal(t, int64(1), counts["overs"])
	assert.Equal(t, int64(2), counts["deliveries"])
	assert.Equal(t, int64(1), counts["powerplays"])
	assert.Equal(t, int64(1), counts["targets"])

	// extras正确序列化
	var deliveries []model.Delivery
	require.NoError(t, db.Order("id ASC").Find(&deliveries).Error)
	assert.JSONEq(t, `{}`, string(deliveries[0].Extras))
	assert.JSONEq(t, `{"wides":1}`, string(deliveries[1].Extras))
}

func TestSaveMatchDataRejectsEmptyAndInvalidInput(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	require.Error(t, svc.SaveMatchData(ctx, nil))
	require.Error(t, svc.SaveMatchData(ctx, []byte("   ")))
	require.Error(t, svc.SaveMatchData(ctx, []byte("not json")))

	// 写前拒绝：不应有任何落库
	var count int64
	db.Model(&model.Match{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUnresolvableInningTeamIsDiscardedNotFatal(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))
	innings := doc["innings"].([]any)
	innings[0].(map[string]any)["team"] = "NoSuchTeam"
	content, err := json.Marshal(doc)
	require.NoError(t, err)

	// 整体摄取仍然成功
	require.NoError(t, svc.SaveMatchData(ctx, content))

	// Match层的持久化不受局丢弃影响
	var matchCount, inningCount, overCount, deliveryCount int64
	db.Model(&model.Match{}).Count(&matchCount)
	db.Model(&model.Inning{}).Count(&inningCount)
	db.Model(&model.Over{}).Count(&overCount)
	db.Model(&model.Delivery{}).Count(&deliveryCount)
	assert.Equal(t, int64(1), matchCount)
	assert.Equal(t, int64(0), inningCount, "队伍未解析的局整棵子树丢弃")
	assert.Equal(t, int64(0), overCount)
	assert.Equal(t, int64(0), deliveryCount)
}

func TestAmbiguousTeamNameIsDiscardedNotGuessed(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))
	info := doc["info"].(map[string]any)
	info["teams"] = []any{"A", "A"} // 同名队伍
	content, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, svc.SaveMatchData(ctx, content))

	var teamCount, inningCount int64
	db.Model(&model.Team{}).Count(&teamCount)
	db.Model(&model.Inning{}).Count(&inningCount)
	assert.Equal(t, int64(2), teamCount, "文档内同名队伍仍各自建行")
	assert.Equal(t, int64(0), inningCount, "多个匹配不猜测，局被丢弃")
}

func TestBadDateAndCreatedAreRecovered(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))
	info := doc["info"].(map[string]any)
	info["dates"] = []any{"17-09-2024"} // 格式错误
	info["created"] = "yesterday"
	content, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, svc.SaveMatchData(ctx, content))

	var match model.Match
	require.NoError(t, db.First(&match).Error)
	assert.Nil(t, match.Date, "坏日期置空而不是使整份文档失败")
	assert.Nil(t, match.Created)
}

func TestInvalidExtrasDegradesToEmpty(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))
	deliveries := doc["innings"].([]any)[0].(map[string]any)["overs"].([]any)[0].(map[string]any)["deliveries"].([]any)
	deliveries[1].(map[string]any)["extras"] = map[string]any{"wides": "lots"} // 值不是次数
	content, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, svc.SaveMatchData(ctx, content))

	var ds []model.Delivery
	require.NoError(t, db.Order("id ASC").Find(&ds).Error)
	require.Len(t, ds, 2)
	assert.JSONEq(t, `{}`, string(ds[1].Extras))
}

func TestMissingInfoAndInningsAreTreatedAsEmpty(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveMatchData(ctx, []byte(`{}`)))

	var matchCount int64
	db.Model(&model.Match{}).Count(&matchCount)
	assert.Equal(t, int64(1), matchCount, "缺失的段按空处理，仍然建出Match")
}

func TestReingestCreatesIndependentRows(t *testing.T) {
	svc, db, _ := newMatchService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveMatchData(ctx, []byte(sampleDoc)))
	require.NoError(t, svc.SaveMatchData(ctx, []byte(sampleDoc)))

	var matchCount, playerCount int64
	db.Model(&model.Match{}).Count(&matchCount)
	db.Model(&model.Player{}).Count(&playerCount)
	assert.Equal(t, int64(2), matchCount, "重复摄取不合并，各自建行")
	assert.Equal(t, int64(6), playerCount)
}

func TestIngestEvictsAllCaches(t *testing.T) {
	svc, _, c := newMatchService(t)
	ctx := context.Background()

	before := c.Stats().EvictAlls
	require.NoError(t, svc.SaveMatchData(ctx, []byte(sampleDoc)))
	assert.Equal(t, before+1, c.Stats().EvictAlls)
}

func TestBuildDeliveryRequiresAllStructuralParents(t *testing.T) {
	svc, _, _ := newMatchService(t)
	dd := &model.DeliveryDoc{Batter: "X"}

	match := &model.Match{}
	inning := &model.Inning{}
	over := &model.Over{}

	_, err := svc.buildDelivery(nil, inning, over, dd)
	require.Error(t, err)
	_, err = svc.buildDelivery(match, nil, over, dd)
	require.Error(t, err)
	_, err = svc.buildDelivery(match, inning, nil, dd)
	require.Error(t, err)

	d, err := svc.buildDelivery(match, inning, over, dd)
	require.NoError(t, err)
	assert.Equal(t, "X", d.Batter)
	assert.JSONEq(t, `{}`, string(d.Extras))
}
