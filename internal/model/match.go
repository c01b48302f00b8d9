package model

import (
	"time"
)

// Match 一场比赛，对应一次完整的文档导入
type Match struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchUUID    string     `gorm:"column:match_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	EventName    string     `gorm:"column:event_name;type:varchar(256);comment:赛事名称"`
	MatchType    string     `gorm:"column:match_type;type:varchar(32);comment:比赛类型：T20/ODI/Test"`
	City         string     `gorm:"column:city;type:varchar(64);comment:举办城市"`
	Date         *time.Time `gorm:"column:date;type:date;comment:比赛日期（可空，解析失败时置空）"`
	Venue        string     `gorm:"column:venue;type:varchar(256);comment:比赛场地"`
	Created      *time.Time `gorm:"column:created;type:timestamp;comment:文档创建时间（可空）"`
	BallsPerOver int        `gorm:"column:balls_per_over;type:int;comment:每over球数"`
	Season       string     `gorm:"column:season;type:varchar(32);comment:赛季"`
}

// Team 队伍，仅在单个文档范围内去重（同名队伍跨文档各自建行）
type Team struct {
	ID   uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name string `gorm:"column:name;type:varchar(128);index;not null;comment:队伍名称"`
}

// Player 球员，每次出现在文档中都新建一行（无跨文档合并）
type Player struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name       string `gorm:"column:name;type:varchar(128);index;not null;comment:球员姓名"`
	TotalScore int    `gorm:"column:total_score;type:int;default:0;comment:累计得分（由外部维护）"`
}

// MatchPlayer 比赛-球员关联，遍历队伍名单时逐对建行
type MatchPlayer struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID  uint64 `gorm:"column:match_id;type:bigint;index;not null;comment:关联比赛ID"`
	PlayerID uint64 `gorm:"column:player_id;type:bigint;index;not null;comment:关联球员ID"`
}

// MatchTeam 比赛-队伍关联，每支参赛队伍一行
type MatchTeam struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID uint64 `gorm:"column:match_id;type:bigint;index;not null;comment:关联比赛ID"`
	TeamID  uint64 `gorm:"column:team_id;type:bigint;index;not null;comment:关联队伍ID"`
}

func (Match) TableName() string       { return "matches" }
func (Team) TableName() string        { return "teams" }
func (Player) TableName() string      { return "players" }
func (MatchPlayer) TableName() string { return "match_players" }
func (MatchTeam) TableName() string   { return "match_teams" }
