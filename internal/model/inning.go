package model

import (
	"gorm.io/datatypes"
)

// Inning 局，仅在队伍名精确解析成功时入库；解析失败整棵子树丢弃
type Inning struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID     uint64 `gorm:"column:match_id;type:bigint;index;not null;comment:关联比赛ID"`
	TeamID      uint64 `gorm:"column:team_id;type:bigint;index;not null;comment:击球队伍ID"`
	TotalRuns   int    `gorm:"column:total_runs;type:int;comment:总得分"`
	TotalOvers  int    `gorm:"column:total_overs;type:int;comment:总over数"`
	IsCompleted bool   `gorm:"column:is_completed;type:boolean;default:false;comment:是否完赛"`
}

// Over 一个over，必须先于其下的每球记录创建
type Over struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	InningID   uint64 `gorm:"column:inning_id;type:bigint;index;not null;comment:关联局ID"`
	OverNumber int    `gorm:"column:over_number;type:int;comment:over序号"`
}

// Delivery 每球记录，match/inning/over三个外链缺一不可（缺失则整份文档回滚）
type Delivery struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID    uint64         `gorm:"column:match_id;type:bigint;index;not null;comment:关联比赛ID"`
	InningID   uint64         `gorm:"column:inning_id;type:bigint;index;not null;comment:关联局ID"`
	OverID     uint64         `gorm:"column:over_id;type:bigint;index;not null;comment:关联overID"`
	Batter     string         `gorm:"column:batter;type:varchar(128);comment:击球手"`
	Bowler     string         `gorm:"column:bowler;type:varchar(128);comment:投球手"`
	NonStriker string         `gorm:"column:non_striker;type:varchar(128);comment:非击球端球员"`
	RunsBatter int            `gorm:"column:runs_batter;type:int;comment:击球得分"`
	RunsExtras int            `gorm:"column:runs_extras;type:int;comment:附加分"`
	TotalRuns  int            `gorm:"column:total_runs;type:int;comment:本球总得分"`
	Extras     datatypes.JSON `gorm:"column:extras;comment:附加分构成（wides/legbyes等），无效时存{}"`
}

// Powerplay 强制进攻时段，每个声明的区间一行
type Powerplay struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	InningID  uint64 `gorm:"column:inning_id;type:bigint;index;not null;comment:关联局ID"`
	StartOver int    `gorm:"column:start_over;type:int;comment:起始over"`
	EndOver   int    `gorm:"column:end_over;type:int;comment:结束over"`
}

// Target 追分目标，每局至多一条，文档声明时才建
type Target struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	InningID uint64 `gorm:"column:inning_id;type:bigint;index;not null;comment:关联局ID"`
	Runs     int    `gorm:"column:runs;type:int;comment:目标得分"`
	Overs    int    `gorm:"column:overs;type:int;comment:目标over数"`
}

func (Inning) TableName() string    { return "innings" }
func (Over) TableName() string      { return "overs" }
func (Delivery) TableName() string  { return "deliveries" }
func (Powerplay) TableName() string { return "powerplays" }
func (Target) TableName() string    { return "targets" }
