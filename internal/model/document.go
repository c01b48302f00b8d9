package model

import (
	"encoding/json"
)

// MatchDocument 原始比赛文档的中间树。info/innings缺失按空处理，不视为错误
type MatchDocument struct {
	Info    MatchInfo   `json:"info"`
	Innings []InningDoc `json:"innings"`
}

// MatchInfo 文档info段的标量字段与队伍名单
type MatchInfo struct {
	Event struct {
		Name string `json:"name"`
	} `json:"event"`
	MatchType    string              `json:"match_type"`
	City         string              `json:"city"`
	Dates        []string            `json:"dates"`   // 取第一个元素作为比赛日期
	Venue        string              `json:"venue"`
	Created      string              `json:"created"`
	BallsPerOver int                 `json:"balls_per_over"`
	Season       string              `json:"season"`
	Teams        []string            `json:"teams"`
	Players      map[string][]string `json:"players"` // 队伍名 -> 球员名单
}

// InningDoc 文档中的一局
type InningDoc struct {
	Team        string         `json:"team"`
	TotalRuns   int            `json:"total_runs"`
	TotalOvers  int            `json:"total_overs"`
	IsCompleted bool           `json:"is_completed"`
	Overs       []OverDoc      `json:"overs"`
	Powerplays  []PowerplayDoc `json:"powerplays"`
	Target      *TargetDoc     `json:"target"`
}

// OverDoc 文档中的一个over
type OverDoc struct {
	Over       int           `json:"over"`
	Deliveries []DeliveryDoc `json:"deliveries"`
}

// DeliveryDoc 文档中的每球记录。extras保留原始字节，畸形时降级为{}而不使整份文档失败
type DeliveryDoc struct {
	Batter     string          `json:"batter"`
	Bowler     string          `json:"bowler"`
	NonStriker string          `json:"non_striker"`
	Runs       RunsDoc         `json:"runs"`
	Extras     json.RawMessage `json:"extras"`
}

// RunsDoc 每球得分明细，缺失的数值字段默认为0
type RunsDoc struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

// PowerplayDoc 文档中声明的powerplay区间
type PowerplayDoc struct {
	StartOver int `json:"start_over"`
	EndOver   int `json:"end_over"`
}

// TargetDoc 文档中声明的追分目标
type TargetDoc struct {
	Runs  int `json:"runs"`
	Overs int `json:"overs"`
}
