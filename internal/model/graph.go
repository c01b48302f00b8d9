package model

// MatchGraph 一份文档构建出的完整实体图，作为单个事务整体入库。
// 节点仅持有正向引用（Inning -> Team、Over -> Delivery），反向查询走repository
type MatchGraph struct {
	Match   *Match
	Teams   []*TeamNode
	Innings []*InningNode
}

// TeamNode 队伍及其名单中的球员
type TeamNode struct {
	Team    *Team
	Players []*Player
}

// InningNode 已解析出队伍的局子树。Team为该局解析到的文档内队伍
type InningNode struct {
	Inning     *Inning
	Team       *Team
	Overs      []*OverNode
	Powerplays []*Powerplay
	Target     *Target
}

// OverNode over及其下的每球记录
type OverNode struct {
	Over       *Over
	Deliveries []*Delivery
}
