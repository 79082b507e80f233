package layout

// DebugOptions 控制调试快照的内容。
type DebugOptions struct {
	ResolvedStyles bool // 在快照中附带每个节点解析后的完整样式
}
