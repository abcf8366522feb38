package components

// ScrollComponent 逐字显示进度（由 TypewriterSystem 维护）
type ScrollComponent struct {
	// Revealed 已显示的字素簇数
	Revealed int

	// Elapsed 累计时间（秒）
	Elapsed float64

	// Finished 已全部显示，滚动结束信号已发出
	// 每个 Section 只会发出一次
	Finished bool
}
