package model

// AccuracyPoint 正确率折线图中的一个点
type AccuracyPoint struct {
	Timestamp string `json:"timestamp"`
	Label     string `json:"label"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Accuracy  int    `json:"accuracy"` // 0-100
}

// TopicCount 主题分布
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// CorrectnessSplit 正确/错误数量
type CorrectnessSplit struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// DifficultyCount 某难度档位下的主题数
type DifficultyCount struct {
	Tier   int `json:"tier"`
	Topics int `json:"topics"`
}

// AnalyticsCharts 分析页所需的全部图表数据
type AnalyticsCharts struct {
	AccuracyOverTime       []AccuracyPoint   `json:"accuracyOverTime"`
	TopicDistribution      []TopicCount      `json:"topicDistribution"`
	Correctness            CorrectnessSplit  `json:"correctness"`
	DifficultyDistribution []DifficultyCount `json:"difficultyDistribution"`
}
