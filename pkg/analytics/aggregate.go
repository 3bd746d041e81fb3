// Package analytics 把答题记录转换成分析页的图表数据。
package analytics

import (
	"math"
	"sort"
	"time"

	"dsa_tutor_web/internal/model"
)

// DifficultyTiers 难度档位，从低到高
var DifficultyTiers = []int{2, 3, 4, 5}

// Options 聚合选项
type Options struct {
	// Chronological 为 true 时正确率折线按时间排序，否则按时间戳首次出现的顺序
	Chronological bool
}

// Aggregate 计算全部四种图表数据
func Aggregate(attempts []model.QuizAttempt, opts Options) model.AnalyticsCharts {
	points := AccuracyOverTime(attempts)
	if opts.Chronological {
		SortChronologically(points)
	}

	return model.AnalyticsCharts{
		AccuracyOverTime:       points,
		TopicDistribution:      TopicDistribution(attempts),
		Correctness:            Correctness(attempts),
		DifficultyDistribution: DifficultyDistribution(attempts),
	}
}

type tally struct {
	correct int
	total   int
}

func (t *tally) add(a model.QuizAttempt) {
	t.total++
	if a.IsCorrect {
		t.correct++
	}
}

// AccuracyOverTime 按完全相同的 timestamp 分组，每组一个点
func AccuracyOverTime(attempts []model.QuizAttempt) []model.AccuracyPoint {
	order := make([]string, 0)
	buckets := make(map[string]*tally)

	for _, a := range attempts {
		b, ok := buckets[a.Timestamp]
		if !ok {
			b = &tally{}
			buckets[a.Timestamp] = b
			order = append(order, a.Timestamp)
		}
		b.add(a)
	}

	points := make([]model.AccuracyPoint, 0, len(order))
	for _, ts := range order {
		b := buckets[ts]
		points = append(points, model.AccuracyPoint{
			Timestamp: ts,
			Label:     DateLabel(ts),
			Correct:   b.correct,
			Total:     b.total,
			Accuracy:  Percent(b.correct, b.total),
		})
	}
	return points
}

// SortChronologically 按解析后的时间稳定排序，无法解析的排在最后
func SortChronologically(points []model.AccuracyPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		ti, okI := ParseTimestamp(points[i].Timestamp)
		tj, okJ := ParseTimestamp(points[j].Timestamp)
		if okI != okJ {
			return okI
		}
		return okI && ti.Before(tj)
	})
}

// TopicDistribution 每个主题的答题数，按首次出现顺序
func TopicDistribution(attempts []model.QuizAttempt) []model.TopicCount {
	counts := make([]model.TopicCount, 0)
	index := make(map[string]int)

	for _, a := range attempts {
		i, ok := index[a.Topic]
		if !ok {
			i = len(counts)
			index[a.Topic] = i
			counts = append(counts, model.TopicCount{Topic: a.Topic})
		}
		counts[i].Count++
	}
	return counts
}

// Correctness 统计全部记录中的正确与错误数
func Correctness(attempts []model.QuizAttempt) model.CorrectnessSplit {
	var split model.CorrectnessSplit
	for _, a := range attempts {
		if a.IsCorrect {
			split.Correct++
		} else {
			split.Incorrect++
		}
	}
	return split
}

// DifficultyDistribution 按主题正确率给每个主题定档，统计各档位的主题数
func DifficultyDistribution(attempts []model.QuizAttempt) []model.DifficultyCount {
	order := make([]string, 0)
	topics := make(map[string]*tally)
	for _, a := range attempts {
		t, ok := topics[a.Topic]
		if !ok {
			t = &tally{}
			topics[a.Topic] = t
			order = append(order, a.Topic)
		}
		t.add(a)
	}

	perTier := make(map[int]int, len(DifficultyTiers))
	for _, topic := range order {
		t := topics[topic]
		accuracy := 100 * float64(t.correct) / float64(t.total)
		perTier[DifficultyTier(accuracy)]++
	}

	out := make([]model.DifficultyCount, 0, len(DifficultyTiers))
	for _, tier := range DifficultyTiers {
		out = append(out, model.DifficultyCount{Tier: tier, Topics: perTier[tier]})
	}
	return out
}

// DifficultyTier 正确率(0-100) -> 难度档位 2-5
func DifficultyTier(accuracy float64) int {
	switch {
	case accuracy >= 90:
		return 5
	case accuracy >= 80:
		return 4
	case accuracy >= 70:
		return 3
	default:
		return 2
	}
}

// Percent 四舍五入（.5 向上）后的百分比，total 为 0 时返回 0
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(100*float64(part)/float64(total) + 0.5))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp 解析 ISO-8601 或 SQLite 默认格式的时间戳
func ParseTimestamp(ts string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return t.In(time.Local), true
		}
	}
	return time.Time{}, false
}

// DateLabel 本地化日期（M/D/YYYY）
func DateLabel(ts string) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return "Invalid Date"
	}
	return t.Format("1/2/2006")
}

// DateTimeLabel 本地化日期时间（M/D/YYYY, h:mm:ss AM）
func DateTimeLabel(ts string) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return "Invalid Date"
	}
	return t.Format("1/2/2006, 3:04:05 PM")
}
