package service

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/pkg/analytics"
	"dsa_tutor_web/pkg/logger"
	"sync/atomic"

	"go.uber.org/zap"
)

const MsgAnalyticsFailed = "Failed to fetch analytics."

type AnalyticsService struct {
	API           TutorAPI
	chronological atomic.Bool
}

func NewAnalyticsService(api TutorAPI, chronological bool) *AnalyticsService {
	s := &AnalyticsService{API: api}
	s.chronological.Store(chronological)
	return s
}

// SetChronological 正确率折线是否按时间排序
func (s *AnalyticsService) SetChronological(v bool) {
	s.chronological.Store(v)
}

// GetCharts 拉取答题历史并计算图表数据；失败时返回空图表
func (s *AnalyticsService) GetCharts(ctx context.Context, userID string) (model.AnalyticsCharts, error) {
	history, err := s.API.QuizHistory(ctx, userID)
	if err != nil {
		logger.Log.Error("Failed to fetch history for analytics", zap.String("user_id", userID), zap.Error(err))
		history = nil
	}

	charts := analytics.Aggregate(history, analytics.Options{Chronological: s.chronological.Load()})
	return charts, err
}
