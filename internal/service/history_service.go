package service

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/pkg/analytics"
	"dsa_tutor_web/pkg/logger"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	MsgHistoryFailed = "Failed to fetch quiz history."

	historySheet = "History"
)

var historyHeaders = []string{"Topic", "Question", "User Answer", "Correct Answer", "Correct?", "Time Spent (s)", "Date"}

// HistoryRow 历史记录表格中的一行
type HistoryRow struct {
	Topic         string
	Question      string
	UserAnswer    string
	CorrectAnswer string
	Correct       bool
	CorrectMark   string
	TimeSpent     string
	Date          string
}

type HistoryService struct {
	API TutorAPI
}

func NewHistoryService(api TutorAPI) *HistoryService {
	return &HistoryService{API: api}
}

// Rows 拉取答题历史并格式化
func (s *HistoryService) Rows(ctx context.Context, userID string) ([]HistoryRow, error) {
	history, err := s.API.QuizHistory(ctx, userID)
	if err != nil {
		logger.Log.Error("Failed to fetch quiz history", zap.String("user_id", userID), zap.Error(err))
		return []HistoryRow{}, err
	}

	rows := make([]HistoryRow, 0, len(history))
	for _, h := range history {
		rows = append(rows, newHistoryRow(h))
	}
	return rows, nil
}

func newHistoryRow(h model.QuizAttempt) HistoryRow {
	mark := "❌"
	if h.IsCorrect {
		mark = "✅"
	}
	return HistoryRow{
		Topic:         h.Topic,
		Question:      h.Question,
		UserAnswer:    h.UserAnswer,
		CorrectAnswer: h.CorrectAnswer,
		Correct:       bool(h.IsCorrect),
		CorrectMark:   mark,
		TimeSpent:     strconv.FormatFloat(h.TimeSpentSeconds, 'f', -1, 64),
		Date:          analytics.DateTimeLabel(h.Timestamp),
	}
}

// Export 将答题历史导出为 xlsx
func (s *HistoryService) Export(ctx context.Context, userID string) ([]byte, error) {
	rows, err := s.Rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return WriteHistoryWorkbook(rows)
}

func WriteHistoryWorkbook(rows []HistoryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, err
	}

	for col, header := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(historySheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		correct := "No"
		if row.Correct {
			correct = "Yes"
		}
		values := []interface{}{row.Topic, row.Question, row.UserAnswer, row.CorrectAnswer, correct, row.TimeSpent, row.Date}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(historySheet, cell, value); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
