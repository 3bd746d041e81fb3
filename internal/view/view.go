// Package view 内嵌页面模板。
package view

import (
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/util"
	"dsa_tutor_web/pkg/analytics"
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	// 单选框是否选中
	"selected": func(answers model.QuizAnswers, index int, option string) bool {
		return answers[index] == option
	},
	"answerField": func(index int) string {
		return util.AnswerFieldPrefix + strconv.Itoa(index)
	},
	// 后端未给出难度时按正确率推算
	"tier": analytics.DifficultyTier,
}

// Templates 解析全部页面模板，模板名为文件名
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
