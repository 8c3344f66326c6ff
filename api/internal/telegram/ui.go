package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-teacher/api/internal/lesson"
	"math-teacher/api/internal/solver/types"
)

const (
	cbBoardStart = "board_start"
	cbLangToggle = "lang_toggle"
)

var langButton = map[types.Language]string{
	types.LangArabic:  "🌐 English",
	types.LangEnglish: "🌐 العربية",
}

// Кнопки под решением: запуск доски и смена языка
func makeLessonKeyboard(lang types.Language, withBoard bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if withBoard {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lesson.Text(lang).WhiteboardStart, cbBoardStart),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(langButton[lang], cbLangToggle),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
