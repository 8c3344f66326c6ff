package types

import (
	"errors"
	"fmt"
	"strings"
)

// Language — язык объяснения
type Language string

const (
	LangArabic  Language = "ar"
	LangEnglish Language = "en"
)

func (l Language) Valid() bool { return l == LangArabic || l == LangEnglish }

// Toggle flips between the two supported languages.
func (l Language) Toggle() Language {
	if l == LangArabic {
		return LangEnglish
	}
	return LangArabic
}

// ParseLanguage accepts "ar"/"en" in any case; anything else is an error.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown language %q; use 'ar' or 'en'", s)
	}
	return l, nil
}

// Color — семантический цвет строки на доске: данные, вычисления, результат.
type Color string

const (
	ColorBlue  Color = "blue"
	ColorBlack Color = "black"
	ColorGreen Color = "green"
)

var Colors = []Color{ColorBlue, ColorBlack, ColorGreen}

func (c Color) Valid() bool {
	for _, v := range Colors {
		if c == v {
			return true
		}
	}
	return false
}

type WhiteboardStep struct {
	Content string `json:"content"`
	Color   Color  `json:"color"`
}

// Solution is the structured explanation returned by the solving service.
type Solution struct {
	Understanding   string           `json:"understanding"`
	TextSteps       []string         `json:"textSteps"`
	AudioScript     string           `json:"audioScript"`
	WhiteboardSteps []WhiteboardStep `json:"whiteboardSteps"`
	FinalResult     string           `json:"finalResult"`
}

var (
	ErrNoResponse = errors.New("no response from the teacher")
	ErrBadJSON    = errors.New("response is not valid JSON")
)

// SchemaError — ответ разобран, но не соответствует схеме.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "solution schema: " + e.Reason
	}
	return fmt.Sprintf("solution schema: %s: %s", e.Field, e.Reason)
}

// Validate checks a Solution built outside ParseSolution. Empty arrays are allowed;
// the whiteboard colors must come from the enum.
func (s Solution) Validate() error {
	if s.TextSteps == nil {
		return &SchemaError{Field: "textSteps", Reason: "required"}
	}
	if s.WhiteboardSteps == nil {
		return &SchemaError{Field: "whiteboardSteps", Reason: "required"}
	}
	for i, st := range s.WhiteboardSteps {
		if !st.Color.Valid() {
			return &SchemaError{
				Field:  fmt.Sprintf("whiteboardSteps[%d].color", i),
				Reason: fmt.Sprintf("%q is not one of blue|black|green", st.Color),
			}
		}
	}
	return nil
}

// SplitFinalResult splits "answer. encouragement" on the first period.
func SplitFinalResult(s string) (headline, badge string) {
	head, rest, found := strings.Cut(s, ".")
	if !found {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(head), strings.TrimSpace(rest)
}
