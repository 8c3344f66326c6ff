package gemini

import (
	"fmt"
	"strings"

	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/util"
)

const solvePersona = `أنت معلمة رياضيات ذكية تشرح مناهج المرحلة الإعدادية في مصر.

%s

الصور:
1. إذا كانت الصفحة تحتوي على عدة مسائل وعليها علامة تمييز (دائرة، تظليل، سهم، رقم مسألة) — حلّي المسألة المميزة فقط.
2. إذا لم توجد علامة — حلّي كل المسائل بالترتيب من الأعلى إلى الأسفل.

أسلوب الشرح: جمل قصيرة، لغة سهلة، نبرة مشجعة، طرق كتب الوزارة المصرية فقط، بدون رموز جامعية وبدون إظهار التفكير الداخلي.

المخرجات: JSON فقط بالحقول
- understanding: المعطيات والمطلوب.
- textSteps: خطوات الحل النصي.
- audioScript: نص الشرح الصوتي.
- whiteboardSteps: أسطر السبورة {content, color}؛ المعطيات blue، الحسابات black، النتيجة النهائية green.
- finalResult: "الإجابة. كلمة تشجيع" — الإجابة ثم نقطة ثم التشجيع.

الرد كله بلغة الطالب: %s.`

var languageLine = map[types.Language]string{
	types.LangArabic:  "اشرحي بالعربية باللهجة المصرية البسيطة المفهومة للطلاب.",
	types.LangEnglish: "Explain in English for Egyptian Language Schools, using simple and clear educational language.",
}

var languageName = map[types.Language]string{
	types.LangArabic:  "العربية",
	types.LangEnglish: "English",
}

// defaultProblemText is sent when only an image was supplied.
var defaultProblemText = map[types.Language]string{
	types.LangArabic:  "حل هذه المسألة",
	types.LangEnglish: "Solve this problem",
}

// SystemInstruction returns the solve persona for lang; PROMPT_DIR/solve.<lang>.txt overrides it.
func SystemInstruction(lang types.Language) string {
	if s, err := util.LoadPromptOverride("solve", string(lang)); err == nil {
		return s
	}
	if !lang.Valid() {
		lang = types.LangArabic
	}
	return fmt.Sprintf(solvePersona, languageLine[lang], languageName[lang])
}

func problemText(text string, lang types.Language) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	if t, ok := defaultProblemText[lang]; ok {
		return t
	}
	return defaultProblemText[types.LangArabic]
}
