package lesson

import (
	"errors"

	"math-teacher/api/internal/solver/types"
)

// Messages are the user-facing strings of one language.
type Messages struct {
	Title    string
	Subtitle string

	StatusReady           string
	StatusThinking        string
	StatusExplainingText  string
	StatusExplainingBoard string

	ModeText    string
	ModeVoice   string
	ModeImage   string
	Placeholder string
	Solving     string

	UnderstandingHeader string
	StepsHeader         string
	WhiteboardHeader    string
	WhiteboardSub       string
	FinalHeader         string

	WhiteboardStart      string
	WhiteboardWriting    string
	WhiteboardExplaining string

	Welcome          string
	LangSwitched     string
	BoardUnavailable string
	PhotoAccepted    string

	VoiceStub      string
	MicUnavailable string
	VoiceFailed    string
	ErrorInput    string
	ErrorGeneral  string
	ErrorNoAnswer string
}

var messages = map[types.Language]Messages{
	types.LangArabic: {
		Title:    "الأستاذة: معلمة الرياضيات",
		Subtitle: "مساعدتكِ الذكية للمرحلة الإعدادية 🇪🇬",

		StatusReady:           "جاهزة للمساعدة",
		StatusThinking:        "تُفكر...",
		StatusExplainingText:  "تشرح الحل النصي...",
		StatusExplainingBoard: "تشرح البورد...",

		ModeText:    "⌨️ كتابة أو لصق المسألة",
		ModeVoice:   "🎙️ تحدثي بصوتكِ",
		ModeImage:   "📸 تصوير المسألة",
		Placeholder: "اكتبي المسألة هنا أو الصقي صورة..",
		Solving:     "جاري التفكير والحل..",

		UnderstandingHeader: "1️⃣ فهم المسألة",
		StepsHeader:         "2️⃣ خطوات الحل النصي",
		WhiteboardHeader:    "3️⃣ شرح الأستاذة على الوايتبورد",
		WhiteboardSub:       "اضغط على زر البدء في السبورة لمشاهدة الخطوات.. ستبدأ المعلمة الشرح فور اكتمال الكتابة",
		FinalHeader:         "4️⃣ النتيجة النهائية",

		WhiteboardStart:      "ابدأ شرح المعلمة على السبورة 👩‍🏫",
		WhiteboardWriting:    "المعلمة تكتب الآن...",
		WhiteboardExplaining: "المعلمة تشرح الحل الآن...",

		Welcome:          "ابعتي المسألة كتابة، أو صورة لها، أو رسالة صوتية.\nالأوامر: /board لشرح السبورة، /lang لتغيير اللغة.",
		LangSwitched:     "تم التحويل إلى العربية 🇪🇬",
		BoardUnavailable: "لا يوجد حل لعرضه على السبورة الآن.",
		PhotoAccepted:    "تم استلام الصورة. لو المسألة في أكثر من صورة ابعتيهم ورا بعض.",

		VoiceStub:     "تنبيه: التعرف على الصوت غير مفعّل، تم وضع نص تجريبي بدلاً من تسجيلك.",
		MicUnavailable: "الميكروفون غير متاح. اكتبي المسألة أو ارفعي صورة لها.",
		VoiceFailed:    "لم أستطع فهم التسجيل. حاولي مرة أخرى أو اكتبي المسألة.",
		ErrorInput:    "من فضلك اكتبي المسألة، أو الصقي صورة، أو التقطي صورة لها.",
		ErrorGeneral:  "حدث خطأ أثناء محاولة حل المسألة. حاولي مرة أخرى.",
		ErrorNoAnswer: "لم يتم استلام رد من المعلمة.",
	},
	types.LangEnglish: {
		Title:    "The Teacher: Math Assistant",
		Subtitle: "Your Smart Assistant for Middle School 🇪🇬",

		StatusReady:           "Ready to help",
		StatusThinking:        "Thinking...",
		StatusExplainingText:  "Explaining text solution...",
		StatusExplainingBoard: "Explaining on board...",

		ModeText:    "⌨️ Type or Paste Problem",
		ModeVoice:   "🎙️ Speak Your Voice",
		ModeImage:   "📸 Take a Photo",
		Placeholder: "Type the problem or paste an image..",
		Solving:     "Thinking and Solving..",

		UnderstandingHeader: "1️⃣ Understanding the Problem",
		StepsHeader:         "2️⃣ Text Solution Steps",
		WhiteboardHeader:    "3️⃣ Teacher's Explanation on Whiteboard",
		WhiteboardSub:       "Start the board to see the steps.. The teacher will explain once writing is complete",
		FinalHeader:         "4️⃣ Final Result",

		WhiteboardStart:      "Start Teacher's Explanation 👩‍🏫",
		WhiteboardWriting:    "Teacher is writing...",
		WhiteboardExplaining: "Teacher is explaining...",

		Welcome:          "Send the problem as text, a photo or a voice message.\nCommands: /board for the whiteboard, /lang to switch language.",
		LangSwitched:     "Switched to English 🇬🇧",
		BoardUnavailable: "There is no solution to show on the board right now.",
		PhotoAccepted:    "Photo received. If the problem spans several photos, send them one after another.",

		VoiceStub:     "Note: speech recognition is not enabled, a placeholder text was used instead of your recording.",
		MicUnavailable: "Microphone is not available. Type the problem or attach an image.",
		VoiceFailed:    "Could not understand the recording. Try again or type the problem.",
		ErrorInput:    "Please type the problem, paste an image, or take a photo.",
		ErrorGeneral:  "An error occurred while solving. Please try again.",
		ErrorNoAnswer: "No response from the teacher.",
	},
}

// Text returns the strings for lang, falling back to Arabic.
func Text(lang types.Language) Messages {
	if m, ok := messages[lang]; ok {
		return m
	}
	return messages[types.LangArabic]
}

// Label is the status badge text.
func (s Status) Label(lang types.Language) string {
	t := Text(lang)
	switch s {
	case StatusThinking:
		return t.StatusThinking
	case StatusExplainingText:
		return t.StatusExplainingText
	case StatusExplainingBoard:
		return t.StatusExplainingBoard
	default:
		return t.StatusReady
	}
}

// FailureMessage maps a solve error to what the student sees.
func FailureMessage(lang types.Language, err error) string {
	t := Text(lang)
	if errors.Is(err, types.ErrNoResponse) {
		return t.ErrorNoAnswer
	}
	return t.ErrorGeneral
}
