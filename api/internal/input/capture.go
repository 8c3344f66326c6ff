package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"math-teacher/api/internal/solver/types"
	"math-teacher/api/internal/util"
)

// Mode — активная вкладка ввода.
type Mode string

const (
	ModeText  Mode = "text"
	ModeVoice Mode = "voice"
	ModeImage Mode = "image"
)

var Modes = []Mode{ModeText, ModeVoice, ModeImage}

// Next cycles text → voice → image → text.
func (m Mode) Next() Mode {
	for i, v := range Modes {
		if v == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeText
}

const maxImageBytes = 20 << 20

var (
	ErrEmptyProblem = errors.New("problem text and image are both empty")
	ErrNotAnImage   = errors.New("file is not a supported image")
	ErrImageTooBig  = errors.New("image is larger than 20 MiB")
)

// Problem is what a submit hands to the solver.
type Problem struct {
	Text  string
	Image string // data URL, empty when none
	Lang  types.Language
}

func (p Problem) Empty() bool {
	return strings.TrimSpace(p.Text) == "" && strings.TrimSpace(p.Image) == ""
}

// Capture holds the input state of one session. It is not safe for concurrent use;
// a front-end mutates it from its single event loop.
type Capture struct {
	Lang  types.Language
	mode  Mode
	text  string
	image string
}

func NewCapture(lang types.Language) *Capture {
	if !lang.Valid() {
		lang = types.LangArabic
	}
	return &Capture{Lang: lang, mode: ModeText}
}

func (c *Capture) Mode() Mode    { return c.mode }
func (c *Capture) Text() string  { return c.text }
func (c *Capture) Image() string { return c.image }
func (c *Capture) HasImage() bool {
	return c.image != ""
}

func (c *Capture) SetMode(m Mode) { c.mode = m }
func (c *Capture) SetText(s string) {
	c.text = s
}

// AttachDataURL attaches an already encoded image and switches to the image tab.
func (c *Capture) AttachDataURL(s string) error {
	s = strings.TrimSpace(s)
	b, mime, err := util.DecodeBase64MaybeDataURL(s)
	if err != nil {
		return fmt.Errorf("attach image: %w", err)
	}
	if mime != "" && !strings.HasPrefix(mime, "image/") {
		return ErrNotAnImage
	}
	return c.AttachImageBytes(b)
}

// AttachImageBytes is used by the camera/file picker and by chat uploads.
func (c *Capture) AttachImageBytes(b []byte) error {
	if len(b) == 0 {
		return ErrNotAnImage
	}
	if len(b) > maxImageBytes {
		return ErrImageTooBig
	}
	if util.SniffImageMIME(b) == "" {
		return ErrNotAnImage
	}
	c.image = util.EncodeDataURL(b)
	c.mode = ModeImage
	return nil
}

func (c *Capture) AttachImageFile(path string) error {
	path = expandHome(strings.TrimSpace(path))
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("attach image: %w", err)
	}
	if st.Size() > maxImageBytes {
		return ErrImageTooBig
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("attach image: %w", err)
	}
	return c.AttachImageBytes(b)
}

func (c *Capture) ClearImage() {
	c.image = ""
	if c.mode == ModeImage {
		c.mode = ModeText
	}
}

// Paste intercepts pasted content: a data URL or a path to an image file becomes the
// attached image, anything else is appended to the text.
func (c *Capture) Paste(s string) (image bool) {
	trimmed := strings.TrimSpace(s)
	if util.IsDataURL(trimmed) {
		if err := c.AttachDataURL(trimmed); err == nil {
			return true
		}
	}
	if looksLikeImagePath(trimmed) {
		if err := c.AttachImageFile(trimmed); err == nil {
			return true
		}
	}
	c.text += s
	return false
}

// ApplyTranscript puts a voice transcript into the text box and returns to the text tab.
func (c *Capture) ApplyTranscript(t Transcript) {
	c.text = t.Text
	c.mode = ModeText
}

// Problem validates that at least one of text/image is present.
func (c *Capture) Problem() (Problem, error) {
	p := Problem{Text: strings.TrimSpace(c.text), Image: c.image, Lang: c.Lang}
	if p.Empty() {
		return Problem{}, ErrEmptyProblem
	}
	return p, nil
}

// Reset clears text and image, keeping language and mode.
func (c *Capture) Reset() {
	c.text = ""
	c.image = ""
}

func looksLikeImagePath(s string) bool {
	if s == "" || strings.ContainsAny(s, "\n") {
		return false
	}
	switch strings.ToLower(filepath.Ext(s)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
