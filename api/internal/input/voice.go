package input

import (
	"context"
	"errors"
	"sync"

	"math-teacher/api/internal/solver/types"
)

var (
	ErrMicrophoneUnavailable = errors.New("microphone is not available")
	ErrNotRecording          = errors.New("recorder is not recording")
	ErrEmptyRecording        = errors.New("recording is empty")
)

type Recording struct {
	Audio []byte
	MIME  string
}

func (r Recording) MIMEOrDefault() string {
	if r.MIME != "" {
		return r.MIME
	}
	return "audio/webm"
}

// Transcript — результат распознавания. Stub=true значит, что речь не распознавалась,
// а текст подставлен заглушкой; интерфейс обязан это показать.
type Transcript struct {
	Text string
	Stub bool
}

type Recorder interface {
	Start(ctx context.Context) error
	Stop() (Recording, error)
	Recording() bool
}

type Transcriber interface {
	Transcribe(ctx context.Context, rec Recording, lang types.Language) (Transcript, error)
}

// StubRecorder has no capture device: it tracks the start/stop gesture and yields an empty recording.
// With NoDevice set it refuses to start, for transcribers that need real audio.
type StubRecorder struct {
	NoDevice bool

	mu        sync.Mutex
	recording bool
}

func (r *StubRecorder) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.NoDevice {
		return ErrMicrophoneUnavailable
	}
	r.mu.Lock()
	r.recording = true
	r.mu.Unlock()
	return nil
}

func (r *StubRecorder) Stop() (Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return Recording{}, ErrNotRecording
	}
	r.recording = false
	return Recording{MIME: "audio/webm"}, nil
}

func (r *StubRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

var placeholderTranscript = map[types.Language]string{
	types.LangArabic:  "حل المسألة المسجلة صوتياً",
	types.LangEnglish: "Solve the problem recorded by voice",
}

// RecorderFor returns a stub recorder matching tr: StubTranscriber ignores the audio, anything
// else needs a microphone the stub does not have.
func RecorderFor(tr Transcriber) *StubRecorder {
	_, stub := tr.(StubTranscriber)
	return &StubRecorder{NoDevice: !stub}
}

// StubTranscriber discards the audio and returns a fixed placeholder, flagged as such.
type StubTranscriber struct{}

func (StubTranscriber) Transcribe(ctx context.Context, rec Recording, lang types.Language) (Transcript, error) {
	text, ok := placeholderTranscript[lang]
	if !ok {
		text = placeholderTranscript[types.LangArabic]
	}
	return Transcript{Text: text, Stub: true}, nil
}
