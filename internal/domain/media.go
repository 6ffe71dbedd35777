package domain

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// MediaArtifact is a downloaded attachment owned by a single request.
type MediaArtifact struct {
	Kind          MediaKind
	LocalPath     string
	ThumbnailPath string
}

type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNotUnderstood Outcome = "not_understood"
	OutcomeFormatError   Outcome = "format_error"
	OutcomeFailed        Outcome = "failed"
)

type AnalysisResult struct {
	Text          string
	Transcription string
	Outcome       Outcome
}

func (r AnalysisResult) OK() bool {
	return r.Outcome == OutcomeOK
}
