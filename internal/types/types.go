package types

// Segment is one timed span of transcribed speech. Segments arrive from the
// transcriber in temporal order; slight overlap between neighbours is
// tolerated downstream.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the full transcription of one source video. Created once by
// the transcriber and read-only afterward.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Cue is one subtitle entry: a 1-based contiguous index plus a time range in
// seconds, either absolute (whole transcript) or clip-local (sliced window).
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Category classifies a proposed clip. Unknown values from the analysis step
// map to CategoryOther rather than rejecting the clip.
type Category string

const (
	CategoryHumor         Category = "humor"
	CategoryMotivation    Category = "motivation"
	CategoryControversial Category = "controversial"
	CategoryEducational   Category = "educational"
	CategoryOther         Category = "other"
)

func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryHumor, CategoryMotivation, CategoryControversial, CategoryEducational:
		return Category(s)
	default:
		return CategoryOther
	}
}

// ClipPlan is a validated clip window. Every plan that survives validation
// has End > Start with both bounds resolved to seconds.
type ClipPlan struct {
	Index         int      `json:"index"`
	Start         float64  `json:"start_sec"`
	End           float64  `json:"end_sec"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      Category `json:"category"`
	ViralityScore float64  `json:"virality_score"`
}

func (p ClipPlan) Duration() float64 { return p.End - p.Start }

// Rejection reasons recorded by the clip plan validator.
const (
	RejectMissingTimestamp    = "missing_timestamp"
	RejectNonPositiveDuration = "non_positive_duration"
)

// RejectedClip records one raw analysis record that failed validation.
type RejectedClip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ClipStatus tracks a clip through its render attempt. Failed is terminal;
// there is no automatic retry within a run.
type ClipStatus string

const (
	ClipPending        ClipStatus = "pending"
	ClipCutting        ClipStatus = "cutting"
	ClipSubtitlesBuilt ClipStatus = "subtitles_built"
	ClipComposing      ClipStatus = "composing"
	ClipReady          ClipStatus = "ready"
	ClipFailed         ClipStatus = "failed"
)

// RenderArtifact is the set of files produced for one rendered clip.
// PublishedURL is set only after the storage upload succeeds.
type RenderArtifact struct {
	Plan         ClipPlan `json:"plan"`
	AudioPath    string   `json:"audio_path"`
	VideoPath    string   `json:"video_path"`
	ThumbPath    string   `json:"thumb_path"`
	SubtitlePath string   `json:"subtitle_path"`
	PublishedURL string   `json:"published_url,omitempty"`
}

// ClipOutcome is the per-clip result reported for a run: either a Ready
// artifact or a failure reason. One outcome per validated plan.
type ClipOutcome struct {
	Plan     ClipPlan        `json:"plan"`
	Status   ClipStatus      `json:"status"`
	Artifact *RenderArtifact `json:"artifact,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// RunStatus is the overall status persisted per source video.
type RunStatus string

const (
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// SourceInfo identifies one ingestable video before download.
type SourceInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RunReport is the user-visible result of one run: one overall status plus a
// per-clip outcome list, never a single pass/fail for the batch.
type RunReport struct {
	SourceID string         `json:"source_id"`
	Title    string         `json:"title"`
	URL      string         `json:"url"`
	Status   RunStatus      `json:"status"`
	Skipped  bool           `json:"skipped,omitempty"`
	Rejected []RejectedClip `json:"rejected,omitempty"`
	Clips    []ClipOutcome  `json:"clips"`
}
