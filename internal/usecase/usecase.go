// Package usecase sequences one pipeline run: idempotency gate, ingest,
// transcription, analysis, validation, clip rendering and publication.
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/podbot/podclip/internal/domain/clipplan"
	"github.com/podbot/podclip/internal/domain/subtitles"
	"github.com/podbot/podclip/internal/domain/transcript"
	"github.com/podbot/podclip/internal/ports"
	"github.com/podbot/podclip/internal/types"
)

type Deps struct {
	Fetcher ports.SourceFetcher
	ASR     ports.Transcriber
	LLM     ports.ClipProposer
	Media   ports.MediaTool
	Store   ports.ObjectStore
	Notify  ports.Notifier
	Status  ports.StatusStore
	Log     *logrus.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = logrus.New()
	}
	return Usecase{d: d}
}

type Input struct {
	SourceURL     string
	OutDir        string
	CacheDir      string
	RenderWorkers int
}

// Run processes one source video end to end. Failures of ingest,
// transcription or analysis abort the run and mark the source failed;
// failures of individual clips are recorded in the report and never
// escalate.
func (u Usecase) Run(ctx context.Context, in Input) (types.RunReport, error) {
	info, err := u.d.Fetcher.Info(ctx, in.SourceURL)
	if err != nil {
		return types.RunReport{URL: in.SourceURL, Status: types.RunFailed}, err
	}
	report := types.RunReport{SourceID: info.ID, Title: info.Title, URL: in.SourceURL}

	done, err := u.d.Status.IsCompleted(ctx, info.ID)
	if err != nil {
		// A broken status check must not block processing; worst case we
		// redo work that is safe to redo.
		u.d.Log.WithError(err).Warn("status check failed, proceeding")
	}
	if done {
		u.d.Log.WithField("source_id", info.ID).Info("source already completed, skipping run")
		report.Status = types.RunCompleted
		report.Skipped = true
		return report, nil
	}

	if err := u.d.Status.MarkProcessing(ctx, info.ID, in.SourceURL, info.Title); err != nil {
		u.d.Log.WithError(err).Warn("mark processing failed")
	}

	audioPath, err := u.d.Fetcher.Fetch(ctx, in.SourceURL)
	if err != nil {
		return u.failRun(ctx, report, "ingest", err)
	}
	u.d.Log.WithField("audio", audioPath).Info("source audio downloaded")

	tr, err := u.d.ASR.Transcribe(ctx, audioPath, in.CacheDir)
	if err != nil {
		return u.failRun(ctx, report, "transcribe", err)
	}
	idx := transcript.NewIndex(tr.Segments)
	u.d.Log.WithField("segments", idx.Len()).Info("transcription complete")

	// Full-transcript SRT next to the downloaded audio. Advisory output;
	// failure to write it does not fail the run.
	fullSRT := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".srt"
	if err := os.WriteFile(fullSRT, []byte(subtitles.Document(idx.RenderCues(0))), 0o644); err != nil {
		u.d.Log.WithError(err).Warn("write full transcript srt failed")
	}

	raw, err := u.d.LLM.Propose(ctx, tr.Text)
	if err != nil {
		return u.failRun(ctx, report, "analyze", err)
	}

	plans, rejected := clipplan.Validate(raw)
	report.Rejected = rejected
	u.d.Log.WithFields(logrus.Fields{
		"proposed": len(raw),
		"valid":    len(plans),
		"rejected": len(rejected),
	}).Info("clip proposals validated")
	for _, r := range rejected {
		u.d.Log.WithFields(logrus.Fields{"clip": r.Index, "reason": r.Reason}).Warn("clip proposal rejected")
	}

	report.Clips = u.renderAll(ctx, plans, idx, audioPath, info.ID, in)

	u.publishAll(ctx, report.Clips)

	// The run completes once every clip has been attempted; individual clip
	// failures do not fail the run.
	if err := u.d.Status.MarkCompleted(ctx, info.ID); err != nil {
		u.d.Log.WithError(err).Warn("mark completed failed")
	}
	report.Status = types.RunCompleted
	u.d.Log.WithField("source_id", info.ID).Info("run completed")
	return report, nil
}

func (u Usecase) failRun(ctx context.Context, report types.RunReport, stage string, err error) (types.RunReport, error) {
	u.d.Log.WithError(err).WithField("stage", stage).Error("run-fatal stage failure")
	if report.SourceID != "" {
		if merr := u.d.Status.MarkFailed(ctx, report.SourceID); merr != nil {
			u.d.Log.WithError(merr).Warn("mark failed failed")
		}
	}
	report.Status = types.RunFailed
	return report, fmt.Errorf("%s: %w", stage, err)
}

// publishAll uploads each ready artifact and then notifies, per artifact.
// Upload always completes (or is known failed) before its notification;
// both steps are non-fatal to the run.
func (u Usecase) publishAll(ctx context.Context, outcomes []types.ClipOutcome) {
	for i := range outcomes {
		out := &outcomes[i]
		if out.Status != types.ClipReady || out.Artifact == nil {
			continue
		}
		url, err := u.d.Store.Store(ctx, out.Artifact.VideoPath)
		if err != nil || url == "" {
			u.d.Log.WithError(err).WithField("clip", out.Plan.Index).Warn("upload failed, clip stays unpublished")
			out.Reason = "upload failed"
			continue
		}
		out.Artifact.PublishedURL = url
		u.d.Log.WithFields(logrus.Fields{"clip": out.Plan.Index, "url": url}).Info("clip published")

		msg := fmt.Sprintf("🎬 New Clip: %s\nURL: %s", out.Plan.Title, url)
		if err := u.d.Notify.Notify(ctx, msg); err != nil {
			u.d.Log.WithError(err).WithField("clip", out.Plan.Index).Warn("notification failed")
		}
	}
}
