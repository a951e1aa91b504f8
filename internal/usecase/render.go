package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/podbot/podclip/internal/domain/subtitles"
	"github.com/podbot/podclip/internal/domain/transcript"
	"github.com/podbot/podclip/internal/types"
)

// renderAll fans clip rendering out over a bounded worker pool. Each clip
// owns its output paths exclusively and only shares read-only state (source
// audio, segment index), so no ordering or locking is needed beyond the
// per-slot outcome writes.
func (u Usecase) renderAll(
	ctx context.Context,
	plans []types.ClipPlan,
	idx *transcript.Index,
	srcAudio, sourceID string,
	in Input,
) []types.ClipOutcome {
	outcomes := make([]types.ClipOutcome, len(plans))

	workers := in.RenderWorkers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			base := filepath.Join(in.OutDir, fmt.Sprintf("%s_clip_%d", sourceID, plan.Index))
			outcomes[i] = u.renderClip(gctx, plan, idx, srcAudio, base)
			// Per-clip failures are captured in the outcome; never abort
			// sibling renders.
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// renderClip walks one plan through cutting, subtitling and composition.
// Any step's failure is terminal for this clip only.
func (u Usecase) renderClip(
	ctx context.Context,
	plan types.ClipPlan,
	idx *transcript.Index,
	srcAudio, base string,
) types.ClipOutcome {
	out := types.ClipOutcome{Plan: plan, Status: types.ClipPending}
	log := u.d.Log.WithFields(logrus.Fields{"clip": plan.Index, "title": plan.Title})

	fail := func(stage string, err error) types.ClipOutcome {
		log.WithError(err).WithField("stage", stage).Warn("clip render failed")
		out.Status = types.ClipFailed
		out.Reason = fmt.Sprintf("%s: %v", stage, err)
		return out
	}

	// Cancellation aborts clips that have not started; partially written
	// outputs stay isolated because every path below is owned by this clip.
	if err := ctx.Err(); err != nil {
		return fail("canceled", err)
	}

	audioPath := base + ".mp3"
	srtPath := base + ".srt"
	thumbPath := base + "_thumb.png"
	videoPath := base + ".mp4"

	out.Status = types.ClipCutting
	if err := u.d.Media.CutAudio(ctx, srcAudio, plan.Start, plan.End, audioPath); err != nil {
		return fail("cut_audio", err)
	}

	cues, err := idx.Slice(plan.Start, plan.End)
	if err != nil {
		return fail("slice_subtitles", err)
	}
	if err := os.WriteFile(srtPath, []byte(subtitles.Document(cues)), 0o644); err != nil {
		return fail("write_subtitles", err)
	}
	out.Status = types.ClipSubtitlesBuilt

	if err := u.d.Media.MakeBackground(ctx, plan.Title, thumbPath); err != nil {
		return fail("background", err)
	}

	out.Status = types.ClipComposing
	// The composed video is pinned to the cut audio's real duration, not
	// the plan's nominal window; the two can differ by container rounding.
	duration, err := u.d.Media.ProbeDuration(ctx, audioPath)
	if err != nil {
		return fail("probe_duration", err)
	}
	if err := u.d.Media.ComposeVideo(ctx, audioPath, thumbPath, srtPath, duration, videoPath); err != nil {
		return fail("compose", err)
	}

	out.Status = types.ClipReady
	out.Artifact = &types.RenderArtifact{
		Plan:         plan,
		AudioPath:    audioPath,
		VideoPath:    videoPath,
		ThumbPath:    thumbPath,
		SubtitlePath: srtPath,
	}
	log.Info("clip rendered")
	return out
}
