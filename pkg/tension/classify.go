package tension

// IsTense compares a live signal against the baseline. Either a narrowed
// eyelid gap or a furrowed brow alone is enough: the OR favors catching
// real tension over avoiding occasional false positives.
func IsTense(sig Signal, baseline Baseline, thresholdRatio float64) bool {
	return sig.EyeOpenAvg < baseline.EyeOpenAvg*thresholdRatio ||
		sig.BrowInnerDist < baseline.BrowInnerDist*thresholdRatio
}

// SmileResult carries both the binary call and the continuous score so the
// dashboard can show how close the classifier is to suppressing.
type SmileResult struct {
	IsSmiling bool    `json:"is_smiling"`
	Score     float64 `json:"score"` // 0-1 weighted blend of the three cues
}

// Smile score weights. Mouth width is the strongest single cue.
const (
	smileWeightMouthWidth = 0.4
	smileWeightCornerLift = 0.35
	smileWeightCheekRaise = 0.25
)

// ClassifySmile scores three geometric smile cues against the baseline.
// The binary call is an OR of the score threshold and a 2-of-3 indicator
// count, so a strong single cue or two moderate cues both register.
func ClassifySmile(sig Signal, baseline Baseline, cfg Config) SmileResult {
	mouthWidthRatio := safeRatio(sig.MouthWidth, baseline.MouthWidth)
	cornerLiftDelta := sig.MouthCornerLift - baseline.MouthCornerLift
	cheekRaiseRatio := safeRatio(sig.CheekRaise, baseline.CheekRaise)

	mouthWidthScore := max(0, (mouthWidthRatio-1)*10)
	cornerLiftScore := max(0, cornerLiftDelta*100)
	cheekRaiseScore := max(0, (1-cheekRaiseRatio)*10)

	score := clamp(
		smileWeightMouthWidth*mouthWidthScore+
			smileWeightCornerLift*cornerLiftScore+
			smileWeightCheekRaise*cheekRaiseScore,
		0, 1)

	// The corner lift indicator scales with the personal baseline but never
	// drops below an absolute floor, so flat-baseline faces still work.
	liftThreshold := max(baseline.MouthCornerLift*(cfg.SmileCornerLiftThreshold-1), cfg.SmileMinCornerLiftDelta)

	indicators := 0
	if mouthWidthRatio > cfg.SmileMouthWidthThreshold {
		indicators++
	}
	if cornerLiftDelta > liftThreshold {
		indicators++
	}
	if cheekRaiseRatio < cfg.SmileCheekRaiseThreshold {
		indicators++
	}

	return SmileResult{
		IsSmiling: score > cfg.SmileScoreThreshold || indicators >= 2,
		Score:     score,
	}
}

// safeRatio avoids dividing by a zero baseline component. A zero baseline
// gives a neutral ratio of 1 rather than +Inf.
func safeRatio(live, base float64) float64 {
	if base == 0 {
		return 1
	}
	return live / base
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
