package track

import "github.com/brightfield-data/microtrack/internal/config"

// LocateParamsFromTuning builds LocateParams from a loaded TuningConfig.
// An absolute threshold in the tuning file takes precedence over the
// percentile.
func LocateParamsFromTuning(cfg *config.TuningConfig) LocateParams {
	p := LocateParams{
		Diameter:    cfg.GetDiameter(),
		Separation:  cfg.GetSeparation(),
		Threshold:   ThresholdSpec{Kind: ThresholdPercentile, Value: cfg.GetPercentile()},
		Invert:      cfg.GetInvert(),
		MinMass:     cfg.GetMinMass(),
		MaxSize:     cfg.GetMaxSize(),
		MaxEcc:      cfg.GetMaxEcc(),
		TopN:        cfg.GetTopN(),
		MergePolicy: MergeKeepBrightest,
	}
	if cfg.GetMergePolicy() == config.MergePolicyCentroid {
		p.MergePolicy = MergeWeightedCentroid
	}
	if cfg.ThresholdAbs != nil {
		p.Threshold = ThresholdSpec{Kind: ThresholdAbsolute, Value: *cfg.ThresholdAbs}
	}
	return p
}

// LinkParamsFromTuning builds LinkParams from a loaded TuningConfig.
func LinkParamsFromTuning(cfg *config.TuningConfig) LinkParams {
	return LinkParams{
		SearchRange:     cfg.GetSearchRange(),
		Memory:          cfg.GetMemory(),
		PredictVelocity: cfg.GetPredictVelocity(),
		MaxSubnetSize:   cfg.GetMaxSubnetSize(),
	}
}
