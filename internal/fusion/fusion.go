// Package fusion merges independently produced risk and opportunity signals
// (intent, usage, call intelligence, staleness) into one ranked list on a
// common 0-100 scale, rewarding corroboration without double-counting any
// signal category on the same entity.
package fusion

import (
	"sort"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
)

// SourceSignal is a signal as emitted by one source, still carrying that
// source's own confidence vocabulary.
type SourceSignal struct {
	Signal     model.Signal
	Confidence model.Confidence
}

// Input carries one entity's signals, one slice per source, in source order.
type Input struct {
	SubjectID   string
	SubjectName string
	Sources     [][]SourceSignal
}

// Result is one entity's fused outcome.
type Result struct {
	SubjectID   string         `json:"subject_id"`
	SubjectName string         `json:"subject_name"`
	Score       float64        `json:"score"`
	Signals     []model.Signal `json:"signals"`
}

// Fuser normalizes and merges signals according to the configured
// confidence scale and corroboration bonus.
type Fuser struct {
	scale map[string]float64
	bonus float64
	cap   float64
}

// defaultScale matches the documented high/medium/low mapping.
var defaultScale = map[string]float64{
	"high":   85,
	"medium": 65,
	"low":    45,
}

// NewFuser creates a Fuser from the scoring configuration. Missing scale
// entries fall back to the defaults.
func NewFuser(cfg config.ScoringConfig) *Fuser {
	scale := make(map[string]float64, len(defaultScale))
	for k, v := range defaultScale {
		scale[k] = v
	}
	for k, v := range cfg.ConfidenceScale {
		scale[k] = v
	}
	return &Fuser{scale: scale, bonus: cfg.CorroborationBonus, cap: cfg.CorroborationCap}
}

// Fuse merges each input's sources and returns results sorted descending by
// composite score; ties preserve input order.
func (f *Fuser) Fuse(inputs []Input) []Result {
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		if r, ok := f.fuseOne(in); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// fuseOne merges one entity's sources. Entities with no signals are dropped
// from the ranked list.
func (f *Fuser) fuseOne(in Input) (Result, bool) {
	var kept []model.Signal
	seen := make(map[model.SignalCategory]int)
	var best float64

	for _, source := range in.Sources {
		for _, ss := range source {
			conf := f.normalize(ss.Confidence)
			if conf > best {
				best = conf
			}

			idx, dup := seen[ss.Signal.Category]
			if !dup {
				seen[ss.Signal.Category] = len(kept)
				kept = append(kept, ss.Signal)
				continue
			}
			// Category already present: keep the first signal, fold in
			// distinguishing evidence rather than duplicating the category.
			if ss.Signal.Evidence != "" && ss.Signal.Evidence != kept[idx].Evidence {
				if kept[idx].Evidence == "" {
					kept[idx].Evidence = ss.Signal.Evidence
				} else {
					kept[idx].Evidence += "; " + ss.Signal.Evidence
				}
			}
		}
	}

	if len(kept) == 0 {
		return Result{}, false
	}

	// Corroboration: each additional co-occurring signal adds a small
	// bonus, capped so a pile of weak signals cannot out-rank one strong
	// one by volume alone.
	bonus := f.bonus * float64(len(kept)-1)
	if bonus > f.cap {
		bonus = f.cap
	}

	score := best + bonus
	if score > 100 {
		score = 100
	}

	return Result{
		SubjectID:   in.SubjectID,
		SubjectName: in.SubjectName,
		Score:       score,
		Signals:     kept,
	}, true
}

func (f *Fuser) normalize(c model.Confidence) float64 {
	if v, ok := f.scale[string(c)]; ok {
		return v
	}
	return f.scale["low"]
}
