package risk

import (
	"fmt"

	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/knowledge"
)

// Factor codes. Codes are stable identifiers; descriptions are localized.
const (
	FactorAllNodesRemoved       = "ALL_NODES_REMOVED"
	FactorSecurityNodeRemoved   = "SECURITY_NODE_REMOVED"
	FactorAuthNodeRemoved       = "AUTH_NODE_REMOVED"
	FactorBackupRemoved         = "BACKUP_REMOVED"
	FactorMassiveChange         = "MASSIVE_CHANGE"
	FactorLargeChange           = "LARGE_CHANGE"
	FactorModerateChange        = "MODERATE_CHANGE"
	FactorAntipatternIntroduced = "ANTIPATTERN_INTRODUCED"
	FactorMandatoryDepBroken    = "MANDATORY_DEP_BROKEN"
	FactorRedundancyRemoved     = "REDUNDANCY_REMOVED"
	FactorInternetExposed       = "INTERNET_EXPOSED"
	FactorNoRisk                = "NO_RISK"
)

// Change-ratio thresholds. The tiers are mutually exclusive: the ratio is
// checked against the massive threshold first, then the large threshold,
// and the moderate tier fires only on absolute change count.
const (
	massiveChangeRatio  = 0.5
	largeChangeRatio    = 0.3
	moderateChangeCount = 5
)

// Factor is a single triggered risk condition.
type Factor struct {
	// Code is the stable factor identifier.
	Code string `json:"code"`

	// Level is the severity contributed by this factor.
	Level Level `json:"level"`

	// Description is the localized user-facing explanation.
	Description string `json:"description"`

	// Details optionally names the triggering node, type, or rule.
	Details string `json:"details,omitempty"`
}

// Summary counts the structural differences between the two graphs.
type Summary struct {
	AddedNodes         int `json:"addedNodes"`
	RemovedNodes       int `json:"removedNodes"`
	AddedConnections   int `json:"addedConnections"`
	RemovedConnections int `json:"removedConnections"`
}

// Assessment is the full risk report for one before/after pair. Factors is
// never empty: when no risk condition fires, the NO_RISK sentinel is
// emitted so callers always have something to display.
type Assessment struct {
	Level          Level          `json:"level"`
	Factors        []Factor       `json:"factors"`
	Summary        Summary        `json:"summary"`
	Recommendation Recommendation `json:"recommendation"`
}

// Assessor compares graphs structurally and against the knowledge base.
type Assessor struct {
	base knowledge.Base
}

// NewAssessor creates an assessor over the given knowledge base.
func NewAssessor(base knowledge.Base) *Assessor {
	return &Assessor{base: base}
}

// Assess compares before and after and collects every applicable risk
// factor. All checks are independent; the overall level is the maximum
// severity among the collected factors and the recommendation is derived
// solely from that level. Assess never fails: a failing antipattern
// detector is treated as non-detection.
func (a *Assessor) Assess(before, after *graph.Graph) Assessment {
	if before == nil {
		before = graph.New()
	}
	if after == nil {
		after = graph.New()
	}

	var factors []Factor

	beforeIDs := before.NodeIDSet()
	afterIDs := after.NodeIDSet()

	var removedNodes []graph.Component
	for i := range before.Nodes {
		if _, ok := afterIDs[before.Nodes[i].ID]; !ok {
			removedNodes = append(removedNodes, before.Nodes[i])
		}
	}
	var addedNodes []graph.Component
	for i := range after.Nodes {
		if _, ok := beforeIDs[after.Nodes[i].ID]; !ok {
			addedNodes = append(addedNodes, after.Nodes[i])
		}
	}

	addedConns, removedConns := diffConnections(before, after)

	summary := Summary{
		AddedNodes:         len(addedNodes),
		RemovedNodes:       len(removedNodes),
		AddedConnections:   len(addedConns),
		RemovedConnections: len(removedConns),
	}

	// Wiping a non-empty topology is always critical.
	if len(before.Nodes) > 0 && len(after.Nodes) == 0 {
		factors = append(factors, Factor{
			Code:        FactorAllNodesRemoved,
			Level:       LevelCritical,
			Description: "모든 노드가 제거되었습니다",
		})
	}

	for _, n := range removedNodes {
		switch {
		case n.Type.IsSecurity():
			factors = append(factors, Factor{
				Code:        FactorSecurityNodeRemoved,
				Level:       LevelHigh,
				Description: fmt.Sprintf("보안 장비(%s)가 제거되었습니다", n.Label),
				Details:     n.ID,
			})
		case n.Type.IsAuth():
			factors = append(factors, Factor{
				Code:        FactorAuthNodeRemoved,
				Level:       LevelHigh,
				Description: fmt.Sprintf("인증 구성요소(%s)가 제거되었습니다", n.Label),
				Details:     n.ID,
			})
		case n.Type == graph.TypeBackup:
			factors = append(factors, Factor{
				Code:        FactorBackupRemoved,
				Level:       LevelHigh,
				Description: "백업 구성이 제거되었습니다",
				Details:     n.ID,
			})
		}
	}

	if f, ok := changeRatioFactor(len(before.Nodes), len(addedNodes), len(removedNodes)); ok {
		factors = append(factors, f)
	}

	factors = append(factors, a.antipatternFactors(before, after)...)
	factors = append(factors, a.brokenDependencyFactors(before, after)...)
	factors = append(factors, redundancyFactors(before, after)...)
	factors = append(factors, internetExposureFactors(after, addedConns)...)

	if len(factors) == 0 {
		factors = append(factors, Factor{
			Code:        FactorNoRisk,
			Level:       LevelLow,
			Description: "위험 요소가 발견되지 않았습니다",
		})
	}

	level := LevelLow
	for _, f := range factors {
		level = MaxLevel(level, f.Level)
	}

	return Assessment{
		Level:          level,
		Factors:        factors,
		Summary:        summary,
		Recommendation: RecommendationFor(level),
	}
}

// changeRatioFactor classifies the change volume. Ratio tiers are computed
// only for a non-empty before graph; the moderate tier fires on absolute
// count when neither ratio tier did.
func changeRatioFactor(beforeCount, added, removed int) (Factor, bool) {
	changed := added + removed
	if beforeCount > 0 {
		ratio := float64(changed) / float64(beforeCount)
		if ratio > massiveChangeRatio {
			return Factor{
				Code:        FactorMassiveChange,
				Level:       LevelCritical,
				Description: fmt.Sprintf("전체 노드의 %.0f%%가 변경되었습니다", ratio*100),
			}, true
		}
		if ratio > largeChangeRatio {
			return Factor{
				Code:        FactorLargeChange,
				Level:       LevelHigh,
				Description: fmt.Sprintf("전체 노드의 %.0f%%가 변경되었습니다", ratio*100),
			}, true
		}
	}
	if changed >= moderateChangeCount {
		return Factor{
			Code:        FactorModerateChange,
			Level:       LevelMedium,
			Description: fmt.Sprintf("%d개 노드가 변경되었습니다", changed),
		}, true
	}
	return Factor{}, false
}

// antipatternFactors flags detectors that are inactive on before and active
// on after. Detector errors are swallowed and treated as non-detection.
func (a *Assessor) antipatternFactors(before, after *graph.Graph) []Factor {
	var factors []Factor
	for _, ap := range a.base.Antipatterns() {
		wasActive, err := ap.Detect(before)
		if err != nil {
			wasActive = false
		}
		isActive, err := ap.Detect(after)
		if err != nil {
			isActive = false
		}
		if !wasActive && isActive {
			factors = append(factors, Factor{
				Code:        FactorAntipatternIntroduced,
				Level:       LevelHigh,
				Description: fmt.Sprintf("안티패턴이 추가되었습니다: %s", ap.Name),
				Details:     ap.ID,
			})
		}
	}
	return factors
}

// brokenDependencyFactors flags mandatory dependency targets that were
// present in before but are gone in after while the depending type remains.
func (a *Assessor) brokenDependencyFactors(before, after *graph.Graph) []Factor {
	var factors []Factor
	seen := make(map[string]struct{})
	for i := range after.Nodes {
		t := after.Nodes[i].Type
		for _, dep := range a.base.MandatoryDeps(t) {
			if !before.HasType(dep) || after.HasType(dep) {
				continue
			}
			key := string(t) + "|" + string(dep)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			factors = append(factors, Factor{
				Code:        FactorMandatoryDepBroken,
				Level:       LevelHigh,
				Description: fmt.Sprintf("%s에 필요한 %s이(가) 제거되었습니다", t, dep),
				Details:     string(dep),
			})
		}
	}
	return factors
}

// redundancyFactors flags types that dropped from two or more instances to
// exactly one. Dropping to zero is covered by the removal and change-volume
// checks instead.
func redundancyFactors(before, after *graph.Graph) []Factor {
	var factors []Factor
	afterCounts := after.TypeCounts()
	for i := range before.Nodes {
		// Walk before in insertion order for deterministic factor order.
		t := before.Nodes[i].Type
		if before.Nodes[i].ID != before.FirstNodeByType(t).ID {
			continue
		}
		if countType(before, t) >= 2 && afterCounts[t] == 1 {
			factors = append(factors, Factor{
				Code:        FactorRedundancyRemoved,
				Level:       LevelMedium,
				Description: fmt.Sprintf("%s 이중화가 해제되었습니다", t),
				Details:     string(t),
			})
		}
	}
	return factors
}

func countType(g *graph.Graph, t graph.ComponentType) int {
	n := 0
	for i := range g.Nodes {
		if g.Nodes[i].Type == t {
			n++
		}
	}
	return n
}

// internetExposureFactors flags newly added connections that join an
// internet node directly to an internal-only node, in either direction.
func internetExposureFactors(after *graph.Graph, addedConns []graph.Connection) []Factor {
	var factors []Factor
	for _, c := range addedConns {
		src := after.NodeByID(c.Source)
		dst := after.NodeByID(c.Target)
		if src == nil || dst == nil {
			continue
		}
		exposed := (src.Type == graph.TypeInternet && dst.Type.IsInternalOnly()) ||
			(dst.Type == graph.TypeInternet && src.Type.IsInternalOnly())
		if exposed {
			factors = append(factors, Factor{
				Code:        FactorInternetExposed,
				Level:       LevelCritical,
				Description: fmt.Sprintf("내부 전용 구성요소가 인터넷에 직접 노출되었습니다 (%s ↔ %s)", src.Type, dst.Type),
				Details:     c.Source + "->" + c.Target,
			})
		}
	}
	return factors
}

// diffConnections returns connections present only in after (added) and
// only in before (removed), keyed by endpoints, flow type, and label.
func diffConnections(before, after *graph.Graph) (added, removed []graph.Connection) {
	key := func(c graph.Connection) string {
		return c.Source + "|" + c.Target + "|" + string(c.FlowType) + "|" + c.Label
	}
	beforeSet := make(map[string]struct{}, len(before.Connections))
	for _, c := range before.Connections {
		beforeSet[key(c)] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after.Connections))
	for _, c := range after.Connections {
		afterSet[key(c)] = struct{}{}
	}
	for _, c := range after.Connections {
		if _, ok := beforeSet[key(c)]; !ok {
			added = append(added, c)
		}
	}
	for _, c := range before.Connections {
		if _, ok := afterSet[key(c)]; !ok {
			removed = append(removed, c)
		}
	}
	return added, removed
}
