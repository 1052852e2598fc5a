package game

import (
	"fmt"
	"strings"
)

// Label classifies a vehicle by the call site that spawned it.
type Label int

const (
	LabelUnknown Label = iota
	LabelNone
	LabelPursuer
	LabelHeavySupport
	LabelLeaderSupport
	LabelRoadblock
	LabelRoadblockJoiner
	LabelAerialSupport
	numLabels
)

var labelNames = [numLabels]string{
	LabelUnknown:         "unknown",
	LabelNone:            "none",
	LabelPursuer:         "pursuer",
	LabelHeavySupport:    "heavy",
	LabelLeaderSupport:   "leader",
	LabelRoadblock:       "roadblock",
	LabelRoadblockJoiner: "joiner",
	LabelAerialSupport:   "helicopter",
}

func (l Label) String() string {
	if l >= 0 && l < numLabels {
		return labelNames[l]
	}
	return fmt.Sprintf("label(%d)", int(l))
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) (Label, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range labelNames {
		if name == s {
			return Label(i), true
		}
	}
	return LabelUnknown, false
}

// CallSite identifies the game code path that added a vehicle.
type CallSite uint32

// Well-known call sites used when the event source does not ship its own
// classification table.
const (
	CallSiteRegular      CallSite = 0x01
	CallSitePursuit      CallSite = 0x02
	CallSiteHeavy        CallSite = 0x03
	CallSiteLeader       CallSite = 0x04
	CallSiteRoadblock    CallSite = 0x05
	CallSiteJoiner       CallSite = 0x06
	CallSiteHelicopter   CallSite = 0x07
	CallSiteHelicopterRe CallSite = 0x08
)

// Classifier maps call sites to labels.
type Classifier map[CallSite]Label

// DefaultClassifier covers the well-known call sites.
func DefaultClassifier() Classifier {
	return Classifier{
		CallSiteRegular:      LabelNone,
		CallSitePursuit:      LabelPursuer,
		CallSiteHeavy:        LabelHeavySupport,
		CallSiteLeader:       LabelLeaderSupport,
		CallSiteRoadblock:    LabelRoadblock,
		CallSiteJoiner:       LabelRoadblockJoiner,
		CallSiteHelicopter:   LabelAerialSupport,
		CallSiteHelicopterRe: LabelAerialSupport,
	}
}

// Classify returns the label for site, or LabelUnknown.
func (c Classifier) Classify(site CallSite) (Label, bool) {
	l, ok := c[site]
	if !ok {
		return LabelUnknown, false
	}
	return l, true
}
