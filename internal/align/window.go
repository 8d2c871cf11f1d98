package align

import (
	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// BuildWindows partitions [bStart,bEnd] x [aStart,aEnd] into half-open
// search windows bounded by the anchors between them:
// the pre-first-anchor gap, each inter-anchor gap (each window's edges
// include the full matched n-gram of the anchor it touches, so adjacent
// windows overlap by exactly NGram tokens), and the post-last-anchor
// tail. With no anchors, a single padded whole-region window is emitted.
func BuildWindows(anchors []model.Anchor, n, bStart, bEnd, aStart, aEnd, bTotal, aTotal int) []model.Window {
	if len(anchors) == 0 {
		pad := clampInt(maxInt(n*2, (bEnd-bStart+1)/5), 32, 8192)
		padA := clampInt(maxInt(n*2, (aEnd-aStart+1)/5), 32, 8192)
		return []model.Window{{
			BLo: maxInt(bStart-pad, 0),
			BHi: minInt(bEnd+1+pad, bTotal),
			ALo: maxInt(aStart-padA, 0),
			AHi: minInt(aEnd+1+padA, aTotal),
		}}
	}

	windows := make([]model.Window, 0, len(anchors)+1)
	prevB, prevA := bStart, aStart
	for _, a := range anchors {
		windows = append(windows, model.Window{
			BLo: prevB, BHi: minInt(a.Bp+n, bTotal),
			ALo: prevA, AHi: minInt(a.Ap+n, aTotal),
		})
		prevB, prevA = a.Bp, a.Ap
	}
	windows = append(windows, model.Window{
		BLo: prevB, BHi: bEnd + 1,
		ALo: prevA, AHi: aEnd + 1,
	})
	return windows
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
