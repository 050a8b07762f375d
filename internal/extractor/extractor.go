package extractor

import (
	"fmt"
	"math"
	"sort"

	"tubesnap/pkg/models"
)

// noVideoCodec is the sentinel the extractor uses for audio-only formats
const noVideoCodec = "none"

// FallbackQualities is offered when no suitable MP4 format is advertised
var FallbackQualities = []string{"720p", "360p"}

// AvailableQualities derives the selectable video resolutions from extraction
// metadata. A format counts iff it carries a video codec, uses the mp4
// container and reports an integer pixel height. Heights are deduplicated and
// sorted descending. Malformed entries are skipped, never converted.
func AvailableQualities(info *models.VideoInfo) []string {
	heights := make(map[int]struct{})

	if info != nil {
		for _, f := range info.Formats {
			if f.Vcodec == noVideoCodec || f.Ext != "mp4" {
				continue
			}
			if f.Height == nil || *f.Height != math.Trunc(*f.Height) {
				continue
			}
			heights[int(*f.Height)] = struct{}{}
		}
	}

	if len(heights) == 0 {
		return append([]string(nil), FallbackQualities...)
	}

	sorted := make([]int, 0, len(heights))
	for h := range heights {
		sorted = append(sorted, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	qualities := make([]string, len(sorted))
	for i, h := range sorted {
		qualities[i] = fmt.Sprintf("%dp", h)
	}

	return qualities
}
