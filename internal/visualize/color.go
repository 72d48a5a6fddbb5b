package visualize

import (
	"encoding/binary"

	"github.com/specialistvlad/poolprop/internal/pool"
	"github.com/zeebo/blake3"
)

// Palette is the fixed set of colors pools are drawn with (viridis, 18 steps).
var Palette = []string{
	"#440154",
	"#471669",
	"#472A79",
	"#433C84",
	"#3C4D8A",
	"#355D8C",
	"#2E6C8E",
	"#287A8E",
	"#23898D",
	"#1E978A",
	"#20A585",
	"#2EB27C",
	"#45BF6F",
	"#64CB5D",
	"#88D547",
	"#AFDC2E",
	"#D7E219",
	"#FDE724",
}

// Color returns the palette entry for p, or "" for pool.None. The choice
// depends only on the pool name, so it is stable across runs and processes.
func Color(p pool.Pool) string {
	if p.IsNone() {
		return ""
	}
	sum := blake3.Sum256([]byte(p.String()))
	n := binary.BigEndian.Uint32(sum[:4])
	return Palette[n%uint32(len(Palette))]
}
