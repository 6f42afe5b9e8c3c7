package loader

import (
	"fmt"
	"strings"

	"github.com/stellarsignal/orbitwatch/model"
)

// Name stems for synthetic records, chosen so the classifier spreads them
// across the same categories a real batch from that source would have.
var syntheticNames = map[model.DataSource][]string{
	model.SourceActive: {
		"STARLINK-%d", "ONEWEB-%04d", "IRIDIUM %d", "GLONASS-M %d", "OBJECT %d",
	},
	model.SourceDebris: {
		"COSMOS 2251 DEB", "FENGYUN 1C DEB", "IRIDIUM 33 DEB", "SL-16 DEB", "THORAD AGENA D DEB",
	},
	model.SourceRecentLaunches: {
		"STARLINK-%d", "CZ-2D R/B", "FALCON 9 R/B", "OBJECT %d", "YAOGAN-%d",
	},
	model.SourceWeather: {
		"NOAA %d", "GOES %d", "METOP-B", "METEOSAT-%d", "HIMAWARI-%d",
	},
	model.SourceStations: {
		"ISS (ZARYA)", "CSS (TIANHE)", "OBJECT %d",
	},
}

// syntheticBatchSize is the record count of one synthetic batch.
const syntheticBatchSize = 48

// SyntheticDataset produces the offline stand-in for one data source as
// raw three-line record text. It is a pure function of the source: the
// same source always yields the same batch, with catalog ids carved out of
// a per-source block so generations built from different sources never
// collide. The element lines carry valid fixed-offset fields but are too
// short to parse as real element sets, which routes every synthetic object
// onto the deterministic analytic motion model.
func SyntheticDataset(source model.DataSource) string {
	stems := syntheticNames[source]
	if len(stems) == 0 {
		stems = syntheticNames[model.SourceActive]
	}
	idBase := 90000 + 1000*int(source)

	var b strings.Builder
	for i := 0; i < syntheticBatchSize; i++ {
		id := idBase + i
		stem := stems[i%len(stems)]
		name := stem
		if strings.Contains(stem, "%") {
			name = fmt.Sprintf(stem, 1000+i)
		}

		epochYear := 20 + i%6
		fmt.Fprintf(&b, "%s\n", name)
		fmt.Fprintf(&b, "1 %05dU 98067A   %02d001.00000000\n", id, epochYear)
		fmt.Fprintf(&b, "2 %05d\n", id)
	}
	return b.String()
}
