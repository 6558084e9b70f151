package risk

import (
	"sort"
	"strings"
)

const UnknownSector = "Unknown"

// SectorShare counts the tickers held in one sector.
type SectorShare struct {
	Sector string  `json:"sector"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"`
}

// SectorAllocation is ordered by count descending, then sector name.
type SectorAllocation []SectorShare

// Sectors groups tickers by sector. Blank sectors count as Unknown.
func Sectors(sectorByTicker map[string]string) SectorAllocation {
	if len(sectorByTicker) == 0 {
		return SectorAllocation{}
	}
	counts := make(map[string]int)
	for _, s := range sectorByTicker {
		s = strings.TrimSpace(s)
		if s == "" {
			s = UnknownSector
		}
		counts[s]++
	}
	out := make(SectorAllocation, 0, len(counts))
	total := float64(len(sectorByTicker))
	for s, c := range counts {
		out = append(out, SectorShare{Sector: s, Count: c, Share: float64(c) / total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}
