package bom

import (
	"strconv"
	"strings"
)

// CSVHeader is the fixed column order of the BOM CSV.
var CSVHeader = []string{
	"key", "kind", "width_mm", "height_mm", "depth_mm", "materialId",
	"edgeBanding", "hingeSide", "hingeCount", "fasteners", "notes",
}

// CSV renders rows with every cell double-quoted and rows joined by "\n".
func CSV(rows []Row) string {
	var b strings.Builder
	writeRecord(&b, CSVHeader)
	for _, r := range rows {
		b.WriteByte('\n')
		hingeCount := ""
		if r.HingeCount > 0 {
			hingeCount = strconv.Itoa(r.HingeCount)
		}
		writeRecord(&b, []string{
			r.Key,
			r.Kind,
			formatMM(r.Width),
			formatMM(r.Height),
			formatMM(r.Depth),
			r.MaterialID,
			r.EdgeBanding,
			r.HingeSide,
			hingeCount,
			r.Fasteners,
			r.Notes,
		})
	}
	return b.String()
}

func writeRecord(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
