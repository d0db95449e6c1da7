package bom

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

func rowByKey(t *testing.T, rows []Row, key string) Row {
	t.Helper()
	r, ok := lo.Find(rows, func(r Row) bool { return r.Key == key })
	require.True(t, ok, "row %q missing", key)
	return r
}

func TestBuild_DefaultDoubleDoor(t *testing.T) {
	t.Parallel()

	p := cabinet.Defaults()
	rows := Build(cabinet.Generate(p, 0), p)

	side := rowByKey(t, rows, "side-left")
	assert.Equal(t, "ML-CARCASS", side.MaterialID)
	assert.Equal(t, "F", side.EdgeBanding)
	assert.Equal(t, 18.0, side.Width)
	assert.Equal(t, 720.0, side.Height)
	assert.Equal(t, 560.0, side.Depth)
	assert.Contains(t, side.Fasteners, "confirmat")

	back := rowByKey(t, rows, "back")
	assert.Equal(t, "ML-BACK", back.MaterialID)
	assert.Empty(t, back.EdgeBanding)
	assert.Contains(t, back.Fasteners, "brad nail")

	left := rowByKey(t, rows, "door-left")
	assert.Equal(t, "ML-DOOR", left.MaterialID)
	assert.Equal(t, "T,B,L,R", left.EdgeBanding)
	assert.Equal(t, "LEFT", left.HingeSide)
	assert.Equal(t, 2, left.HingeCount)
	assert.Equal(t, 297.0, left.Width)

	right := rowByKey(t, rows, "door-right")
	assert.Equal(t, "RIGHT", right.HingeSide)

	handle := rowByKey(t, rows, "handle-bar-L")
	assert.Equal(t, "HARDWARE-HANDLE", handle.MaterialID)
	assert.Equal(t, "bar handle", handle.Notes)

	hingeLeft := rowByKey(t, rows, "hinge-left")
	hingeRight := rowByKey(t, rows, "hinge-right")
	assert.Equal(t, "HARDWARE-HINGE", hingeLeft.MaterialID)
	assert.Equal(t, 2, hingeLeft.HingeCount)
	assert.Equal(t, 2, hingeRight.HingeCount)
}

func TestBuild_SingleDoorHingeRowOnlyOnHingedSide(t *testing.T) {
	t.Parallel()

	p := cabinet.Defaults()
	p.DoorCount = 1
	p.HingeSide = cabinet.HingeRight
	rows := Build(cabinet.Generate(p, 0), p)

	hinges := lo.Filter(rows, func(r Row, _ int) bool { return r.Kind == "hinge" })
	require.Len(t, hinges, 1)
	assert.Equal(t, "hinge-right", hinges[0].Key)
	assert.Equal(t, "RIGHT", rowByKey(t, rows, "door").HingeSide)
}

func TestBuild_TallDoorsGetThreeHinges(t *testing.T) {
	t.Parallel()

	p := cabinet.Defaults()
	p.Height = 1000
	rows := Build(cabinet.Generate(p, 0), p)

	assert.Equal(t, 3, rowByKey(t, rows, "door-left").HingeCount)
	assert.Equal(t, 3, rowByKey(t, rows, "hinge-left").HingeCount)
	assert.Equal(t, 2, HingesPerLeaf(900))
	assert.Equal(t, 3, HingesPerLeaf(900.5))
}

func TestBuild_ShelvesAndNoHandle(t *testing.T) {
	t.Parallel()

	p := cabinet.Defaults()
	p.ShelfCount = 2
	p.Handle = cabinet.HandleNone
	rows := Build(cabinet.Generate(p, 0), p)

	shelf := rowByKey(t, rows, "shelf-1")
	assert.Equal(t, "ML-SHELF", shelf.MaterialID)
	assert.Equal(t, "F", shelf.EdgeBanding)
	assert.Equal(t, "shelf pin 5 mm x4", shelf.Fasteners)

	assert.False(t, lo.SomeBy(rows, func(r Row) bool { return r.MaterialID == "HARDWARE-HANDLE" }))
}

func TestCSV_RoundTripsPartDimensions(t *testing.T) {
	t.Parallel()

	p := cabinet.Defaults()
	p.Width = 900
	p.Height = 780
	p.ShelfCount = 2
	parts := cabinet.Generate(p, 0)
	rows := Build(parts, p)

	records, err := csv.NewReader(strings.NewReader(CSV(rows))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, CSVHeader, records[0])

	for _, part := range parts {
		rec, ok := lo.Find(records[1:], func(r []string) bool { return r[0] == part.Key })
		require.True(t, ok, "csv row for %s", part.Key)

		for i, want := range []float64{part.Size.X, part.Size.Y, part.Size.Z} {
			got, err := strconv.ParseFloat(rec[2+i], 64)
			require.NoError(t, err)
			assert.LessOrEqual(t, math.Abs(got-want*1000), 0.01, "%s column %d", part.Key, i)
		}
	}
}

func TestCSV_QuotesEveryCell(t *testing.T) {
	t.Parallel()

	out := CSV([]Row{{Key: `odd "key"`, Kind: "panel", Width: 1.5, Notes: "a,b"}})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], `"key","kind","width_mm"`))
	assert.Equal(t, `"odd ""key""","panel","1.5","0","0","","","","","","a,b"`, lines[1])
}

func TestWritePackage_ContainsCSVAndJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, WritePackage(&buf, "CAB-TEST", "\"key\"", []byte(`{"sku":"CAB-TEST"}`), modified))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(data)
	}
	assert.Equal(t, "\"key\"", contents["CAB-TEST-bom.csv"])
	assert.Equal(t, `{"sku":"CAB-TEST"}`, contents["CAB-TEST.json"])
}
