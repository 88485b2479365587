package rides

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no row matches a requested timestamp.
	ErrNotFound = errors.New("no ride record for timestamp")

	// ErrDataLoad is returned when the data source is missing, empty or
	// lacks required columns. Fatal at startup, there is no recovery.
	ErrDataLoad = errors.New("ride data load failed")
)

// timestampLayouts are the accepted timestamp formats of the data file.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// Table owns the full ordered ride history, loaded once at startup and
// held in memory for the process lifetime. All reads copy under a read
// lock so an in-flight update can never be observed half-written.
type Table struct {
	mu      sync.RWMutex
	records []Record
	maxPage int
}

// Load parses a CSV ride history into an ordered table.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: source is empty", ErrDataLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range allColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrDataLoad, col)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataLoad, line, err)
		}

		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataLoad, line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: source has no data rows", ErrDataLoad)
	}

	return &Table{
		records: records,
		maxPage: (len(records) + PageSize - 1) / PageSize,
	}, nil
}

// LoadFile opens and parses the ride history file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer f.Close()
	return Load(f)
}

func parseRecord(row []string, idx map[string]int) (Record, error) {
	var rec Record

	ts, err := parseTimestamp(row[idx[ColTimestamp]])
	if err != nil {
		return rec, err
	}
	rec.Timestamp = ts

	// Ride counts may appear as float text; coerce by truncation.
	rides, err := parseCount(row[idx[ColRideCount]])
	if err != nil {
		return rec, fmt.Errorf("bad ride count: %v", err)
	}
	rec.RideCount = rides

	floats := []struct {
		col string
		dst *float64
	}{
		{ColWind, &rec.Wind},
		{ColRain, &rec.Rain},
		{ColSnow, &rec.Snow},
		{ColHiTemp, &rec.HiTemp},
		{ColLoTemp, &rec.LoTemp},
		{ColAvgTemp, &rec.AverageTemp},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx[f.col]]), 64)
		if err != nil {
			return rec, fmt.Errorf("bad %s value: %v", f.col, err)
		}
		*f.dst = v
	}

	month, err := parseCount(row[idx[ColMonth]])
	if err != nil {
		return rec, fmt.Errorf("bad month: %v", err)
	}
	rec.Month = month

	year, err := parseCount(row[idx[ColYear]])
	if err != nil {
		return rec, fmt.Errorf("bad year: %v", err)
	}
	rec.Year = year

	return rec, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}

// parseCount parses integer text, truncating any float representation.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// MaxPage returns the number of pages the table spans.
func (t *Table) MaxPage() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxPage
}

// Page returns the rows for page n, a half-open window of up to
// PageSize rows in storage order. An out-of-range page yields an empty
// or partial slice, never an error; callers are expected to clamp n to
// [1, MaxPage].
func (t *Table) Page(n int) []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	start := (n - 1) * PageSize
	if start < 0 || start >= len(t.records) {
		return nil
	}
	end := start + PageSize
	if end > len(t.records) {
		end = len(t.records)
	}

	page := make([]Record, end-start)
	copy(page, t.records[start:end])
	return page
}

// Update overwrites the data columns of every row whose timestamp
// equals ts, in DataColumns order. Returns ErrNotFound when no row
// matches. The timestamp itself is never modified.
func (t *Table) Update(ts time.Time, values []float64) error {
	if len(values) != len(DataColumns) {
		return fmt.Errorf("expected %d values, got %d", len(DataColumns), len(values))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	matched := 0
	for i := range t.records {
		if t.records[i].Timestamp.Equal(ts) {
			t.records[i].setDataValues(values)
			matched++
		}
	}
	if matched == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, ts.Format(timestampLayouts[0]))
	}
	return nil
}

// Export serializes the full table, derived columns included, back to
// its CSV form.
func (t *Table) Export(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cw := csv.NewWriter(w)
	if err := cw.Write(allColumns); err != nil {
		return err
	}

	row := make([]string, len(allColumns))
	for _, rec := range t.records {
		row[0] = rec.Timestamp.Format(timestampLayouts[0])
		row[1] = strconv.Itoa(rec.RideCount)
		row[2] = formatFloat(rec.Wind)
		row[3] = formatFloat(rec.Rain)
		row[4] = formatFloat(rec.Snow)
		row[5] = formatFloat(rec.HiTemp)
		row[6] = formatFloat(rec.LoTemp)
		row[7] = formatFloat(rec.AverageTemp)
		row[8] = strconv.Itoa(rec.Month)
		row[9] = strconv.Itoa(rec.Year)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the table to a CSV file at path.
func (t *Table) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Export(f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
