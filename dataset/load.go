package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/recsys-go/memrec/pkg/errors"
	"github.com/recsys-go/memrec/pkg/log"
)

// The Last.fm dumps are tab-separated with no quoting discipline, so the
// reader runs with lazy quotes and a variable field count and the row
// parsers do the validation.
func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// LoadPlays reads a user–artist play-count table from a tab-separated
// file with columns: user ID, artist ID, artist name, play count.
// Malformed rows are skipped and reported once through a
// DataQualityWarning; an optional header row is ignored.
func LoadPlays(path string) (PlayTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadPlays: opening %s", path)
	}
	defer f.Close()

	return ReadPlays(f, path)
}

// ReadPlays reads a play table from r. The source name is used only for
// warnings and logging.
func ReadPlays(r io.Reader, source string) (PlayTable, error) {
	logger := log.GetLoggerWithName("dataset")

	cr := newTSVReader(r)
	var (
		table   PlayTable
		skipped int
		first   = true
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "ReadPlays: reading %s", source)
		}

		e, ok := parsePlayRow(row)
		if !ok {
			// A header row is expected to fail the play-count parse;
			// only rows after the first count as data-quality issues.
			if !first {
				skipped++
			}
			first = false
			continue
		}
		first = false
		table = append(table, e)
	}

	if skipped > 0 {
		errors.Warn(errors.NewDataQualityWarning(source, skipped, "wrong field count or unparsable play count"))
	}
	if len(table) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "ReadPlays: %s", source)
	}

	logger.Info("play table loaded",
		log.SourceKey, source,
		log.RowsKey, len(table),
		log.SkippedRowsKey, skipped,
	)
	return table, nil
}

func parsePlayRow(row []string) (PlayEvent, bool) {
	if len(row) < 4 {
		return PlayEvent{}, false
	}
	user := strings.TrimSpace(row[0])
	artistID := strings.TrimSpace(row[1])
	name := strings.TrimSpace(row[2])
	plays, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil || user == "" || name == "" || plays < 0 {
		return PlayEvent{}, false
	}
	return PlayEvent{
		UserID:     user,
		ArtistID:   artistID,
		ArtistName: name,
		Plays:      plays,
	}, true
}

// LoadProfiles reads a user-profile table from a tab-separated file
// with columns: user ID, gender, age, country, signup date. Age may be
// empty (stored as -1). Malformed rows are skipped and reported through
// a DataQualityWarning; an optional header row is ignored.
func LoadProfiles(path string) (ProfileTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "LoadProfiles: opening %s", path)
	}
	defer f.Close()

	return ReadProfiles(f, path)
}

// ReadProfiles reads a profile table from r. The source name is used
// only for warnings and logging.
func ReadProfiles(r io.Reader, source string) (ProfileTable, error) {
	logger := log.GetLoggerWithName("dataset")

	cr := newTSVReader(r)
	var (
		table   ProfileTable
		skipped int
		first   = true
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "ReadProfiles: reading %s", source)
		}

		if first && isProfileHeader(row) {
			first = false
			continue
		}
		first = false

		p, ok := parseProfileRow(row)
		if !ok {
			skipped++
			continue
		}
		table = append(table, p)
	}

	if skipped > 0 {
		errors.Warn(errors.NewDataQualityWarning(source, skipped, "wrong field count or empty user ID"))
	}
	if len(table) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "ReadProfiles: %s", source)
	}

	logger.Info("profile table loaded",
		log.SourceKey, source,
		log.RowsKey, len(table),
		log.SkippedRowsKey, skipped,
	)
	return table, nil
}

func isProfileHeader(row []string) bool {
	for _, field := range row {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "gender", "country", "age":
			return true
		}
	}
	return false
}

func parseProfileRow(row []string) (Profile, bool) {
	if len(row) < 2 {
		return Profile{}, false
	}
	user := strings.TrimSpace(row[0])
	if user == "" {
		return Profile{}, false
	}

	p := Profile{UserID: user, Age: -1}
	p.Gender = strings.TrimSpace(row[1])
	if len(row) > 2 {
		if age, err := strconv.Atoi(strings.TrimSpace(row[2])); err == nil {
			p.Age = age
		}
	}
	if len(row) > 3 {
		p.Country = strings.TrimSpace(row[3])
	}
	if len(row) > 4 {
		p.Registered = strings.TrimSpace(row[4])
	}
	return p, true
}
