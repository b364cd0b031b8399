package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	service "github.com/okian/mindset-tracker/internal/app"
)

// Column order used when the file has no header row.
var defaultColumns = []string{"email", "name", "vbu", "track", "aimaturitylevel"} //nolint:gochecknoglobals // fixed layout

// ReadCSV parses roster rows. A header row is recognised when its first
// cell is "email"; its columns may then appear in any order. Every row
// needs an email and a name. An empty aiMaturityLevel cell leaves the
// level unset.
func ReadCSV(r io.Reader) ([]service.ParticipantInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		cols []string
		out  []service.ParticipantInput
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if cols == nil {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")), "email") {
				cols = header(rec)
				continue
			}
			cols = defaultColumns
		}
		in, err := toInput(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func header(rec []string) []string {
	cols := make([]string, len(rec))
	for i, c := range rec {
		cols[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))
	}
	return cols
}

func toInput(cols, rec []string) (service.ParticipantInput, error) {
	var in service.ParticipantInput
	for i, v := range rec {
		if i >= len(cols) {
			break
		}
		v = strings.TrimSpace(v)
		switch cols[i] {
		case "email":
			in.Email = v
		case "name":
			in.Name = v
		case "vbu":
			in.VBU = v
		case "track":
			in.Track = v
		case "aimaturitylevel", "ailevel":
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return in, fmt.Errorf("aiMaturityLevel %q is not an integer", v)
			}
			in.AIMaturityLevel = &n
		}
	}
	if in.Email == "" || in.Name == "" {
		return in, errors.New("email and name required")
	}
	return in, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
