package usgs

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/usgs-station-index/internal/domain"
)

const maxRDBLine = 1 << 20

// ParseRDB reads a USGS RDB document: "#" comment lines and blank lines are
// ignored, the first remaining line names the tab-separated columns, and
// every later line is a row. Rows whose column count differs from the header
// are dropped. Invalid UTF-8 is replaced with U+FFFD.
//
// The column-width line that follows the header ("5s\t15s...") is returned as
// an ordinary row; it never survives record validation.
func ParseRDB(r io.Reader) ([]string, []domain.RawStationRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRDBLine)

	var header []string
	var rows []domain.RawStationRow
	for sc.Scan() {
		line := strings.ToValidUTF8(strings.TrimRight(sc.Text(), "\r"), "\uFFFD")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			continue
		}
		if len(fields) != len(header) {
			continue
		}
		row := make(domain.RawStationRow, len(header))
		for i, col := range header {
			row[col] = fields[i]
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan rdb: %w", err)
	}
	return header, rows, nil
}
