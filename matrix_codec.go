package fpsim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// LabelMode selects which axes of a delimiter-separated matrix file carry
// labels. The four values cover every parsing configuration exhaustively.
type LabelMode int

const (
	// LabelNone means the file holds values only
	LabelNone LabelMode = iota
	// LabelRows means the first cell of every line is a row label
	LabelRows
	// LabelCols means the first line holds the column labels
	LabelCols
	// LabelBoth means both a header line and a leading label column are present
	LabelBoth
)

// String returns a human-readable name for the label mode
func (m LabelMode) String() string {
	switch m {
	case LabelNone:
		return "none"
	case LabelRows:
		return "rows"
	case LabelCols:
		return "cols"
	case LabelBoth:
		return "both"
	}
	return fmt.Sprintf("LabelMode(%d)", int(m))
}

func (m LabelMode) hasRowLabels() bool { return m == LabelRows || m == LabelBoth }

func (m LabelMode) hasColLabels() bool { return m == LabelCols || m == LabelBoth }

// CellDecoder converts one raw cell into a value of the matrix element type
type CellDecoder[T any] func(cell string) (T, error)

// CellEncoder renders one matrix value back into its cell text
type CellEncoder[T any] func(value T) string

var errInvalidBit = errors.New("value is not a 0/1 bit")

// DecodeBit parses a fingerprint cell. Only the literal characters "0" and
// "1" are accepted; tolerant spellings such as "true" are not, since
// fingerprint files are defined as 0/1 text.
func DecodeBit(cell string) (bool, error) {
	switch cell {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, errInvalidBit
}

// EncodeBit renders a fingerprint cell as its literal 0/1 character
func EncodeBit(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// DecodeScore parses a similarity score cell
func DecodeScore(cell string) (float64, error) {
	return cast.ToFloat64E(cell)
}

// EncodeScore renders a score with the shortest representation that survives
// a round trip through DecodeScore
func EncodeScore(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// matrixCodec implements the MatrixCodec interface
type matrixCodec[T any] struct {
	delimiter string
	mode      LabelMode
	decode    CellDecoder[T]
	encode    CellEncoder[T]
	logger    Logger
}

// NewMatrixCodec creates a MatrixCodec for an arbitrary element type
func NewMatrixCodec[T any](
	delimiter string,
	mode LabelMode,
	decode CellDecoder[T],
	encode CellEncoder[T],
	logger Logger,
) MatrixCodec[T] {
	return &matrixCodec[T]{
		delimiter: delimiter,
		mode:      mode,
		decode:    decode,
		encode:    encode,
		logger:    logger,
	}
}

// NewBitMatrixCodec creates a codec for 0/1 fingerprint files
func NewBitMatrixCodec(delimiter string, mode LabelMode, logger Logger) MatrixCodec[bool] {
	return NewMatrixCodec(delimiter, mode, DecodeBit, EncodeBit, logger)
}

// NewScoreMatrixCodec creates a codec for real-valued score files
func NewScoreMatrixCodec(delimiter string, mode LabelMode, logger Logger) MatrixCodec[float64] {
	return NewMatrixCodec(delimiter, mode, DecodeScore, EncodeScore, logger)
}

// ParseFile parses a matrix from a file path
func (c *matrixCodec[T]) ParseFile(path string) (*Matrix[T], error) {
	c.logger.Infof("Loading matrix file, path: %s, label_mode: %s", path, c.mode)

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMatrixFileNotFound, path)
	}

	// Open file
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix file %s: %w", path, err)
	}
	defer file.Close()

	matrix, err := c.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return matrix, nil
}

// Parse reads delimiter-separated lines into a canonical Matrix
func (c *matrixCodec[T]) Parse(reader io.Reader) (*Matrix[T], error) {
	scanner := bufio.NewScanner(reader)

	// Wide fingerprint rows easily exceed the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines [][]string
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		// Skip empty lines
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, strings.Split(line, c.delimiter))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading matrix: %w", err)
	}

	return c.assemble(lines)
}

// assemble slices off the label row/column per the codec's LabelMode,
// converts the remaining cells and returns the canonical matrix
func (c *matrixCodec[T]) assemble(lines [][]string) (*Matrix[T], error) {
	if len(lines) == 0 {
		return nil, ErrEmptyMatrix
	}

	var colLabels []string
	if c.mode.hasColLabels() {
		header := lines[0]
		lines = lines[1:]
		if c.mode.hasRowLabels() && len(header) > 0 {
			// Drop the corner cell above the row-label column.
			header = header[1:]
		}
		colLabels = header
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: header without data rows", ErrEmptyMatrix)
	}

	rowLabels := make([]string, 0, len(lines))
	values := make([][]T, 0, len(lines))
	width := -1

	for i, fields := range lines {
		if c.mode.hasRowLabels() {
			rowLabels = append(rowLabels, fields[0])
			fields = fields[1:]
		}

		if width < 0 {
			width = len(fields)
			if width == 0 {
				return nil, fmt.Errorf("%w: first row has no data cells", ErrEmptyMatrix)
			}
		} else if len(fields) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedMatrix, i+1, len(fields), width)
		}

		row := make([]T, width)
		for j, cell := range fields {
			value, err := c.decode(cell)
			if err != nil {
				return nil, &ParseError{Row: i + 1, Col: j + 1, Cell: cell, Err: err}
			}
			row[j] = value
		}
		values = append(values, row)
	}

	// Synthesize 1-based placeholder labels for unlabeled axes
	if !c.mode.hasRowLabels() {
		rowLabels = placeholderLabels("R#", len(values))
	}
	if !c.mode.hasColLabels() {
		colLabels = placeholderLabels("C#", width)
	}

	matrix, err := NewMatrix(values, rowLabels, colLabels)
	if err != nil {
		return nil, err
	}

	c.logger.Debugf("Matrix parsed, rows: %d, cols: %d, label_mode: %s",
		matrix.Rows(), matrix.Cols(), c.mode)

	return matrix, nil
}

// Write serializes a matrix, emitting only the axes the codec's LabelMode covers
func (c *matrixCodec[T]) Write(writer io.Writer, m *Matrix[T]) error {
	buffered := bufio.NewWriter(writer)

	if c.mode.hasColLabels() {
		fields := m.ColLabels()
		if c.mode.hasRowLabels() {
			// Blank corner cell above the row-label column.
			fields = append([]string{""}, fields...)
		}
		if _, err := buffered.WriteString(strings.Join(fields, c.delimiter) + "\n"); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	rowLabels := m.RowLabels()
	for i := 0; i < m.Rows(); i++ {
		row := m.Row(i)
		fields := make([]string, 0, len(row)+1)
		if c.mode.hasRowLabels() {
			fields = append(fields, rowLabels[i])
		}
		for _, value := range row {
			fields = append(fields, c.encode(value))
		}
		if _, err := buffered.WriteString(strings.Join(fields, c.delimiter) + "\n"); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return buffered.Flush()
}

// WriteFile serializes a matrix to a file path
func (c *matrixCodec[T]) WriteFile(path string, m *Matrix[T]) error {
	c.logger.Infof("Writing matrix file, path: %s, rows: %d, cols: %d", path, m.Rows(), m.Cols())

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create matrix file %s: %w", path, err)
	}

	if err := c.Write(file, m); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// placeholderLabels synthesizes 1-based axis labels such as R#1..R#n
func placeholderLabels(prefix string, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = prefix + strconv.Itoa(i+1)
	}
	return labels
}
