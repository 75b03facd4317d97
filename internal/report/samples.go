package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const sampleSep = " ,"

// WriteSamples writes samples as a bracketed list, e.g. [12345.000000 ,67890.000000].
func WriteSamples(w io.Writer, samples []float64) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte('[')
	for i, v := range samples {
		if i > 0 {
			bw.WriteString(sampleSep)
		}
		bw.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	}
	bw.WriteByte(']')
	return bw.Flush()
}

// WriteSamplesFile overwrites path with the bracketed sample list.
func WriteSamplesFile(path string, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := WriteSamples(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ParseSamples reads a list produced by WriteSamples.
func ParseSamples(r io.Reader) ([]float64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("sample list must be enclosed in brackets")
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return []float64{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadSamplesFile parses the sample list stored at path.
func ReadSamplesFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSamples(f)
}
