package application

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"holostream/internal/metrics/domain"
	"holostream/pkg/utils"
)

// ContentType is the media type of the text exposition format.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

var (
	helpEscaper  = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	labelEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)
)

// WriteExposition serializes metrics in the text exposition format. Series
// sharing a name are written together under a single HELP and TYPE header,
// families in order of first appearance; labels are written sorted by key.
func WriteExposition(w io.Writer, metrics []domain.Metric) error {
	bw := bufio.NewWriter(w)
	for _, family := range groupFamilies(metrics) {
		head := family[0]
		help := head.Help
		for _, m := range family {
			if help != "" {
				break
			}
			help = m.Help
		}

		if help != "" {
			bw.WriteString("# HELP ")
			bw.WriteString(head.Name)
			bw.WriteByte(' ')
			bw.WriteString(helpEscaper.Replace(help))
			bw.WriteByte('\n')
		}
		if head.Kind != "" {
			bw.WriteString("# TYPE ")
			bw.WriteString(head.Name)
			bw.WriteByte(' ')
			bw.WriteString(string(head.Kind))
			bw.WriteByte('\n')
		}
		for _, m := range family {
			writeSample(bw, m)
		}
	}
	return bw.Flush()
}

func writeSample(bw *bufio.Writer, m domain.Metric) {
	bw.WriteString(m.Name)
	if len(m.Labels) > 0 {
		bw.WriteByte('{')
		for i, k := range utils.SortedKeys(m.Labels) {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(k)
			bw.WriteString(`="`)
			bw.WriteString(labelEscaper.Replace(m.Labels[k]))
			bw.WriteByte('"')
		}
		bw.WriteByte('}')
	}
	bw.WriteByte(' ')
	bw.WriteString(FormatValue(m.Value))
	bw.WriteByte('\n')
}

func groupFamilies(metrics []domain.Metric) [][]domain.Metric {
	index := make(map[string]int)
	var families [][]domain.Metric
	for _, m := range metrics {
		i, ok := index[m.Name]
		if !ok {
			i = len(families)
			index[m.Name] = i
			families = append(families, nil)
		}
		families[i] = append(families[i], m)
	}
	return families
}

// FormatExposition renders metrics into a standalone document.
func FormatExposition(metrics []domain.Metric) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteExposition(&buf, metrics); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatValue renders a sample value. Values in [1e-6, 1e21) are written in
// plain decimal notation, everything else in exponent notation.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	if abs := math.Abs(v); v != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
