package utils

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/prometheus/common/model"
)

const LabelSeparator = "|"

var (
	EmptyNameError        = errors.New("'name' is required")
	InvalidNameError      = errors.New("name must match " + model.MetricNameRE.String())
	InvalidLabelNameError = errors.New("label name must match " + model.LabelNameRE.String())
)

// Exposition tokens are checked against the legacy character set so the
// result does not depend on model.NameValidationScheme.
var labelNameRE = regexp.MustCompile(model.LabelNameRE.String())

// CheckName reports whether name can be written as a metric name in the
// text exposition format.
func CheckName(name string) error {
	if len(name) == 0 {
		return EmptyNameError
	}
	if !model.MetricNameRE.MatchString(name) {
		return fmt.Errorf("%q: %w", name, InvalidNameError)
	}

	return nil
}

// CheckLabelName reports whether key can be written as a label name.
func CheckLabelName(key string) error {
	if !labelNameRE.MatchString(key) {
		return fmt.Errorf("%q: %w", key, InvalidLabelNameError)
	}
	return nil
}

// CheckLabels runs CheckLabelName over every key, in sorted order.
func CheckLabels(labels map[string]string) error {
	for _, k := range SortedKeys(labels) {
		if err := CheckLabelName(k); err != nil {
			return err
		}
	}
	return nil
}

func formatKV(w io.Writer, key string, value string) (int, error) {
	return fmt.Fprintf(w, "%q=%q", key, value)
}

func printSep(w io.Writer) (int, error) {
	return fmt.Fprintf(w, "%s", LabelSeparator)
}

// SortedKeys returns the label keys in ascending order.
func SortedKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CanonicalLabels renders a label set as sorted "key"="value" pairs so that
// two maps with the same content always produce the same string. Both sides
// are quoted, so no key can reproduce a separator.
func CanonicalLabels(labels map[string]string) string {
	var b strings.Builder
	for i, k := range SortedKeys(labels) {
		if i > 0 {
			printSep(&b)
		}
		formatKV(&b, k, labels[k])
	}

	return b.String()
}

// CloneLabels returns an independent copy of labels. Empty input yields nil.
func CloneLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}
