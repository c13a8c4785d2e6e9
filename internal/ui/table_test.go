package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	value := strings.Repeat("b", tableCellMaxWidth+10)

	got := TruncateTableCell(value)

	if displayWidth(got) != tableCellMaxWidth {
		t.Fatalf("expected width %d, got %d (%q)", tableCellMaxWidth, displayWidth(got), got)
	}
	if !strings.HasSuffix(got, tableCellEllipsis) {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	builder := NewTableBuilder([]string{"ID", "TITLE", "DUE"}, 2)
	builder.AddRow([]string{"abc", "Buy milk", "2024-05-01"})
	builder.AddRow([]string{"d", "Call the plumber", ""})

	if builder.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", builder.Len())
	}

	expected := "" +
		"ID   TITLE             DUE\n" +
		"abc  Buy milk          2024-05-01\n" +
		"d    Call the plumber  \n"
	if got := builder.String(); got != expected {
		t.Fatalf("unexpected table:\n%q\nwant:\n%q", got, expected)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	headers := []string{"COL"}
	rows := [][]string{{"Hello\nWorld\r\nAgain\tTab"}}

	got := FormatTable(headers, rows)

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}
