package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"skinsight/internal/diagnosis"
	"skinsight/internal/session"
)

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

func renderAnalysis(out io.Writer, snapshot session.Session) {
	analysis := snapshot.Analysis
	if analysis == nil {
		fmt.Fprintln(out, "Keine Analyse vorhanden.")
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, heading(out, fmt.Sprintf("Dein Haut-Score: %d/100 (%s)", analysis.OverallScore, analysis.SkinType)))
	if analysis.Summary != "" {
		fmt.Fprintln(out, analysis.Summary)
	}

	fmt.Fprintln(out, renderScoreTable(analysis))
	fmt.Fprintln(out, heading(out, "Morgenroutine"))
	fmt.Fprintln(out, renderRoutineTable(analysis.MorningRoutine))
	fmt.Fprintln(out, heading(out, "Abendroutine"))
	fmt.Fprintln(out, renderRoutineTable(analysis.EveningRoutine))

	if len(analysis.Tips) > 0 {
		fmt.Fprintln(out, heading(out, "Tipps"))
		for _, tip := range analysis.Tips {
			fmt.Fprintf(out, "  - %s\n", tip)
		}
	}
	if snapshot.Settings.Points > 0 {
		fmt.Fprintf(out, "\nPunkte: %d, Streak: %d Tage\n", snapshot.Settings.Points, snapshot.Settings.Streak)
	}
}

func renderScoreTable(analysis *diagnosis.Analysis) string {
	rows := [][]string{
		{"Hydration", strconv.Itoa(analysis.Hydration)},
		{"Textur", strconv.Itoa(analysis.Texture)},
		{"Reinheit", strconv.Itoa(analysis.Purity)},
		{"Anti-Aging", strconv.Itoa(analysis.AntiAging)},
	}
	return renderTable([]string{"Wert", "Score"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderRoutineTable(routine []diagnosis.RoutineStep) string {
	if len(routine) == 0 {
		return "  (keine Schritte)"
	}
	rows := make([][]string, 0, len(routine))
	for i, step := range routine {
		product := step.Product
		if step.UserAdded {
			product += " *"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), product, step.Action, step.Reason})
	}
	return renderTable([]string{"#", "Produkt", "Anwendung", "Warum"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft})
}

func renderProduct(out io.Writer, product *diagnosis.ScannedProduct) {
	if product == nil {
		fmt.Fprintln(out, "Kein Produkt erkannt.")
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, heading(out, fmt.Sprintf("%s — %d/10", product.Name, product.Rating)))
	if product.Description != "" {
		fmt.Fprintln(out, product.Description)
	}
	if product.Suitability != "" {
		fmt.Fprintf(out, "Eignung: %s\n", product.Suitability)
	}
	if product.PersonalReason != "" {
		fmt.Fprintf(out, "Für dich: %s\n", product.PersonalReason)
	}
	if len(product.Ingredients) > 0 {
		fmt.Fprintf(out, "Inhaltsstoffe: %s\n", strings.Join(product.Ingredients, ", "))
	}
}

func renderProgressTable(history []diagnosis.DailyProgress) string {
	rows := make([][]string, 0, len(history))
	for _, entry := range history {
		rows = append(rows, []string{
			entry.Date,
			strconv.Itoa(entry.Score),
			strconv.Itoa(entry.Stress),
			strconv.Itoa(entry.SkinFeeling),
		})
	}
	return renderTable([]string{"Datum", "Score", "Stress", "Hautgefühl"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight})
}

func heading(out io.Writer, line string) string {
	if shouldColorize(out) {
		return ansiBold + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
