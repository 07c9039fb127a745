package sim

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/hexfall/internal/session"
)

// Report summarizes a simulation run.
type Report struct {
	Strategy string
	Games    []GameResult
	Elapsed  time.Duration

	MeanScore   float64
	StdScore    float64
	MedianScore float64
	MaxScore    int
	MeanMoves   float64
	MaxCascade  int
	Reasons     map[session.EndReason]int
}

func newReport(strategy string, games []GameResult, elapsed time.Duration) *Report {
	if strategy == "" {
		strategy = "greedy"
	}
	r := &Report{
		Strategy: strategy,
		Games:    games,
		Elapsed:  elapsed,
		Reasons:  make(map[session.EndReason]int),
	}

	scores := make([]float64, len(games))
	moves := make([]float64, len(games))
	for i, g := range games {
		scores[i] = float64(g.Score)
		moves[i] = float64(g.Moves)
		r.MaxScore = max(r.MaxScore, g.Score)
		r.MaxCascade = max(r.MaxCascade, g.MaxCascade)
		r.Reasons[g.Reason]++
	}

	r.MeanScore, r.StdScore = stat.MeanStdDev(scores, nil)
	if len(scores) < 2 {
		r.StdScore = 0
	}
	r.MeanMoves = stat.Mean(moves, nil)

	sorted := slices.Clone(scores)
	slices.Sort(sorted)
	r.MedianScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return r
}

// Format writes the report as a boxed key/value table.
func (r *Report) Format(w io.Writer) error {
	p := message.NewPrinter(language.English)

	reasons := make([]string, 0, len(r.Reasons))
	for reason, n := range r.Reasons {
		reasons = append(reasons, p.Sprintf("%s %d", reason, n))
	}
	slices.Sort(reasons)

	keys := []string{"Strategy", "Games", "Mean score", "Std dev", "Median score", "Best score", "Mean moves", "Longest cascade", "Endings", "Elapsed"}
	vals := map[string]string{
		"Strategy":        r.Strategy,
		"Games":           p.Sprintf("%d", len(r.Games)),
		"Mean score":      p.Sprintf("%.1f", r.MeanScore),
		"Std dev":         p.Sprintf("%.1f", r.StdScore),
		"Median score":    p.Sprintf("%.0f", r.MedianScore),
		"Best score":      p.Sprintf("%d", r.MaxScore),
		"Mean moves":      p.Sprintf("%.1f", r.MeanMoves),
		"Longest cascade": p.Sprintf("%d", r.MaxCascade),
		"Endings":         strings.Join(reasons, ", "),
		"Elapsed":         r.Elapsed.Round(time.Millisecond).String(),
	}

	_, err := io.WriteString(w, formatTable("hexfall simulation", keys, vals))
	return err
}

func formatTable(title string, keys []string, vals map[string]string) string {
	keyW, valW := 0, runewidth.StringWidth(title)
	for _, k := range keys {
		keyW = max(keyW, runewidth.StringWidth(k))
		valW = max(valW, runewidth.StringWidth(vals[k]))
	}
	keyW += 2
	valW += 2

	var sb strings.Builder
	top := "+" + strings.Repeat("-", keyW+1+valW) + "+\n"
	divider := "+" + strings.Repeat("-", keyW) + "+" + strings.Repeat("-", valW) + "+\n"

	inner := keyW + 1 + valW
	left := (inner - runewidth.StringWidth(title)) / 2
	sb.WriteString(top)
	sb.WriteString("|" + pad("", left) + runewidth.FillRight(title, inner-left) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		fmt.Fprintf(&sb, "| %s | %s |\n", runewidth.FillRight(k, keyW-2), runewidth.FillRight(vals[k], valW-2))
	}
	sb.WriteString(divider)
	return sb.String()
}

func pad(s string, w int) string {
	if w < 1 {
		return s
	}
	return s + strings.Repeat(" ", w)
}
