// stylecheck validates a generated exam payload and shows how each text
// field would be styled.
//
// Usage:
//
//	stylecheck [-merge] [-json] [file]
//	cat response.json | stylecheck
//
// It exits 1 when the payload cannot be decoded or has structural errors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

var (
	merge   = flag.Bool("merge", false, "merge overlapping ranges before compiling")
	asJSON  = flag.Bool("json", false, "print the compiled session and report as JSON")
	verbose = flag.Bool("v", false, "log rejected ranges to stderr")
)

func main() {
	flag.Parse()
	ok, err := run(flag.Args(), os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stylecheck: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, out io.Writer) (bool, error) {
	var data []byte
	var err error
	switch len(args) {
	case 0:
		data, err = io.ReadAll(stdin)
	case 1:
		data, err = os.ReadFile(args[0])
	default:
		return false, fmt.Errorf("expected at most one file, got %d", len(args))
	}
	if err != nil {
		return false, err
	}

	raw, err := content.Decode(data)
	if err != nil {
		return false, err
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelWarn
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	b := content.NewBuilder(content.BuildConfig{MergeOverlaps: *merge}, log, nil)

	sess, rep, err := b.Build(context.Background(), raw)
	if err != nil {
		return false, err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return rep.Valid, enc.Encode(map[string]any{"session": sess, "report": rep})
	}
	printReport(out, sess, rep)
	return rep.Valid, nil
}

type fieldView struct {
	path string
	text string
	segs []styling.TextSegment
}

// fields lists the session's text fields under the same paths the builder
// reports them.
func fields(sess *content.Session) map[string]fieldView {
	views := make(map[string]fieldView)
	add := func(path, text string, segs []styling.TextSegment) {
		views[path] = fieldView{path: path, text: text, segs: segs}
	}
	for i, p := range sess.Passage.Paragraphs {
		add(fmt.Sprintf("passage.paragraphs[%d]", i), p.Text, p.Segments)
	}
	for i, p := range sess.Problems {
		prefix := fmt.Sprintf("problems[%d]", i)
		add(prefix+".question", p.QuestionText, p.QuestionSegments)
		if p.Premise != nil {
			add(prefix+".premise", p.Premise.Text, p.Premise.Segments)
		}
		for j, o := range p.Options {
			add(fmt.Sprintf("%s.options[%d]", prefix, j), o.Text, o.Segments)
		}
	}
	return views
}

func printReport(out io.Writer, sess *content.Session, rep content.Report) {
	status := "ok"
	if !rep.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(out, "payload: %s (%d paragraphs, %d problems, %d unstyled fields)\n",
		status, len(sess.Passage.Paragraphs), len(sess.Problems), rep.UnstyledCount())
	for _, e := range rep.Errors {
		fmt.Fprintf(out, "  error: %s\n", e)
	}
	for _, w := range rep.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}

	views := fields(sess)
	for _, fr := range rep.Fields {
		v := views[fr.Path]
		mark := "ok"
		if fr.Unstyled {
			mark = "unstyled"
		}
		fmt.Fprintf(out, "\n%s [%s]\n", fr.Path, mark)

		ranges := styling.RangesFromSegments(v.segs)
		if len(ranges) > 0 {
			fmt.Fprintf(out, "  %s\n", styling.Visualize(v.text, ranges))
			fmt.Fprintf(out, "  %s\n", v.text)
			fmt.Fprintf(out, "  %s\n", ruler(v.text, ranges))
		}
		for _, e := range fr.Errors {
			fmt.Fprintf(out, "  error: %s\n", e)
		}
		for _, w := range fr.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}
}

// ruler draws carets under the styled runes of text, aligned to terminal
// columns so wide characters get two carets.
func ruler(text string, ranges []styling.StyleRange) string {
	runes := []rune(text)
	styled := make([]bool, len(runes))
	for _, r := range ranges {
		for i := max(r.Start, 0); i < min(r.End, len(runes)); i++ {
			styled[i] = true
		}
	}

	var sb strings.Builder
	for i, c := range runes {
		w := runewidth.RuneWidth(c)
		mark := " "
		if styled[i] {
			mark = "^"
		}
		sb.WriteString(strings.Repeat(mark, w))
	}
	return strings.TrimRight(sb.String(), " ")
}
