// Command ultrascript-scopes runs the lexical scope analysis over a
// JSON-encoded AST and prints the resulting per-scope layout report.
// It is a developer tool for inspecting what the code generator will
// see; it performs no code generation itself.
//
// Usage:
//
//	ultrascript-scopes [flags] [ast.json]
//
// With no file argument the AST is read from stdin.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ultrascript/pkg/analysis"
	"ultrascript/pkg/ast"
	"ultrascript/pkg/errors"
	"ultrascript/pkg/layout"
)

type options struct {
	jsonOut       bool
	verbose       bool
	fastRegisters int
	heapThreshold int
}

func main() {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ultrascript-scopes [ast.json]",
		Short: "Inspect UltraScript lexical scope layouts",
		Long: "Runs closure/escape analysis, frame packing and scope-register\n" +
			"allocation over a JSON-encoded AST and reports the per-scope tables.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit machine-readable JSON instead of the report")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every escape event")
	cmd.Flags().IntVar(&opts.fastRegisters, "fast-registers", 3, "size of the scope-address register pool")
	cmd.Flags().IntVar(&opts.heapThreshold, "heap-threshold", 1024, "frame size in bytes that forces heap allocation")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	arena := ast.NewArena()
	prog, err := ast.DecodeJSON(in, arena)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := layout.DefaultConfig()
	cfg.FastRegisters = opts.fastRegisters
	cfg.HeapThreshold = opts.heapThreshold

	a := analysis.NewWithConfig(cfg, log)
	if err := a.Run(prog); err != nil {
		return err
	}

	errors.DisplayErrors(a.Diagnostics())

	if opts.jsonOut {
		return writeJSON(os.Stdout, a)
	}
	writeReport(os.Stdout, a)
	return nil
}

func writeReport(w io.Writer, a *analysis.Analysis) {
	heading := color.New(color.FgCyan, color.Bold)
	heapTag := color.New(color.FgYellow)
	stackTag := color.New(color.FgGreen)

	for _, s := range a.Scopes() {
		heading.Fprintf(w, "== %s (depth %d)\n", s.Name, s.Depth)
		if s.HeapAllocated {
			heapTag.Fprintf(w, "   heap frame, %d bytes\n", s.FrameSize)
		} else {
			stackTag.Fprintf(w, "   stack frame, %d bytes\n", s.FrameSize)
		}
		fmt.Fprint(w, indent(a.DebugDump(s)))
		fmt.Fprintln(w)
	}
}

func indent(s string) string {
	out := ""
	for _, line := range splitLines(s) {
		out += "   " + line + "\n"
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// jsonScope is the machine-readable projection of one scope's tables.
type jsonScope struct {
	Name      string            `json:"name"`
	Depth     int               `json:"depth"`
	FrameSize int               `json:"frameSize"`
	Heap      bool              `json:"heap"`
	Variables []jsonVariable    `json:"variables"`
	Registers map[string]string `json:"registers,omitempty"`
}

type jsonVariable struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Offset  int    `json:"offset"`
	Size    int    `json:"size"`
	Escapes bool   `json:"escapes"`
	Reads   int    `json:"reads"`
}

func writeJSON(w io.Writer, a *analysis.Analysis) error {
	var out []jsonScope
	for _, s := range a.Scopes() {
		js := jsonScope{
			Name:      s.Name,
			Depth:     s.Depth,
			FrameSize: s.FrameSize,
			Heap:      s.HeapAllocated,
			Variables: []jsonVariable{},
		}
		for _, vi := range s.Variables() {
			js.Variables = append(js.Variables, jsonVariable{
				Name:    vi.Name,
				Type:    vi.Type.String(),
				Offset:  vi.Offset,
				Size:    vi.Size,
				Escapes: vi.Escapes,
				Reads:   vi.AccessCount,
			})
		}
		if len(s.PriorityDepths) > 0 {
			js.Registers = make(map[string]string, len(s.PriorityDepths))
			for _, load := range a.ProloguePlan(s) {
				js.Registers[fmt.Sprintf("%d", load.Depth)] = load.Location.String()
			}
		}
		out = append(out, js)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
