package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lpbridge/internal/modelfile"
	"lpbridge/internal/solver"
	"lpbridge/pkg/model"
)

func newSolveCmd() *cobra.Command {
	var (
		backend   string
		timeLimit time.Duration
		verbose   bool
		relax     bool
		warmStart bool
		logPath   string
		params    []string
	)

	cmd := &cobra.Command{
		Use:   "solve <model-file>",
		Short: "Solve a model file (yaml/json/toml) and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := modelfile.Load(args[0])
			if err != nil {
				return err
			}
			m, err := modelfile.Build(spec)
			if err != nil {
				return err
			}

			name := backend
			if name == "" {
				name = cfg.Backend
			}
			if name == "" {
				name = "gophersat"
			}

			opts := solver.DefaultOptions()
			opts.IntegerModel = !relax
			opts.Verbose = verbose || cfg.Verbose
			opts.WarmStart = warmStart
			opts.TimeLimit = timeLimit
			if opts.TimeLimit == 0 && cfg.TimeLimitSeconds > 0 {
				opts.TimeLimit = time.Duration(cfg.TimeLimitSeconds * float64(time.Second))
			}
			opts.LogPath = logPath
			if opts.LogPath == "" {
				opts.LogPath = cfg.LogPath
			}
			opts.Params = map[string]any{}
			for k, v := range cfg.Params {
				opts.Params[k] = v
			}
			for _, p := range params {
				k, v, err := parseParam(p)
				if err != nil {
					return err
				}
				opts.Params[k] = v
			}

			f, err := solver.NewFacadeFor(name, opts)
			if err != nil {
				return err
			}
			if _, err := f.Solve(m); err != nil {
				return err
			}
			printResult(cmd, m, name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&backend, "backend", "b", "", "backend to solve with (gophersat|gini|highs)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "wall-clock limit, e.g. 30s (0 = none)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "let the engine print its own log")
	cmd.Flags().BoolVar(&relax, "relax", false, "relax integer variables to continuous")
	cmd.Flags().BoolVar(&warmStart, "warm-start", false, "seed the engine with current variable values")
	cmd.Flags().StringVar(&logPath, "log-path", "", "engine log file")
	cmd.Flags().StringArrayVar(&params, "param", nil, "engine option as key=value (repeatable)")
	return cmd
}

func printResult(cmd *cobra.Command, m *model.Model, backend string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "backend: %s\n", backend)
	fmt.Fprintf(out, "status: %s\n", m.Status)
	if m.Status != model.Optimal {
		return
	}
	if !m.Objective.IsFeasibilityOnly() {
		if obj, err := m.ObjectiveValue(); err == nil {
			fmt.Fprintf(out, "objective: %g\n", obj)
		}
	}
	names := make([]string, 0, len(m.Variables()))
	for _, v := range m.Variables() {
		if !v.IsDummy() {
			names = append(names, v.Name)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		v, _ := m.Variable(n)
		if val, ok := v.Value(); ok {
			fmt.Fprintf(out, "%s = %g\n", n, val)
		}
	}
}

// parseParam splits "key=value" and guesses the value type: int, then
// float, then bool, falling back to string. Only the words true/false count
// as bools so numeric engine options keep their type.
func parseParam(s string) (string, any, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want key=value", s)
	}
	if i, err := strconv.Atoi(v); err == nil {
		return k, i, nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return k, f, nil
	}
	switch strings.ToLower(v) {
	case "true":
		return k, true, nil
	case "false":
		return k, false, nil
	}
	return k, v, nil
}
