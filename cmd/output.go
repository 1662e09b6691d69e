package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/gsp-sim/gsp/sim"
	"github.com/gsp-sim/gsp/sim/network"
	"github.com/gsp-sim/gsp/sim/trace"
)

// writeHeader writes "time<TAB>name0<TAB>name1...".
func writeHeader(w io.Writer, names []string) {
	fmt.Fprintf(w, "time\t%s\n", strings.Join(names, "\t"))
}

// writeRow writes one trajectory row matching writeHeader's columns.
func writeRow(w io.Writer, rec trace.StepRecord) {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(rec.Time, 'g', -1, 64))
	for _, n := range rec.Species {
		b.WriteByte('\t')
		b.WriteString(strconv.FormatInt(n, 10))
	}
	b.WriteByte('\n')
	_, _ = io.WriteString(w, b.String())
}

// printSummary prints aggregate trajectory statistics.
func printSummary(w io.Writer, spec *network.NetworkSpec, traj *trace.Trajectory) {
	s := trace.Summarize(traj)
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Reaction Events      : %s\n", humanize.Comma(int64(s.Steps)))
	fmt.Fprintf(w, "Final Time           : %.6g\n", s.FinalTime)
	if s.Steps > 0 {
		fmt.Fprintf(w, "Mean Waiting Time    : %.6g (sd %.6g)\n", s.MeanWaitingTime, s.StdWaitingTime)
	}
	fmt.Fprintln(w, "--- Species (final / max / time-weighted mean) ---")
	for i, name := range traj.SpeciesNames {
		fmt.Fprintf(w, "%-20s : %d / %d / %.4g\n", name, s.FinalCounts[i], s.MaxCounts[i], s.TimeWeightedMean[i])
	}
	fmt.Fprintln(w, "--- Reaction firings ---")
	for i, r := range spec.Reactions {
		fmt.Fprintf(w, "%3d %-20s : %s\n", i, r.Kind, humanize.Comma(int64(s.FiringCounts[i])))
	}
}

// describeNetwork lists species and reactions of a built network.
func describeNetwork(w io.Writer, spec *network.NetworkSpec, s *sim.Simulation) {
	st := s.State()
	fmt.Fprintf(w, "network %q: %d species, %d reactions\n", spec.Name, st.Len(), s.NumReactions())
	for i, name := range spec.SpeciesNames() {
		fmt.Fprintf(w, "  species %3d %-20s initial=%d\n", i, name, st.Count(i))
	}
	for i, r := range s.Reactions() {
		fmt.Fprintf(w, "  reaction %3d %s\n", i, sim.Describe(r))
	}
}
