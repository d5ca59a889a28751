package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/reserva/internal/config"
	"github.com/theirongolddev/reserva/internal/logging"
	"github.com/theirongolddev/reserva/internal/projection"
	"github.com/theirongolddev/reserva/internal/source"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// entryCmd parses args into the entry flags on a throwaway command.
func entryCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cfg = config.DefaultConfig()
	log = logging.Discard()

	c := &cobra.Command{Use: "test"}
	addEntryFlags(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return c
}

func writePlan(t *testing.T, p source.Plan) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := source.SavePlan(path, p); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	return path
}

func TestResolvePlan_FlagsOverrideFile(t *testing.T) {
	path := writePlan(t, source.Plan{
		FixedIncome:      "3000",
		VariableIncome:   "600 a 1000",
		FixedExpenses:    "1800",
		VariableExpenses: "250 a 400",
		Target:           "5000",
		MaxMonths:        12,
	})

	c := entryCmd(t, "--file", path, "--target", "9000", "--variable-income", "100-200")
	plan, err := resolvePlan(c)
	if err != nil {
		t.Fatalf("resolvePlan: %v", err)
	}
	if plan.Target != "9000" {
		t.Fatalf("Target = %q, want flag value 9000", plan.Target)
	}
	if plan.VariableIncome != "100-200" {
		t.Fatalf("VariableIncome = %q, want 100-200", plan.VariableIncome)
	}
	if plan.FixedIncome != "3000" || plan.MaxMonths != 12 {
		t.Fatalf("file values lost: %+v", plan)
	}
}

func TestResolvePlan_MonthsFlag(t *testing.T) {
	path := writePlan(t, source.Plan{Target: "1000", MaxMonths: 12})
	c := entryCmd(t, "-f", path, "-m", "6")
	plan, err := resolvePlan(c)
	if err != nil {
		t.Fatalf("resolvePlan: %v", err)
	}
	if plan.MaxMonths != 6 {
		t.Fatalf("MaxMonths = %d, want 6", plan.MaxMonths)
	}
}

func TestResolveEntries_MonthsFlagOutOfRange(t *testing.T) {
	for _, months := range []string{"-3", "1201"} {
		c := entryCmd(t,
			"--fixed-income", "2500",
			"--fixed-expenses", "2000",
			"--target", "1000",
			"--months="+months,
		)
		_, err := resolveEntries(c)
		if !errors.Is(err, projection.ErrInvalidConfiguration) {
			t.Fatalf("--months=%s: err = %v, want ErrInvalidConfiguration", months, err)
		}
	}
}

func TestResolveEntries_ZeroMonthsFlagUsesDefault(t *testing.T) {
	path := writePlan(t, source.Plan{FixedIncome: "2500", FixedExpenses: "2000", Target: "1000", MaxMonths: 12})
	c := entryCmd(t, "-f", path, "--months=0")
	cfg.General.MaxMonths = 9

	entries, err := resolveEntries(c)
	if err != nil {
		t.Fatalf("resolveEntries: %v", err)
	}
	if entries.MaxMonths != 9 {
		t.Fatalf("MaxMonths = %d, want config default 9", entries.MaxMonths)
	}
}

func TestResolvePlan_MissingFile(t *testing.T) {
	c := entryCmd(t, "--file", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := resolvePlan(c); err == nil {
		t.Fatal("expected error for missing plan file")
	}
}

func TestResolveEntries_UsesConfigMonths(t *testing.T) {
	c := entryCmd(t,
		"--fixed-income", "2500",
		"--fixed-expenses", "2000",
		"--target", "1000",
	)
	cfg.General.MaxMonths = 9

	entries, err := resolveEntries(c)
	if err != nil {
		t.Fatalf("resolveEntries: %v", err)
	}
	if entries.MaxMonths != 9 {
		t.Fatalf("MaxMonths = %d, want 9", entries.MaxMonths)
	}
	if !entries.Target.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("Target = %s, want 1000", entries.Target)
	}
}

func TestResolveEntries_ReportsEveryProblem(t *testing.T) {
	c := entryCmd(t)
	_, err := resolveEntries(c)
	for _, want := range []error{projection.ErrMissingTarget, projection.ErrNoIncome, projection.ErrNoExpense} {
		if !errors.Is(err, want) {
			t.Fatalf("error %v does not include %v", err, want)
		}
	}
}

func TestFormatRange(t *testing.T) {
	cfg = config.DefaultConfig()

	tests := []struct {
		in   string
		want string
	}{
		{"600 a 1000", "R$ 600,00 to R$ 1.000,00 (mid R$ 800,00)"},
		{"450", "R$ 450,00"},
		{"", "R$ 0,00"},
	}
	for _, tt := range tests {
		if got := formatRange(source.ParseRange(tt.in)); got != tt.want {
			t.Errorf("formatRange(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntryLines(t *testing.T) {
	cfg = config.DefaultConfig()
	plan := source.Plan{
		FixedIncome:      "2500",
		VariableIncome:   "300",
		FixedExpenses:    "1800",
		VariableExpenses: "250-400",
		Target:           "5000",
	}

	lines := entryLines(plan.Entries(18))
	if len(lines) != 6 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasSuffix(lines[1], "R$ 300,00") {
		t.Errorf("variable income line = %q", lines[1])
	}
	if !strings.Contains(lines[3], "(mid R$ 325,00)") {
		t.Errorf("variable expenses line = %q", lines[3])
	}
	if !strings.HasSuffix(lines[5], "18") {
		t.Errorf("month cap line = %q", lines[5])
	}
}

func TestSetupValuesApply(t *testing.T) {
	base := config.DefaultConfig()

	got, err := setupValues{months: " 36 ", symbol: "$", thousands: ",", decimal: ".", theme: "tokyo-night"}.apply(base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.General.MaxMonths != 36 || got.Currency.Symbol != "$" || got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("apply = %+v", got)
	}

	if _, err := (setupValues{months: "12", thousands: ".", decimal: "."}).apply(base); err == nil {
		t.Fatal("expected error when both separators are the same")
	}
}

func TestValidateMonths(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"24", true},
		{" 1 ", true},
		{"0", false},
		{"-3", false},
		{"1200", true},
		{"1201", false},
		{"100000000000", false},
		{"abc", false},
	}
	for _, tt := range tests {
		if err := validateMonths(tt.in); (err == nil) != tt.ok {
			t.Fatalf("validateMonths(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if len(got) != len(want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filterDetachArg = %v, want %v", got, want)
		}
	}
}

func TestPIDAndStateFiles(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "reservad.pid")
	if err := ensureServerNotRunning(pidFile); err != nil {
		t.Fatalf("ensureServerNotRunning without pid file: %v", err)
	}

	if err := writePID(pidFile, os.Getpid()); err != nil {
		t.Fatalf("writePID: %v", err)
	}
	pid, err := readPID(pidFile)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("readPID = %d, %v; want %d", pid, err, os.Getpid())
	}
	if err := ensureServerNotRunning(pidFile); err == nil {
		t.Fatal("expected error while the pid is alive")
	}

	st := serverRuntimeState{PID: pid, Addr: "127.0.0.1:9999"}
	if err := writeState(statePath(pidFile), st); err != nil {
		t.Fatalf("writeState: %v", err)
	}
	back, err := readState(statePath(pidFile))
	if err != nil || back.Addr != st.Addr {
		t.Fatalf("readState = %+v, %v", back, err)
	}
}

func TestReadPID_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pid")
	if err := os.WriteFile(path, []byte("zero\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Fatal("expected error for non-numeric pid")
	}
}
