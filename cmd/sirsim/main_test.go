package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunClosedPreset(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "traj.txt")

	code, stdout, stderr := run(t, "run", "--preset", "closed", "--no-store", "--out", out)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "entries=61") {
		t.Errorf("run log missing entry count:\n%s", stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 61 {
		t.Errorf("expected 61 lines, got %d", len(lines))
	}
	if lines[1] != "0.500000, 0.733125, 0.151875, 0.115000" {
		t.Errorf("unexpected second line %q", lines[1])
	}

	for _, want := range []string{"Final susceptibles: ", "Final infected: ", "Final recovered: "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("report missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "traj.txt")
	summary := filepath.Join(dir, "summary.csv")
	svg := filepath.Join(dir, "chart.svg")
	metrics := filepath.Join(dir, "metrics.prom")

	code, _, stderr := run(t, "run",
		"--model", "closed",
		"--beta", "uniform(0.25,0.35)",
		"--gamma", "0.2",
		"--s0", "0.75", "--i0", "0.15", "--r0", "0.10",
		"--samples", "64", "--seed", "3",
		"--t1", "5",
		"--out", out, "--summary", summary, "--svg", svg,
		"--metrics-file", metrics,
		"--data", filepath.Join(dir, "runs"),
	)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	data, _ := os.ReadFile(out)
	if n := strings.Count(string(data), "\n"); n != 11 {
		t.Errorf("expected 11 entries, got %d", n)
	}
	csv, _ := os.ReadFile(summary)
	if !strings.HasPrefix(string(csv), "time,S_mean,S_std,S_p5,S_p50,S_p95,") {
		t.Errorf("unexpected summary header %q", strings.SplitN(string(csv), "\n", 2)[0])
	}
	if _, err := os.Stat(svg); err != nil {
		t.Error(err)
	}
	prom, _ := os.ReadFile(metrics)
	if !strings.Contains(string(prom), "sirsim_steps_total") {
		t.Errorf("metrics file missing counters:\n%s", prom)
	}

	code, stdout, stderr := run(t, "list", "--data", filepath.Join(dir, "runs"))
	if code != exitOK {
		t.Fatalf("list exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "closed_") {
		t.Errorf("stored run not listed:\n%s", stdout)
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	nanLevels := filepath.Join(dir, "nan.yaml")
	if err := os.WriteFile(nanLevels, []byte("output:\n  quantiles: [\"nan\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"zero step", []string{"run", "--preset", "closed", "--no-store", "--dt", "0", "--out", filepath.Join(dir, "a.txt")}, exitConfig},
		{"inverted interval", []string{"run", "--preset", "closed", "--no-store", "--t0", "5", "--t1", "1", "--out", filepath.Join(dir, "b.txt")}, exitConfig},
		{"bad spec", []string{"run", "--no-store", "--beta", "cauchy(1,2)"}, exitConfig},
		{"unknown preset", []string{"run", "--preset", "nope"}, exitConfig},
		{"nan quantile level", []string{"run", "--config", nanLevels, "--no-store", "--out", filepath.Join(dir, "c.txt")}, exitConfig},
		{"missing config", []string{"run", "--config", filepath.Join(dir, "missing.yaml")}, exitConfig},
		{"unwritable output", []string{"run", "--preset", "closed", "--no-store", "--out", filepath.Join(dir, "no", "such", "dir.txt")}, exitSink},
		{"unknown store", []string{"list", "--store", "s3"}, exitConfig},
		{"bad log level", []string{"presets", "--log-level", "loud"}, exitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			if code != tt.want {
				t.Errorf("expected exit %d, got %d: %s", tt.want, code, stderr)
			}
		})
	}

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist after a rejected run", name)
		}
	}
}

func TestRunDivergingModel(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "traj.txt")
	data := filepath.Join(dir, "runs")

	code, stdout, stderr := run(t, "run",
		"--model", "closed",
		"--beta", "1e200", "--gamma", "0.2",
		"--s0", "0.5", "--i0", "0.5", "--r0", "0",
		"--dt", "1", "--t1", "5",
		"--out", out, "--data", data,
	)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "level=WARN") || !strings.Contains(stderr, "left [0, 1]") {
		t.Errorf("expected a domain warning:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Final infected: ") {
		t.Errorf("report missing:\n%s", stdout)
	}

	traj, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(traj), "NaN") {
		t.Errorf("expected NaN entries in the trajectory:\n%s", traj)
	}

	entries, err := os.ReadDir(data)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored run: %v", err)
	}
	id := entries[0].Name()
	files, err := os.ReadDir(filepath.Join(data, id))
	if err != nil || len(files) != 3 {
		t.Fatalf("expected 3 files in the run directory, got %d: %v", len(files), err)
	}

	if code, stdout, stderr := run(t, "show", id, "--data", data); code != exitOK || !strings.Contains(stdout, id) {
		t.Errorf("show failed (%d): %s\n%s", code, stderr, stdout)
	}
}

func TestStoredRunCommands(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "runs")

	code, _, stderr := run(t, "run", "--preset", "closed", "--t1", "3", "--out", filepath.Join(dir, "t.txt"), "--data", data)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	entries, err := os.ReadDir(data)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored run: %v", err)
	}
	id := entries[0].Name()

	code, stdout, _ := run(t, "show", id, "--data", data)
	if code != exitOK || !strings.Contains(stdout, id) {
		t.Errorf("show failed (%d):\n%s", code, stdout)
	}

	code, stdout, _ = run(t, "plot", id, "--data", data)
	if code != exitOK || !strings.Contains(stdout, "S, I, R mean vs time") {
		t.Errorf("plot failed (%d):\n%s", code, stdout)
	}

	code, stdout, _ = run(t, "export-csv", id, "--data", data)
	if code != exitOK || !strings.HasPrefix(stdout, "time,S_mean,S_std") {
		t.Errorf("export-csv failed (%d):\n%s", code, stdout)
	}

	if code, _, _ := run(t, "show", "missing", "--data", data); code != exitError {
		t.Errorf("expected exit %d for a missing run, got %d", exitError, code)
	}
}

func TestPresetsCommand(t *testing.T) {
	code, stdout, _ := run(t, "presets")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	for _, name := range []string{"reference", "closed", "uncertain-closed", "endemic"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("missing preset %s", name)
		}
	}
}
