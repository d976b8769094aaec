package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/kvfinder/kvfinder-web/internal/config"
	"github.com/kvfinder/kvfinder-web/internal/model"
)

// solverScript stands in for parKVFinder. It writes the three artifacts
// the runner collects and records the arguments it was called with.
const solverScript = `#!/bin/sh
echo "$@" > invoked.txt
mkdir -p KV_Files/KVFinderWeb
echo "cavities" > KV_Files/KVFinderWeb/KVFinderWeb.KVFinder.output.pdb
echo "report" > KV_Files/KVFinderWeb/KVFinderWeb.KVFinder.results.toml
echo "log" > KV_Files/KVFinder.log
`

func newTestRunner(t *testing.T, script string) *Runner {
	t.Helper()
	kvPath := t.TempDir()
	if err := os.WriteFile(filepath.Join(kvPath, "parKVFinder"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to install solver stub: %v", err)
	}
	return NewRunner(&config.WorkerConfig{
		KVPath:  kvPath,
		JobPath: t.TempDir(),
	})
}

func testJob(id uint64) *model.JobInput {
	return &model.JobInput{
		ID: id,
		Input: model.Input{
			Settings: model.Settings{
				Modes:    model.Modes{WholeProteinMode: true, ResolutionMode: model.ResolutionLow, SurfaceMode: true},
				StepSize: model.StepSize{StepSize: 0.6},
				Probes:   model.Probes{ProbeIn: 1.4, ProbeOut: 4.0},
				Cutoffs:  model.Cutoffs{VolumeCutoff: 5.0, LigandCutoff: 5.0, RemovalDistance: 2.4},
			},
			PDB: []string{"ATOM line\n", "END"},
		},
	}
}

func TestRunCollectsArtifacts(t *testing.T) {
	r := newTestRunner(t, solverScript)

	out, err := r.Run(context.Background(), testJob(7))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.PDBKv != "cavities\n" {
		t.Errorf("pdb_kv = %q", out.PDBKv)
	}
	if out.Report != "report\n" {
		t.Errorf("report = %q", out.Report)
	}
	if out.Log != "log\n" {
		t.Errorf("log = %q", out.Log)
	}

	dir := filepath.Join(r.jobPath, "7")

	// The solver ran inside the job directory with the parameter file.
	invoked, err := os.ReadFile(filepath.Join(dir, "invoked.txt"))
	if err != nil {
		t.Fatalf("solver stub was not invoked in the job directory: %v", err)
	}
	if got := strings.TrimSpace(string(invoked)); got != "-p params.toml" {
		t.Errorf("solver args = %q, want -p params.toml", got)
	}

	protein, err := os.ReadFile(filepath.Join(dir, "protein.pdb"))
	if err != nil {
		t.Fatalf("protein.pdb missing: %v", err)
	}
	if string(protein) != "ATOM line\nEND\n" {
		t.Errorf("protein.pdb = %q", string(protein))
	}

	if _, err := os.Stat(filepath.Join(dir, "ligand.pdb")); !os.IsNotExist(err) {
		t.Error("ligand.pdb written for a job without a ligand")
	}
}

func TestRunWritesParameters(t *testing.T) {
	r := newTestRunner(t, solverScript)

	if _, err := r.Run(context.Background(), testJob(8)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(r.jobPath, "8", "params.toml"))
	if err != nil {
		t.Fatalf("params.toml missing: %v", err)
	}

	var params parameters
	if err := toml.Unmarshal(b, &params); err != nil {
		t.Fatalf("params.toml does not parse: %v", err)
	}
	if params.FilesPath.PDB != "./protein.pdb" {
		t.Errorf("files_path.pdb = %q", params.FilesPath.PDB)
	}
	if params.FilesPath.BaseName != "KVFinderWeb" {
		t.Errorf("files_path.base_name = %q", params.FilesPath.BaseName)
	}
	if params.FilesPath.Dictionary != filepath.Join(r.kvPath, "dictionary") {
		t.Errorf("files_path.dictionary = %q", params.FilesPath.Dictionary)
	}
	if !params.Settings.Modes.WholeProteinMode {
		t.Error("settings lost whole_protein_mode")
	}
	if params.Settings.Probes.ProbeOut != 4.0 {
		t.Errorf("probe_out = %v", params.Settings.Probes.ProbeOut)
	}
}

func TestRunWritesLigand(t *testing.T) {
	r := newTestRunner(t, solverScript)

	job := testJob(9)
	job.Input.Settings.Modes.LigandMode = true
	job.Input.PDBLigand = []string{"HETATM line\n", "END"}

	if _, err := r.Run(context.Background(), job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(r.jobPath, "9", "ligand.pdb"))
	if err != nil {
		t.Fatalf("ligand.pdb missing: %v", err)
	}
	if string(b) != "HETATM line\nEND\n" {
		t.Errorf("ligand.pdb = %q", string(b))
	}
}

func TestRunSolverFailure(t *testing.T) {
	r := newTestRunner(t, "#!/bin/sh\nexit 1\n")

	_, err := r.Run(context.Background(), testJob(10))
	if err == nil {
		t.Fatal("expected an error from a failing solver")
	}
	if !strings.Contains(err.Error(), "parKVFinder failed") {
		t.Errorf("error = %v, should name the solver", err)
	}
}

func TestRunMissingArtifact(t *testing.T) {
	// Solver exits cleanly but leaves no output behind.
	r := newTestRunner(t, "#!/bin/sh\nexit 0\n")

	if _, err := r.Run(context.Background(), testJob(11)); err == nil {
		t.Error("expected an error when artifacts are missing")
	}
}

func TestRunJobDirectoryCollision(t *testing.T) {
	r := newTestRunner(t, solverScript)
	if err := os.Mkdir(filepath.Join(r.jobPath, "12"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Run(context.Background(), testJob(12)); err == nil {
		t.Error("expected an error when the job directory already exists")
	}
}
