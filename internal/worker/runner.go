package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/kvfinder/kvfinder-web/internal/config"
	"github.com/kvfinder/kvfinder-web/internal/model"
)

// Runner materialises a leased job on disk, invokes parKVFinder and
// collects its artifacts. The job directory is named by the numeric queue
// id, which keeps concurrent worker processes on disjoint paths. Nothing
// is cleaned up afterwards; expiry of the job record owns that.
type Runner struct {
	kvPath  string
	jobPath string
}

func NewRunner(cfg *config.WorkerConfig) *Runner {
	return &Runner{
		kvPath:  cfg.KVPath,
		jobPath: cfg.JobPath,
	}
}

// parameters is the params.toml document handed to the solver.
type parameters struct {
	Title     string         `toml:"title"`
	FilesPath filesPath      `toml:"files_path"`
	Settings  model.Settings `toml:"settings"`
}

type filesPath struct {
	Dictionary string `toml:"dictionary"`
	PDB        string `toml:"pdb"`
	Output     string `toml:"output"`
	BaseName   string `toml:"base_name"`
	Ligand     string `toml:"ligand"`
}

// Relative paths of the three artifacts inside a job directory.
const (
	cavitiesFile = "KV_Files/KVFinderWeb/KVFinderWeb.KVFinder.output.pdb"
	resultsFile  = "KV_Files/KVFinderWeb/KVFinderWeb.KVFinder.results.toml"
	logFile      = "KV_Files/KVFinder.log"
)

// Run processes one job start to finish and returns the solver output.
func (r *Runner) Run(ctx context.Context, job *model.JobInput) (*model.Output, error) {
	dir := filepath.Join(r.jobPath, strconv.FormatUint(job.ID, 10))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job directory: %w", err)
	}

	if err := r.writeParameters(dir, &job.Input); err != nil {
		return nil, err
	}
	if err := writeLines(filepath.Join(dir, "protein.pdb"), job.Input.PDB); err != nil {
		return nil, fmt.Errorf("write protein.pdb: %w", err)
	}
	if job.Input.HasLigand() {
		if err := writeLines(filepath.Join(dir, "ligand.pdb"), job.Input.PDBLigand); err != nil {
			return nil, fmt.Errorf("write ligand.pdb: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, filepath.Join(r.kvPath, "parKVFinder"), "-p", "params.toml")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("parKVFinder failed, check the kv_path setting: %w", err)
	}

	out := &model.Output{}
	for _, artifact := range []struct {
		path string
		dest *string
	}{
		{cavitiesFile, &out.PDBKv},
		{resultsFile, &out.Report},
		{logFile, &out.Log},
	} {
		b, err := os.ReadFile(filepath.Join(dir, artifact.path))
		if err != nil {
			return nil, fmt.Errorf("read artifact: %w", err)
		}
		*artifact.dest = string(b)
	}

	return out, nil
}

func (r *Runner) writeParameters(dir string, in *model.Input) error {
	params := parameters{
		Title: "KVFinder-worker parameters",
		FilesPath: filesPath{
			Dictionary: filepath.Join(r.kvPath, "dictionary"),
			PDB:        "./protein.pdb",
			Ligand:     "./ligand.pdb",
			Output:     "./",
			BaseName:   "KVFinderWeb",
		},
		Settings: in.Settings,
	}

	b, err := toml.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params.toml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "params.toml"), b, 0o644); err != nil {
		return fmt.Errorf("write params.toml: %w", err)
	}
	return nil
}

// writeLines stores PDB lines verbatim. Lines arrive with their own line
// breaks when the client sent them that way; a single newline terminates
// the file either way.
func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "")+"\n"), 0o644)
}
