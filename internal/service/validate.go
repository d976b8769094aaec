package service

import (
	"errors"

	"github.com/kvfinder/kvfinder-web/internal/model"
)

// Validation failures carry fixed messages; the gateway sends them to the
// client verbatim with a 400.
var (
	ErrModeConflict    = errors.New("whole protein mode and box mode must not be both enabled or both disabled")
	ErrResolution      = errors.New("resolution_mode must be Low, or Off with step_size equal to 0.6")
	ErrProbeIn         = errors.New("probe_in must be between 0.0 and 5.0")
	ErrProbeOut        = errors.New("probe_out must be between 0.0 and 50.0")
	ErrProbeOrder      = errors.New("probe_out must be greater than or equal to probe_in")
	ErrRemovalDistance = errors.New("removal_distance must be between 0.0 and 10.0")
	ErrVolumeCutoff    = errors.New("volume_cutoff must not be negative")
	ErrKVPMode         = errors.New("kvp_mode is not supported")
	ErrLigandMissing   = errors.New("ligand_mode is enabled but pdb_ligand was not sent")
	ErrLigandUnwanted  = errors.New("pdb_ligand was sent but ligand_mode is disabled")
	ErrLigandCutoff    = errors.New("ligand_cutoff must be greater than 0.0")
	ErrNoAtomRecords   = errors.New("pdb contains no ATOM or HETATM records")
	ErrInconsistentBox = errors.New("Inconsistent box coordinates")
)

// Validate applies the cross-field parameter rules in a fixed order and
// returns the first violation. It is a pure function over the decoded
// input; structural checks (presence, non-empty pdb) happen at decode
// time in the handler.
func Validate(in *model.Input) error {
	s := &in.Settings

	if s.Modes.WholeProteinMode == s.Modes.BoxMode {
		return ErrModeConflict
	}

	switch s.Modes.ResolutionMode {
	case model.ResolutionLow:
	case model.ResolutionOff:
		if s.StepSize.StepSize != 0.6 {
			return ErrResolution
		}
	default:
		return ErrResolution
	}

	if s.Probes.ProbeIn < 0.0 || s.Probes.ProbeIn > 5.0 {
		return ErrProbeIn
	}
	if s.Probes.ProbeOut < 0.0 || s.Probes.ProbeOut > 50.0 {
		return ErrProbeOut
	}
	if s.Probes.ProbeOut < s.Probes.ProbeIn {
		return ErrProbeOrder
	}

	if s.Cutoffs.RemovalDistance < 0.0 || s.Cutoffs.RemovalDistance > 10.0 {
		return ErrRemovalDistance
	}
	if s.Cutoffs.VolumeCutoff < 0.0 {
		return ErrVolumeCutoff
	}

	if s.Modes.KVPMode {
		return ErrKVPMode
	}

	if s.Modes.LigandMode && !in.HasLigand() {
		return ErrLigandMissing
	}
	if !s.Modes.LigandMode && in.HasLigand() {
		return ErrLigandUnwanted
	}

	if s.Cutoffs.LigandCutoff <= 0.0 {
		return ErrLigandCutoff
	}

	pdbBounds, ok := model.PdbBoundaries(in.PDB, s.Probes.ProbeOut)
	if !ok {
		return ErrNoAtomRecords
	}

	if s.Modes.BoxMode {
		internal := s.InternalBox.Boundaries()
		for _, p := range s.VisibleBox.Points() {
			if !internal.Contains(p) {
				return ErrInconsistentBox
			}
		}
		for _, p := range s.InternalBox.Points() {
			if !pdbBounds.Contains(p) {
				return ErrInconsistentBox
			}
		}
	}

	return nil
}
