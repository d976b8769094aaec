package model

import (
	"bytes"
	"encoding/json"
)

// Input is the job submission envelope: the solver settings plus the
// protein structure as raw PDB lines. Its canonical JSON serialisation is
// what gets hashed into the job tag and what gets enqueued, so the struct
// must round-trip byte-identically for the same in-memory value.
type Input struct {
	Settings  Settings `json:"settings" validate:"required"`
	PDB       []string `json:"pdb" validate:"required,min=1"`
	PDBLigand []string `json:"pdb_ligand"`
}

// HasLigand reports whether a ligand structure was sent. A null or absent
// pdb_ligand decodes to nil; an empty array still counts as present.
func (in *Input) HasLigand() bool {
	return in.PDBLigand != nil
}

// Settings mirrors the parKVFinder parameter file section for section.
type Settings struct {
	Modes       Modes    `json:"modes" toml:"modes"`
	StepSize    StepSize `json:"step_size" toml:"step_size"`
	Probes      Probes   `json:"probes" toml:"probes"`
	Cutoffs     Cutoffs  `json:"cutoffs" toml:"cutoffs"`
	VisibleBox  Box      `json:"visiblebox" toml:"visiblebox"`
	InternalBox Box      `json:"internalbox" toml:"internalbox"`
}

type Modes struct {
	WholeProteinMode bool           `json:"whole_protein_mode" toml:"whole_protein_mode"`
	BoxMode          bool           `json:"box_mode" toml:"box_mode"`
	ResolutionMode   ResolutionMode `json:"resolution_mode" toml:"resolution_mode"`
	SurfaceMode      bool           `json:"surface_mode" toml:"surface_mode"`
	KVPMode          bool           `json:"kvp_mode" toml:"kvp_mode"`
	LigandMode       bool           `json:"ligand_mode" toml:"ligand_mode"`
}

type StepSize struct {
	StepSize float64 `json:"step_size" toml:"step_size"`
}

type Probes struct {
	ProbeIn  float64 `json:"probe_in" toml:"probe_in"`
	ProbeOut float64 `json:"probe_out" toml:"probe_out"`
}

type Cutoffs struct {
	VolumeCutoff    float64 `json:"volume_cutoff" toml:"volume_cutoff"`
	LigandCutoff    float64 `json:"ligand_cutoff" toml:"ligand_cutoff"`
	RemovalDistance float64 `json:"removal_distance" toml:"removal_distance"`
}

// Box is a grid box described by four corner points.
type Box struct {
	P1 Point `json:"p1" toml:"p1"`
	P2 Point `json:"p2" toml:"p2"`
	P3 Point `json:"p3" toml:"p3"`
	P4 Point `json:"p4" toml:"p4"`
}

func (b Box) Points() [4]Point {
	return [4]Point{b.P1, b.P2, b.P3, b.P4}
}

type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	Z float64 `json:"z" toml:"z"`
}

// DecodeInput decodes a submission body. Unknown fields anywhere in the
// envelope, including every nested settings object, are rejected.
func DecodeInput(data []byte) (*Input, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, err
	}
	return &in, nil
}
