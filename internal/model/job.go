package model

// Job is the job view returned to clients. The queue service reports
// every field except ID, which the gateway overwrites with the public tag
// so the internal numeric queue id never leaks.
type Job struct {
	ID           string    `json:"id"`
	Status       JobStatus `json:"status"`
	Output       *Output   `json:"output"`
	CreatedAt    string    `json:"created_at"`
	StartedAt    *string   `json:"started_at"`
	EndedAt      *string   `json:"ended_at"`
	ExpiresAfter string    `json:"expires_after"`
}

// Output holds the three text artifacts produced by a solver run.
type Output struct {
	PDBKv  string `json:"pdb_kv"`
	Report string `json:"report"`
	Log    string `json:"log"`
}

// EnqueueRequest is the body posted to the queue service to create a job.
type EnqueueRequest struct {
	Tags  []string `json:"tags"`
	Input Input    `json:"input"`
}

// JobInput is a leased job: the numeric queue id plus the submitted input.
type JobInput struct {
	ID    uint64 `json:"id"`
	Input Input  `json:"input"`
}
